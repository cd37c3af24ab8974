package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/payment"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	args := m.Called(ctx, buyerID)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, id int64, paymentIntentID string) error {
	args := m.Called(ctx, id, paymentIntentID)
	return args.Error(0)
}

func (m *mockOrderRepo) SetCheckoutSession(ctx context.Context, id int64, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *mockOrderRepo) DeleteUnpaid(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOrderRepo) UpdateDepositHold(ctx context.Context, id int64, hold *domain.DepositHold) error {
	args := m.Called(ctx, id, hold)
	return args.Error(0)
}

func (m *mockOrderRepo) AppendDepositEvent(ctx context.Context, id int64, event domain.DepositEvent) error {
	args := m.Called(ctx, id, event)
	return args.Error(0)
}

func (m *mockOrderRepo) ListExpiringDepositHolds(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, cutoff)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) Get(ctx context.Context, userID string) (cart.Cart, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(cart.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartRepo) Save(ctx context.Context, userID string, c cart.Cart) error {
	args := m.Called(ctx, userID, c)
	return args.Error(0)
}

func (m *mockCartRepo) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) List(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	args := m.Called(ctx, sellerID)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) Snapshot(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	args := m.Called(ctx, ids)
	if p := args.Get(0); p != nil {
		return p.(map[int64]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCustomizationRepo struct{ mock.Mock }

func (m *mockCustomizationRepo) Create(ctx context.Context, cu *domain.Customization) error {
	args := m.Called(ctx, cu)
	return args.Error(0)
}

func (m *mockCustomizationRepo) GetByID(ctx context.Context, id string) (*domain.Customization, error) {
	args := m.Called(ctx, id)
	if cu := args.Get(0); cu != nil {
		return cu.(*domain.Customization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomizationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if s := args.Get(0); s != nil {
		return s.(*payment.CheckoutSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) CreateDepositAuthorization(ctx context.Context, params payment.AuthorizationParams) (*payment.Authorization, error) {
	args := m.Called(ctx, params)
	if a := args.Get(0); a != nil {
		return a.(*payment.Authorization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) CancelAuthorization(ctx context.Context, paymentIntentID string) error {
	args := m.Called(ctx, paymentIntentID)
	return args.Error(0)
}

func (m *mockProvider) GetChargeDetails(ctx context.Context, paymentIntentID string) (*payment.ChargeDetails, error) {
	args := m.Called(ctx, paymentIntentID)
	if d := args.Get(0); d != nil {
		return d.(*payment.ChargeDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) ParseWebhookEvent(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if e := args.Get(0); e != nil {
		return e.(*payment.WebhookEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAlertSender struct{ mock.Mock }

func (m *mockAlertSender) SendDepositAlert(ctx context.Context, orderID int64, stage, reason string) error {
	args := m.Called(ctx, orderID, stage, reason)
	return args.Error(0)
}
