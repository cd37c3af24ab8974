package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/pricing"
)

type orderFixture struct {
	orders         *mockOrderRepo
	carts          *mockCartRepo
	products       *mockProductRepo
	customizations *mockCustomizationRepo
	provider       *mockProvider
	svc            OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:         new(mockOrderRepo),
		carts:          new(mockCartRepo),
		products:       new(mockProductRepo),
		customizations: new(mockCustomizationRepo),
		provider:       new(mockProvider),
	}
	checkout := NewCheckoutService(f.orders, f.provider, "usd")
	f.svc = NewOrderService(f.orders, f.carts, f.products, f.customizations, checkout, 10, "usd")
	return f
}

var (
	testShirt = domain.Product{ID: 1, Name: "Shirt", Price: 30}
	testGown  = domain.Product{ID: 2, Name: "Gown", Price: 200, DailyRate: 20, Rentable: true}
)

func purchaseCart(t *testing.T, quantity int32) cart.Cart {
	t.Helper()
	c, key, err := cart.Cart{}.AddLine(testShirt, "M", nil, nil)
	require.NoError(t, err)
	return c.SetQuantity(testShirt.ID, key, quantity)
}

func rentalCart(t *testing.T) cart.Cart {
	t.Helper()
	start := frozenNow
	end := frozenNow.AddDate(0, 0, 4)
	rent := pricing.Compute(testGown.DailyRate, testGown.Price, &start, &end)
	c, _, err := cart.Cart{}.AddLine(testGown, "", rent, nil)
	require.NoError(t, err)
	return c
}

func TestSubmitOrderCODPlacesWithoutSession(t *testing.T) {
	f := newOrderFixture()

	f.carts.On("Get", mock.Anything, "buyer-1").Return(purchaseCart(t, 2), nil)
	f.products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testShirt.ID: testShirt}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 42 }).Return(nil)
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(nil)

	result, err := f.svc.SubmitOrder(context.Background(), "buyer-1", SubmitOrderInput{
		PaymentMethod: domain.PaymentMethodCOD,
	})

	require.NoError(t, err)
	assert.Empty(t, result.CheckoutURL)
	assert.Equal(t, int64(42), result.Order.ID)
	assert.False(t, result.Order.Payment)
	assert.Equal(t, 70.0, result.Order.Amount) // 60 purchase + 10 shipping
	assert.Equal(t, domain.DepositHoldNone, result.Order.Deposit.Status)
	f.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	f.carts.AssertExpectations(t)
}

func TestSubmitOrderOnlineReturnsSessionURL(t *testing.T) {
	f := newOrderFixture()

	f.carts.On("Get", mock.Anything, "buyer-1").Return(rentalCart(t), nil)
	f.products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testGown.ID: testGown}, nil)

	var created *domain.Order
	f.orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Order)
			created.ID = 42
		}).Return(nil)
	f.provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.CheckoutSessionParams) bool {
		return p.OrderID == 42 && p.SavePaymentMethod
	})).Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil)
	f.orders.On("SetCheckoutSession", mock.Anything, int64(42), "cs_1").Return(nil)

	result, err := f.svc.SubmitOrder(context.Background(), "buyer-1", SubmitOrderInput{
		PaymentMethod: domain.PaymentMethodStripe,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_1", result.CheckoutURL)
	// 5 rental days at 20/day against a 200 reference value.
	assert.Equal(t, 100.0, created.RentSubtotal)
	assert.Equal(t, 100.0, created.DepositTotal)
	assert.Equal(t, 110.0, created.Amount)
	assert.Equal(t, domain.DepositHoldPending, created.Deposit.Status)
	require.NotNil(t, created.Deposit.RentalEndDate)
	require.Len(t, created.RentBreakdown, 1)
	// The cart holds no deposit artifacts yet; the webhook fills those in.
	assert.Empty(t, created.Deposit.PaymentIntentID)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)

	_, err := f.svc.SubmitOrder(context.Background(), "buyer-1", SubmitOrderInput{
		PaymentMethod: domain.PaymentMethodStripe,
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitOrderSessionFailureDeletesOrder(t *testing.T) {
	f := newOrderFixture()

	f.carts.On("Get", mock.Anything, "buyer-1").Return(purchaseCart(t, 1), nil)
	f.products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testShirt.ID: testShirt}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 42 }).Return(nil)
	f.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("processor unavailable"))
	f.orders.On("DeleteUnpaid", mock.Anything, int64(42)).Return(nil)

	_, err := f.svc.SubmitOrder(context.Background(), "buyer-1", SubmitOrderInput{
		PaymentMethod: domain.PaymentMethodStripe,
	})

	assert.Error(t, err)
	f.orders.AssertExpectations(t)
}

func TestVerifySuccessMarksPaidAndClearsCart(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.Order{ID: 42, BuyerID: "buyer-1"}, nil)
	f.orders.On("MarkPaid", mock.Anything, int64(42), "").Return(nil)
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(nil)

	order, err := f.svc.Verify(context.Background(), "buyer-1", 42, true)

	require.NoError(t, err)
	assert.True(t, order.Payment)
	f.orders.AssertExpectations(t)
	f.carts.AssertExpectations(t)
}

func TestVerifyFailureDeletesUnpaidOrder(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.Order{ID: 42, BuyerID: "buyer-1"}, nil)
	f.orders.On("DeleteUnpaid", mock.Anything, int64(42)).Return(nil)

	order, err := f.svc.Verify(context.Background(), "buyer-1", 42, false)

	require.NoError(t, err)
	assert.Nil(t, order)
	f.orders.AssertExpectations(t)
}

func TestVerifyFailureKeepsPaidOrder(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.Order{ID: 42, BuyerID: "buyer-1", Payment: true}, nil)

	order, err := f.svc.Verify(context.Background(), "buyer-1", 42, false)

	require.NoError(t, err)
	require.NotNil(t, order)
	f.orders.AssertNotCalled(t, "DeleteUnpaid", mock.Anything, mock.Anything)
}

func TestVerifyRejectsOtherBuyersOrder(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.Order{ID: 42, BuyerID: "someone-else"}, nil)

	_, err := f.svc.Verify(context.Background(), "buyer-1", 42, true)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReorderSkipsRentalLines(t *testing.T) {
	f := newOrderFixture()

	past := &domain.Order{
		ID:      42,
		BuyerID: "buyer-1",
		Items: []domain.OrderItem{
			{ProductID: testShirt.ID, Name: "Shirt", Size: "M", SizeKey: "M", Quantity: 2},
			{ProductID: testGown.ID, Name: "Gown", Quantity: 1, RentInfo: &pricing.RentInfo{Days: 5, RentFee: 100}},
		},
	}
	f.orders.On("GetByID", mock.Anything, int64(42)).Return(past, nil)
	f.products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testShirt.ID: testShirt, testGown.ID: testGown}, nil)
	f.carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)

	var saved cart.Cart
	f.carts.On("Save", mock.Anything, "buyer-1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(cart.Cart) }).Return(nil)

	view, err := f.svc.Reorder(context.Background(), "buyer-1", 42)

	require.NoError(t, err)
	assert.Equal(t, int32(2), saved[testShirt.ID]["M"].Quantity)
	_, hasRental := saved[testGown.ID]
	assert.False(t, hasRental)
	assert.Equal(t, 60.0, view.Totals.PurchaseSubtotal)
}

func TestStatusPoll(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("GetByID", mock.Anything, int64(42)).Return(&domain.Order{
		ID: 42, BuyerID: "buyer-1", Payment: true, Status: domain.OrderStatusShipped,
	}, nil)

	view, err := f.svc.Status(context.Background(), "buyer-1", 42)

	require.NoError(t, err)
	assert.Equal(t, &OrderStatusView{OrderID: 42, Paid: true, Status: domain.OrderStatusShipped}, view)
}
