package repository

import (
	"context"
	"time"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	Snapshot(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

type CartRepository interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	Save(ctx context.Context, userID string, c cart.Cart) error
	Clear(ctx context.Context, userID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	// MarkPaid flips payment=true and records the charge's payment intent.
	// Setting a boolean is naturally idempotent; redelivered webhooks are safe.
	MarkPaid(ctx context.Context, id int64, paymentIntentID string) error
	SetCheckoutSession(ctx context.Context, id int64, sessionID string) error
	// DeleteUnpaid removes an order only while payment=false.
	DeleteUnpaid(ctx context.Context, id int64) error

	// UpdateDepositHold persists the hold columns of an order.
	UpdateDepositHold(ctx context.Context, id int64, hold *domain.DepositHold) error
	// AppendDepositEvent extends the append-only deposit history. The
	// append happens server-side in one statement so concurrent workers
	// cannot lose entries to a read-modify-write race.
	AppendDepositEvent(ctx context.Context, id int64, event domain.DepositEvent) error
	// ListExpiringDepositHolds returns orders whose hold is active (or in
	// a processor-transient state) and expires at or before cutoff.
	ListExpiringDepositHolds(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}

type CustomizationRepository interface {
	Create(ctx context.Context, cu *domain.Customization) error
	GetByID(ctx context.Context, id string) (*domain.Customization, error)
	Delete(ctx context.Context, id string) error
}

type BannerRepository interface {
	Create(ctx context.Context, b *domain.Banner) error
	List(ctx context.Context, activeOnly bool) ([]domain.Banner, error)
	Update(ctx context.Context, b *domain.Banner) error
	Delete(ctx context.Context, id int64) error
}

type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) error
	List(ctx context.Context) ([]domain.Request, error)
	ToggleLike(ctx context.Context, requestID int64, userID string) (liked bool, err error)
	Delete(ctx context.Context, id int64, userID string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}
