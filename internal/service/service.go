// Package service implements the business logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"errors"
	"time"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/payment"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNothingPayable = errors.New("order has no payable amount")
	ErrAlreadyPaid    = errors.New("order is already paid")
)

// AddItemInput describes one unit to add to the cart. For rentals both
// dates are required; for customizable products a non-empty
// customization text creates a distinct customized line.
type AddItemInput struct {
	ProductID         int64
	Size              string
	RentStart         *time.Time
	RentEnd           *time.Time
	CustomizationText string
}

// CartView pairs the cart with its priced totals.
type CartView struct {
	Cart   cart.Cart   `json:"cartItems"`
	Totals cart.Totals `json:"totals"`
}

type CartService interface {
	Get(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID string, in AddItemInput) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID string, productID int64, key string, quantity int32) (*CartView, error)
	Clear(ctx context.Context, userID string) error
}

// SubmitOrderInput is the buyer's order submission.
type SubmitOrderInput struct {
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
}

// SubmitOrderResult carries the persisted order and, for online payment
// methods, the hosted checkout URL to redirect the buyer to.
type SubmitOrderResult struct {
	Order       *domain.Order `json:"order"`
	CheckoutURL string        `json:"session_url,omitempty"`
}

// OrderStatusView is the payment status poll response.
type OrderStatusView struct {
	OrderID int64              `json:"orderId"`
	Paid    bool               `json:"paid"`
	Status  domain.OrderStatus `json:"status"`
}

type OrderService interface {
	SubmitOrder(ctx context.Context, buyerID string, in SubmitOrderInput) (*SubmitOrderResult, error)
	// Verify resolves a checkout redirect: success ensures the order is
	// marked paid and clears the cart, failure deletes the unpaid order.
	Verify(ctx context.Context, buyerID string, orderID int64, success bool) (*domain.Order, error)
	Status(ctx context.Context, buyerID string, orderID int64) (*OrderStatusView, error)
	// Reorder merges a past order's still-available items back into the
	// buyer's cart.
	Reorder(ctx context.Context, buyerID string, orderID int64) (*CartView, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// RenewalSummary is the renewal batch outcome.
type RenewalSummary struct {
	Scanned int `json:"scanned"`
	Renewed int `json:"renewed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type DepositService interface {
	// HandleCheckoutCompleted finalizes payment for the order named in a
	// verified checkout-completed event and places the initial deposit
	// hold when the order carries one. Safe to call on redelivery.
	HandleCheckoutCompleted(ctx context.Context, checkout *payment.CompletedCheckout) error
	// RenewExpiringHolds replaces deposit authorizations that are about
	// to lapse while their rental is still running.
	RenewExpiringHolds(ctx context.Context) (*RenewalSummary, error)
}

type CatalogService interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, sellerID string, id int64) error
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	ListSellerProducts(ctx context.Context, sellerID string) ([]domain.Product, error)
}

type CommunityService interface {
	CreateBanner(ctx context.Context, b *domain.Banner) error
	ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error)
	UpdateBanner(ctx context.Context, b *domain.Banner) error
	DeleteBanner(ctx context.Context, id int64) error

	CreateRequest(ctx context.Context, r *domain.Request) error
	ListRequests(ctx context.Context) ([]domain.Request, error)
	ToggleRequestLike(ctx context.Context, requestID int64, userID string) (bool, error)
	DeleteRequest(ctx context.Context, id int64, userID string) error

	CreateReview(ctx context.Context, r *domain.Review) error
	ListProductReviews(ctx context.Context, productID int64) ([]domain.Review, error)
}
