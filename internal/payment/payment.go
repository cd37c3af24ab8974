// Package payment wraps the payment processor behind a small interface
// so the checkout and deposit services can be exercised without the
// processor. Amounts cross this boundary in minor units (cents); the
// domain keeps account-currency units.
package payment

import "context"

// CheckoutLineItem is one payable line of a hosted checkout session.
type CheckoutLineItem struct {
	Name        string
	AmountCents int64
	Quantity    int64
}

// CheckoutSessionParams describes a hosted checkout session request.
// SavePaymentMethod must be set whenever the order carries a deposit:
// without a reusable payment-method reference the deposit can never be
// authorized off-session later.
type CheckoutSessionParams struct {
	OrderID           int64
	Method            string
	Currency          string
	LineItems         []CheckoutLineItem
	SavePaymentMethod bool
}

// CheckoutSession is the created hosted session.
type CheckoutSession struct {
	ID  string
	URL string
}

// AuthorizationParams describes a manual-capture off-session hold.
type AuthorizationParams struct {
	OrderID         int64
	AmountCents     int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	Sequence        int32
}

// Authorization is a created hold. Status is the processor-native intent
// status; "requires_capture" means the hold is live.
type Authorization struct {
	ID          string
	Status      string
	AmountCents int64
}

// StatusRequiresCapture is the processor status of a live manual-capture hold.
const StatusRequiresCapture = "requires_capture"

// ChargeDetails are the reusable references behind a completed charge.
type ChargeDetails struct {
	PaymentIntentID string
	PaymentMethodID string
	CustomerID      string
}

// CompletedCheckout is the payload of a verified session-completed event.
type CompletedCheckout struct {
	SessionID       string
	OrderID         string
	PaymentIntentID string
}

// WebhookEvent is a verified event from the processor.
type WebhookEvent struct {
	Type     string
	Checkout *CompletedCheckout
}

const EventCheckoutCompleted = "checkout.session.completed"

// Provider is the processor capability surface this service needs.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	CreateDepositAuthorization(ctx context.Context, params AuthorizationParams) (*Authorization, error)
	CancelAuthorization(ctx context.Context, paymentIntentID string) error
	GetChargeDetails(ctx context.Context, paymentIntentID string) (*ChargeDetails, error)
	// ParseWebhookEvent verifies the payload signature before trusting
	// any contents. A verification failure must be treated as a hard
	// rejection by the caller.
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}
