package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"earnshare-backend/internal/logger"
)

// StripeProvider implements Provider on the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripeProvider builds a provider with its own API client.
func NewStripeProvider(secretKey, webhookSecret, successURL, cancelURL string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(params.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
				UnitAmount: stripe.Int64(li.AmountCents),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	orderID := strconv.FormatInt(params.OrderID, 10)
	sessionParams := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(fmt.Sprintf("%s?success=true&orderId=%s", p.successURL, orderID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s?success=false&orderId=%s", p.cancelURL, orderID)),
	}
	sessionParams.AddMetadata("orderId", orderID)
	if params.SavePaymentMethod {
		// The deposit hold is authorized off-session after checkout, so
		// the payment method collected here must be reusable.
		sessionParams.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			SetupFutureUsage: stripe.String("off_session"),
		}
		sessionParams.PaymentIntentData.AddMetadata("orderId", orderID)
	}

	session, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session for order %s: %w", orderID, err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (p *StripeProvider) CreateDepositAuthorization(ctx context.Context, params AuthorizationParams) (*Authorization, error) {
	orderID := strconv.FormatInt(params.OrderID, 10)
	intentParams := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(params.AmountCents),
		Currency:      stripe.String(params.Currency),
		Customer:      stripe.String(params.CustomerID),
		PaymentMethod: stripe.String(params.PaymentMethodID),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	intentParams.AddMetadata("orderId", orderID)
	intentParams.AddMetadata("type", "rental_deposit")
	intentParams.AddMetadata("sequence", strconv.FormatInt(int64(params.Sequence), 10))

	intent, err := p.api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize deposit for order %s: %w", orderID, err)
	}
	return &Authorization{
		ID:          intent.ID,
		Status:      string(intent.Status),
		AmountCents: intent.Amount,
	}, nil
}

func (p *StripeProvider) CancelAuthorization(ctx context.Context, paymentIntentID string) error {
	_, err := p.api.PaymentIntents.Cancel(paymentIntentID, &stripe.PaymentIntentCancelParams{
		Params:             stripe.Params{Context: ctx},
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	})
	if err != nil {
		return fmt.Errorf("failed to cancel payment intent %s: %w", paymentIntentID, err)
	}
	return nil
}

func (p *StripeProvider) GetChargeDetails(ctx context.Context, paymentIntentID string) (*ChargeDetails, error) {
	intent, err := p.api.PaymentIntents.Get(paymentIntentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", paymentIntentID, err)
	}
	details := &ChargeDetails{PaymentIntentID: intent.ID}
	if intent.PaymentMethod != nil {
		details.PaymentMethodID = intent.PaymentMethod.ID
	}
	if intent.Customer != nil {
		details.CustomerID = intent.Customer.ID
	}
	return details, nil
}

func (p *StripeProvider) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	parsed := &WebhookEvent{Type: string(event.Type)}
	if event.Type == stripe.EventTypeCheckoutSessionCompleted {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to parse checkout session payload: %w", err)
		}
		checkout := &CompletedCheckout{
			SessionID: session.ID,
			OrderID:   session.Metadata["orderId"],
		}
		if session.PaymentIntent != nil {
			checkout.PaymentIntentID = session.PaymentIntent.ID
		}
		parsed.Checkout = checkout
	} else {
		logger.Debug("ignoring webhook event", "type", event.Type)
	}
	return parsed, nil
}
