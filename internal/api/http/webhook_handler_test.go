package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/service"
)

type stubProvider struct{ mock.Mock }

func (s *stubProvider) CreateCheckoutSession(ctx context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) CreateDepositAuthorization(ctx context.Context, params payment.AuthorizationParams) (*payment.Authorization, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) CancelAuthorization(ctx context.Context, paymentIntentID string) error {
	return errors.New("not implemented")
}

func (s *stubProvider) GetChargeDetails(ctx context.Context, paymentIntentID string) (*payment.ChargeDetails, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) ParseWebhookEvent(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := s.Called(payload, signature)
	if e := args.Get(0); e != nil {
		return e.(*payment.WebhookEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubDeposits struct{ mock.Mock }

func (s *stubDeposits) HandleCheckoutCompleted(ctx context.Context, checkout *payment.CompletedCheckout) error {
	args := s.Called(ctx, checkout)
	return args.Error(0)
}

func (s *stubDeposits) RenewExpiringHolds(ctx context.Context) (*service.RenewalSummary, error) {
	args := s.Called(ctx)
	if sum := args.Get(0); sum != nil {
		return sum.(*service.RenewalSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", bytes.NewBufferString(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	provider := new(stubProvider)
	deposits := new(stubDeposits)
	provider.On("ParseWebhookEvent", mock.Anything, mock.Anything).
		Return(nil, errors.New("signature mismatch"))

	rec := postWebhook(NewWebhookHandler(provider, deposits), `{"type":"checkout.session.completed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	deposits.AssertNotCalled(t, "HandleCheckoutCompleted", mock.Anything, mock.Anything)
}

func TestWebhookIgnoresUnrelatedEvents(t *testing.T) {
	provider := new(stubProvider)
	deposits := new(stubDeposits)
	provider.On("ParseWebhookEvent", mock.Anything, mock.Anything).
		Return(&payment.WebhookEvent{Type: "invoice.paid"}, nil)

	rec := postWebhook(NewWebhookHandler(provider, deposits), `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	deposits.AssertNotCalled(t, "HandleCheckoutCompleted", mock.Anything, mock.Anything)
}

func TestWebhookAcknowledgesMissingOrderID(t *testing.T) {
	provider := new(stubProvider)
	deposits := new(stubDeposits)
	provider.On("ParseWebhookEvent", mock.Anything, mock.Anything).
		Return(&payment.WebhookEvent{
			Type:     payment.EventCheckoutCompleted,
			Checkout: &payment.CompletedCheckout{SessionID: "cs_1"},
		}, nil)

	// There is nothing to retry against, so the event is acknowledged
	// rather than redelivered forever.
	rec := postWebhook(NewWebhookHandler(provider, deposits), `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	deposits.AssertNotCalled(t, "HandleCheckoutCompleted", mock.Anything, mock.Anything)
}

func TestWebhookProcessesCheckoutCompleted(t *testing.T) {
	provider := new(stubProvider)
	deposits := new(stubDeposits)
	checkout := &payment.CompletedCheckout{SessionID: "cs_1", OrderID: "42", PaymentIntentID: "pi_1"}
	provider.On("ParseWebhookEvent", mock.Anything, "t=1,v1=sig").
		Return(&payment.WebhookEvent{Type: payment.EventCheckoutCompleted, Checkout: checkout}, nil)
	deposits.On("HandleCheckoutCompleted", mock.Anything, checkout).Return(nil)

	rec := postWebhook(NewWebhookHandler(provider, deposits), `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["received"])
	deposits.AssertExpectations(t)
}

func TestWebhookProcessingFailureIsRetryable(t *testing.T) {
	provider := new(stubProvider)
	deposits := new(stubDeposits)
	checkout := &payment.CompletedCheckout{SessionID: "cs_1", OrderID: "42"}
	provider.On("ParseWebhookEvent", mock.Anything, mock.Anything).
		Return(&payment.WebhookEvent{Type: payment.EventCheckoutCompleted, Checkout: checkout}, nil)
	deposits.On("HandleCheckoutCompleted", mock.Anything, checkout).
		Return(errors.New("database down"))

	rec := postWebhook(NewWebhookHandler(provider, deposits), `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
