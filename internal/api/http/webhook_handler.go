package http

import (
	"io"
	"net/http"

	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/service"
)

// maxWebhookBody caps the webhook payload size before signature
// verification touches it.
const maxWebhookBody = 1 << 16

type WebhookHandler struct {
	provider payment.Provider
	deposits service.DepositService
}

func NewWebhookHandler(provider payment.Provider, deposits service.DepositService) *WebhookHandler {
	return &WebhookHandler{provider: provider, deposits: deposits}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	event, err := h.provider.ParseWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		// An unverifiable payload is rejected outright; nothing in it can
		// be trusted.
		logger.Warn("webhook rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if event.Type != payment.EventCheckoutCompleted || event.Checkout == nil {
		writeSuccess(w, map[string]any{"received": true})
		return
	}

	if event.Checkout.OrderID == "" {
		// Without an order reference there is nothing to retry against;
		// acknowledge so the processor stops redelivering.
		logger.Error("checkout event carries no order id", "session_id", event.Checkout.SessionID)
		writeSuccess(w, map[string]any{"received": true})
		return
	}

	if err := h.deposits.HandleCheckoutCompleted(r.Context(), event.Checkout); err != nil {
		// A processing failure is retryable; a non-2xx answer makes the
		// processor redeliver.
		logger.Error("failed to process checkout event",
			"session_id", event.Checkout.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}
	writeSuccess(w, map[string]any{"received": true})
}
