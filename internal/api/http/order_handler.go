package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"earnshare-backend/internal/auth"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderRequest struct {
	Address       domain.Address `json:"address"`
	PaymentMethod string         `json:"paymentMethod"`
}

type verifyRequest struct {
	Success bool `json:"success"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	switch method {
	case domain.PaymentMethodCOD, domain.PaymentMethodStripe, domain.PaymentMethodGooglePay:
	default:
		writeError(w, http.StatusBadRequest, "unsupported payment method")
		return
	}

	result, err := h.orders.SubmitOrder(r.Context(), userID, service.SubmitOrderInput{
		Address:       req.Address,
		PaymentMethod: method,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := map[string]any{"order": result.Order}
	if result.CheckoutURL != "" {
		payload["session_url"] = result.CheckoutURL
	}
	writeSuccess(w, payload)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	orders, err := h.orders.ListByBuyer(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"orders": orders})
}

func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	view, err := h.orders.Status(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"order": view})
}

func (h *OrderHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.Verify(r.Context(), userID, id, req.Success)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order == nil {
		// Failed checkout: the unpaid order was removed.
		writeSuccess(w, map[string]any{"paid": false})
		return
	}
	writeSuccess(w, map[string]any{"paid": order.Payment, "order": order})
}

func (h *OrderHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	view, err := h.orders.Reorder(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cart": view})
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"orders": orders})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.OrderStatusPlaced, domain.OrderStatusPacking, domain.OrderStatusShipped,
		domain.OrderStatusOutForDelivery, domain.OrderStatusDelivered:
	default:
		writeError(w, http.StatusBadRequest, "unsupported order status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, nil)
}
