package http

import (
	"encoding/json"
	"net/http"
	"time"

	"earnshare-backend/internal/auth"
	"earnshare-backend/internal/service"
)

type CartHandler struct {
	carts service.CartService
}

func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID         int64  `json:"productId"`
	Size              string `json:"size"`
	RentStart         string `json:"rentStart"`
	RentEnd           string `json:"rentEnd"`
	CustomizationText string `json:"customizationText"`
}

type updateQuantityRequest struct {
	ProductID int64  `json:"productId"`
	Key       string `json:"key"`
	Quantity  int32  `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	view, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cart": view})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.AddItemInput{
		ProductID:         req.ProductID,
		Size:              req.Size,
		CustomizationText: req.CustomizationText,
	}
	if req.RentStart != "" {
		t, err := time.Parse("2006-01-02", req.RentStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rentStart date")
			return
		}
		in.RentStart = &t
	}
	if req.RentEnd != "" {
		t, err := time.Parse("2006-01-02", req.RentEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rentEnd date")
			return
		}
		in.RentEnd = &t
	}

	view, err := h.carts.AddItem(r.Context(), userID, in)
	if err != nil {
		// A sync failure still produces an updated view; surface both so
		// the client keeps its state and learns the server copy lagged.
		if view != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "cart": view, "synced": false,
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cart": view})
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.carts.UpdateQuantity(r.Context(), userID, req.ProductID, req.Key, req.Quantity)
	if err != nil {
		if view != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "cart": view, "synced": false,
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"cart": view})
}
