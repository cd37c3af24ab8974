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

type CommunityHandler struct {
	community service.CommunityService
}

func NewCommunityHandler(community service.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

func (h *CommunityHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	banners, err := h.community.ListBanners(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"banners": banners})
}

func (h *CommunityHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var banner domain.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.community.CreateBanner(r.Context(), &banner); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"banner": banner})
}

func (h *CommunityHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	var banner domain.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	banner.ID = id
	if err := h.community.UpdateBanner(r.Context(), &banner); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"banner": banner})
}

func (h *CommunityHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	if err := h.community.DeleteBanner(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (h *CommunityHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.community.ListRequests(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"requests": requests})
}

func (h *CommunityHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var req domain.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID
	if err := h.community.CreateRequest(r.Context(), &req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"request": req})
}

func (h *CommunityHandler) ToggleRequestLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	liked, err := h.community.ToggleRequestLike(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"liked": liked})
}

func (h *CommunityHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	if err := h.community.DeleteRequest(r.Context(), id, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (h *CommunityHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	reviews, err := h.community.ListProductReviews(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"reviews": reviews})
}

func (h *CommunityHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var review domain.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	review.ProductID = id
	review.UserID = userID
	if err := h.community.CreateReview(r.Context(), &review); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"review": review})
}
