package http

import (
	"net/http"

	"earnshare-backend/internal/service"
)

// JobsHandler exposes manual triggers for the background jobs. These
// routes are meant to sit behind the internal network boundary, not the
// public API.
type JobsHandler struct {
	deposits service.DepositService
}

func NewJobsHandler(deposits service.DepositService) *JobsHandler {
	return &JobsHandler{deposits: deposits}
}

func (h *JobsHandler) RenewDepositHolds(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deposits.RenewExpiringHolds(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"summary": summary})
}
