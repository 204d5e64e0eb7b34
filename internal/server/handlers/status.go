package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexsum/lexsum/internal/apperrors"
	"github.com/lexsum/lexsum/internal/ingest"
)

// StatusHandler answers GET /status/{jobID} with the job record.
type StatusHandler struct {
	gateway *ingest.Gateway
}

func NewStatusHandler(gateway *ingest.Gateway) *StatusHandler {
	return &StatusHandler{gateway: gateway}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		apperrors.WriteError(w, http.StatusBadRequest,
			apperrors.CodeInvalidInput, "job id is required", nil)
		return
	}

	rec, err := h.gateway.Status(r.Context(), jobID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
