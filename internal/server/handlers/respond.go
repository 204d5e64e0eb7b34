// Package handlers implements the gateway's HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexsum/lexsum/internal/apperrors"
	"github.com/lexsum/lexsum/internal/ingest"
	"github.com/lexsum/lexsum/pkg/jobstore"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondWithError maps pipeline errors onto the HTTP error envelope.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ingest.ErrInvalidInput):
		apperrors.WriteError(w, http.StatusBadRequest,
			apperrors.CodeInvalidInput, err.Error(), nil)
	case errors.Is(err, jobstore.ErrNotFound):
		apperrors.WriteError(w, http.StatusNotFound,
			apperrors.CodeNotFound, "job not found", nil)
	default:
		var ingErr *ingest.IngestionError
		if errors.As(err, &ingErr) {
			apperrors.WriteError(w, http.StatusInternalServerError,
				apperrors.CodeIngestionFailed, ingErr.Error(),
				map[string]any{"stage": ingErr.Stage})
			return
		}
		apperrors.WriteError(w, http.StatusInternalServerError,
			apperrors.CodeInternalError, err.Error(), nil)
	}
}
