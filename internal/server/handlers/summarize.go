package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/apperrors"
	"github.com/lexsum/lexsum/internal/ingest"
	"github.com/lexsum/lexsum/pkg/jobstore"
)

// SummarizeHandler accepts multipart PDF uploads on POST /summarize.
type SummarizeHandler struct {
	gateway        *ingest.Gateway
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewSummarizeHandler(gateway *ingest.Gateway, maxUploadBytes int64, logger *zap.Logger) *SummarizeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummarizeHandler{
		gateway:        gateway,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// cacheHitResponse is returned when the summary was already cached.
type cacheHitResponse struct {
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

// acceptedResponse is returned when a job was admitted.
type acceptedResponse struct {
	JobID  string          `json:"job_id"`
	Status jobstore.Status `json:"status"`
}

func (h *SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		apperrors.WriteError(w, http.StatusBadRequest,
			apperrors.CodeInvalidInput, "multipart field 'file' is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.WriteError(w, http.StatusBadRequest,
			apperrors.CodeInvalidInput, "failed to read uploaded file", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	result, err := h.gateway.Submit(r.Context(), data, header.Filename, contentType)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if result.CacheHit() {
		writeJSON(w, http.StatusOK, cacheHitResponse{
			Source:  result.Source,
			Summary: result.Summary,
		})
		return
	}

	writeJSON(w, http.StatusAccepted, acceptedResponse{
		JobID:  result.JobID,
		Status: result.Status,
	})
}
