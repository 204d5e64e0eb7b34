// Package apperrors defines the HTTP error envelope and the mapping
// from pipeline errors to response codes.
//
// Every error response has the shape:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
package apperrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the envelope.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeIngestionFailed    = "INGESTION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorBody is the inner error object.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HTTPErrorResponse is the standard error envelope.
type HTTPErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError writes the envelope with the given status.
func WriteError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// NotFoundHandler is the router fallback for unknown paths.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found", nil)
}

// MethodNotAllowedHandler is the router fallback for wrong methods.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil)
}
