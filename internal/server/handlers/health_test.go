package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsum/lexsum/internal/apperrors"
)

type staticChecker struct{ err error }

func (c staticChecker) CheckHealth(ctx context.Context) error { return c.err }

func TestHealthHandlerAllHealthy(t *testing.T) {
	m := NewHealthManager("1.2.3")
	m.RegisterChecker("redis", staticChecker{})
	m.RegisterChecker("blobstore", staticChecker{})

	rec := httptest.NewRecorder()
	m.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, ServiceName, body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "healthy", body.Checks["redis"])
	assert.Equal(t, "healthy", body.Checks["blobstore"])
}

func TestHealthHandlerUnhealthyDependency(t *testing.T) {
	m := NewHealthManager("1.2.3")
	m.RegisterChecker("redis", staticChecker{err: errors.New("connection refused")})
	m.RegisterChecker("blobstore", staticChecker{})

	rec := httptest.NewRecorder()
	m.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeServiceUnavailable, body.Error.Code)

	checks, ok := body.Error.Details["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "unhealthy", checks["redis"])
	assert.Equal(t, "healthy", checks["blobstore"])
}

func TestHealthHandlerNoCheckers(t *testing.T) {
	m := NewHealthManager("dev")

	rec := httptest.NewRecorder()
	m.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLivenessHandler(t *testing.T) {
	m := NewHealthManager("dev")

	rec := httptest.NewRecorder()
	m.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
}
