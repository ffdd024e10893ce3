package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"truck-route-system/internal/directory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDB struct{ err error }

func (s stubDB) Health() error { return s.err }

type stubRedis struct{ err error }

func (s stubRedis) Health(ctx context.Context) error { return s.err }

func TestHealthAllHealthy(t *testing.T) {
	h := NewHealthHandler(stubDB{}, stubRedis{}, directory.Report{Warnings: []string{"no active destination dock"}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Services["directory"])
	assert.Equal(t, []string{"no active destination dock"}, resp.Warnings)
}

func TestHealthReportsFailures(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseChecker
		redis   RedisChecker
		report  directory.Report
		service string
	}{
		{"database", stubDB{err: errors.New("down")}, stubRedis{}, directory.Report{}, "database"},
		{"redis", stubDB{}, stubRedis{err: errors.New("down")}, directory.Report{}, "redis"},
		{"directory", stubDB{}, stubRedis{}, directory.Report{Errors: []string{"no entry gate configured"}}, "directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.redis, tt.report)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var resp HealthResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, "unhealthy", resp.Status)
			assert.Contains(t, resp.Services[tt.service], "unhealthy")

			rec = httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(stubDB{err: errors.New("down")}, stubRedis{}, directory.Report{})

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
