package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"truck-route-system/internal/config"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMetrics(t *testing.T) {
	rc, _ := newTestRedis(t)
	log := logger.NewDiscard()
	cache := services.NewCacheService(rc, &config.CacheConfig{Enabled: true, DefaultTTL: 300, HotDataTTL: 60}, log)

	var target map[string]string
	_, err := cache.Get(context.Background(), "pass:missing", &target)
	require.NoError(t, err)

	h := NewCacheHandler(cache, log)
	rec := httptest.NewRecorder()
	h.GetMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/cache/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics services.CacheMetrics
	decodeBody(t, rec, &metrics)
	assert.Equal(t, uint64(1), metrics.Misses)
	assert.Equal(t, uint64(1), metrics.TotalReqs)
}

func TestRateLimitStatusDoesNotConsume(t *testing.T) {
	rc, _ := newTestRedis(t)
	log := logger.NewDiscard()
	limiter := services.NewRateLimiterService(rc, &config.RateLimitConfig{
		Enabled:     true,
		DefaultRPM:  5,
		BanDuration: 60,
	}, log)
	h := NewRateLimitHandler(limiter, log)

	status := func() map[string]interface{} {
		req := httptest.NewRequest(http.MethodGet, "/api/rate-limit/status", nil)
		req.RemoteAddr = "10.1.1.1:4000"
		rec := httptest.NewRecorder()
		h.GetStatus(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		decodeBody(t, rec, &body)
		return body
	}

	first := status()
	second := status()
	assert.Equal(t, "10.1.1.1", first["ip"])
	assert.Equal(t, float64(5), first["remaining"])
	assert.Equal(t, first["remaining"], second["remaining"])
	assert.Equal(t, false, first["is_banned"])
}
