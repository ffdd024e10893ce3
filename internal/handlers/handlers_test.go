package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/database"
	"truck-route-system/internal/directory"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/redis"
	"truck-route-system/internal/services"
	"truck-route-system/internal/token"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

var t0 = time.UnixMilli(1_767_225_600_000)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redis.NewFromClient(rdb, logger.NewDiscard()), mr
}

func testRouteConfig() *config.RouteConfig {
	return &config.RouteConfig{
		BaseURL:            "https://portaria.example.com",
		RoutePage:          "rota.html",
		DefaultExpiryHours: 1,
		MaxExpiryHours:     24,
		MaxRecentCodes:     10,
		QRCodeSize:         128,
		WhatsAppMessage:    "🚛 Acesse sua rota de navegação: ",
		HistoryKey:         "test:recent_codes",
	}
}

type memoryPasses struct {
	mu     sync.Mutex
	passes map[string]models.Pass
	err    error
}

func newMemoryPasses() *memoryPasses {
	return &memoryPasses{passes: make(map[string]models.Pass)}
}

func (m *memoryPasses) Create(ctx context.Context, pass *models.Pass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.passes[pass.ID] = *pass
	return nil
}

func (m *memoryPasses) GetByID(ctx context.Context, id string) (*models.Pass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	pass, ok := m.passes[id]
	if !ok {
		return nil, database.ErrPassNotFound
	}
	return &pass, nil
}

func (m *memoryPasses) RecordOpen(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pass, ok := m.passes[id]
	if !ok {
		return database.ErrPassNotFound
	}
	pass.OpenCount++
	pass.LastOpenedAt = &at
	m.passes[id] = pass
	return nil
}

func (m *memoryPasses) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishRouteIssued(r models.RouteRequest) error        { return nil }
func (nopPublisher) PublishRouteAccess(access models.RouteAccessEvent) error { return nil }

type routeFixture struct {
	handler *RouteHandler
	passes  *PassHandler
	repo    *memoryPasses
	now     time.Time
}

func newRouteFixture(t *testing.T) *routeFixture {
	t.Helper()

	log := logger.NewDiscard()
	dir := directory.New(config.DefaultLocations())
	cfg := testRouteConfig()
	rc, _ := newTestRedis(t)

	f := &routeFixture{repo: newMemoryPasses(), now: t0}
	clock := func() time.Time { return f.now }

	cache := services.NewCacheService(rc, &config.CacheConfig{Enabled: true, DefaultTTL: 300, HotDataTTL: 60}, log)
	passService := services.NewPassService(f.repo, cache, log)
	history := services.NewHistoryService(rc, dir, cfg, log)

	routeService := services.NewRouteService(
		services.NewRouteBuilder(dir, cfg.MaxExpiryHours),
		token.NewValidator(dir),
		services.NewEstimateService(&config.EstimateConfig{AverageSpeedKmh: 50}, log),
		passService,
		history,
		nopPublisher{},
		cfg,
		log,
	).WithClock(clock)

	f.handler = NewRouteHandler(routeService, history, cfg, log)
	f.passes = NewPassHandler(passService, log)
	return f
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
