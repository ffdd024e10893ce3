package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/database"
	"truck-route-system/internal/directory"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
)

func testDirectory() *directory.Directory {
	return directory.New(config.DefaultLocations())
}

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
		MaxRecentCodes:     3,
		QRCodeSize:         128,
		WhatsAppMessage:    "🚛 Acesse sua rota de navegação: ",
		HistoryKey:         "test:recent_codes",
	}
}

type fakePassStore struct {
	mu     sync.Mutex
	passes []models.Pass
	err    error
}

func (f *fakePassStore) Save(ctx context.Context, pass *models.Pass) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.passes = append(f.passes, *pass)
	return nil
}

type fakeHistory struct {
	pushed []models.IssuedRoute
	err    error
}

func (f *fakeHistory) Push(ctx context.Context, issued models.IssuedRoute) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, issued)
	return nil
}

type fakePublisher struct {
	issued   []models.RouteRequest
	accesses []models.RouteAccessEvent
	err      error
}

func (f *fakePublisher) PublishRouteIssued(r models.RouteRequest) error {
	f.issued = append(f.issued, r)
	return f.err
}

func (f *fakePublisher) PublishRouteAccess(access models.RouteAccessEvent) error {
	f.accesses = append(f.accesses, access)
	return f.err
}

type fakePassRepository struct {
	passes  map[string]models.Pass
	opens   map[string]int
	gets    int
	deleted time.Time
}

func newFakePassRepository() *fakePassRepository {
	return &fakePassRepository{
		passes: make(map[string]models.Pass),
		opens:  make(map[string]int),
	}
}

func (f *fakePassRepository) Create(ctx context.Context, pass *models.Pass) error {
	f.passes[pass.ID] = *pass
	return nil
}

func (f *fakePassRepository) GetByID(ctx context.Context, id string) (*models.Pass, error) {
	f.gets++
	pass, ok := f.passes[id]
	if !ok {
		return nil, database.ErrPassNotFound
	}
	pass.OpenCount = f.opens[id]
	return &pass, nil
}

func (f *fakePassRepository) RecordOpen(ctx context.Context, id string, at time.Time) error {
	f.opens[id]++
	return nil
}

func (f *fakePassRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.deleted = before
	var n int64
	for id, pass := range f.passes {
		if pass.ExpiresAt.Before(before) {
			delete(f.passes, id)
			n++
		}
	}
	return n, nil
}
