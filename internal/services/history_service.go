package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/directory"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/redis"
	"truck-route-system/internal/token"
)

// HistoryService хранит последние выданные ссылки в списке Redis, новые в начале
type HistoryService struct {
	redis *redis.Client
	dir   *directory.Directory
	key   string
	limit int
	log   *logger.Logger
	now   func() time.Time
}

func NewHistoryService(redis *redis.Client, dir *directory.Directory, cfg *config.RouteConfig, log *logger.Logger) *HistoryService {
	return &HistoryService{
		redis: redis,
		dir:   dir,
		key:   cfg.HistoryKey,
		limit: cfg.MaxRecentCodes,
		log:   log,
		now:   time.Now,
	}
}

// Push добавляет выданную ссылку в историю и обрезает историю до лимита
func (s *HistoryService) Push(ctx context.Context, issued models.IssuedRoute) error {
	entry := models.RecentCode{
		RouteRequest: issued.Request,
		URL:          issued.URL,
	}

	if gate, ok := directory.FindByID(s.dir.EntryGates, issued.Request.EntryGateID); ok {
		entry.EntryGate = &gate
	}
	if dock, ok := directory.FindByID(s.dir.Docks, issued.Request.DestinationDockID); ok {
		entry.DestinationDock = &dock
	}

	if err := s.redis.PushCapped(ctx, s.key, entry, s.limit); err != nil {
		return fmt.Errorf("failed to save recent code: %w", err)
	}
	return nil
}

// List возвращает историю с отметкой об истечении на текущий момент
func (s *HistoryService) List(ctx context.Context) ([]models.RecentCode, error) {
	raw, err := s.redis.ListRange(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent codes: %w", err)
	}

	now := s.now()
	codes := make([]models.RecentCode, 0, len(raw))
	for _, item := range raw {
		var code models.RecentCode
		if err := json.Unmarshal([]byte(item), &code); err != nil {
			s.log.WithError(err).WithField("key", s.key).Warn("Skipping corrupted recent code")
			continue
		}

		remaining := token.TimeRemaining(code.ExpiryTimestamp, now)
		code.Expired = code.IsExpired(now)
		code.Remaining = FormatTimeRemaining(remaining)
		codes = append(codes, code)
	}

	return codes, nil
}

// Remove удаляет запись истории по id маршрута. Возвращает false, если записи не было.
func (s *HistoryService) Remove(ctx context.Context, id string) (bool, error) {
	raw, err := s.redis.ListRange(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("failed to load recent codes: %w", err)
	}

	var removed int64
	for _, item := range raw {
		var code models.RecentCode
		if err := json.Unmarshal([]byte(item), &code); err != nil || code.ID != id {
			continue
		}

		n, err := s.redis.ListRemove(ctx, s.key, item)
		if err != nil {
			return false, fmt.Errorf("failed to remove recent code %s: %w", id, err)
		}
		removed += n
	}

	if removed > 0 {
		s.log.WithField("route_id", id).Info("Recent code removed")
	}
	return removed > 0, nil
}
