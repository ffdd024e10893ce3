package services

import (
	"context"
	"fmt"
	"time"

	"truck-route-system/internal/kafka"
	"truck-route-system/internal/logger"
	"truck-route-system/internal/models"
	"truck-route-system/internal/redis"
)

// PassRepository хранилище реестра пропусков
type PassRepository interface {
	Create(ctx context.Context, pass *models.Pass) error
	GetByID(ctx context.Context, id string) (*models.Pass, error)
	RecordOpen(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PassService работает с реестром пропусков через кеш
type PassService struct {
	repo  PassRepository
	cache *CacheService
	log   *logger.Logger
}

func NewPassService(repo PassRepository, cache *CacheService, log *logger.Logger) *PassService {
	return &PassService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Save регистрирует выданный пропуск
func (s *PassService) Save(ctx context.Context, pass *models.Pass) error {
	return s.repo.Create(ctx, pass)
}

// Get возвращает пропуск, сначала из кеша
func (s *PassService) Get(ctx context.Context, id string) (*models.Pass, error) {
	key := BuildKey(redis.KeyPrefixPass, id)

	var cached models.Pass
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("pass_id", id).Warn("Failed to read pass from cache")
	} else if found {
		return &cached, nil
	}

	pass, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Счетчик открытий действующего пропуска меняется, поэтому TTL короче
	ttl := s.cache.GetDefaultTTL()
	if time.Now().Before(pass.ExpiresAt) {
		ttl = s.cache.GetHotDataTTL()
	}

	if err := s.cache.Set(ctx, key, pass, ttl); err != nil {
		s.log.WithError(err).WithField("pass_id", id).Warn("Failed to cache pass")
	}
	return pass, nil
}

// RecordOpen отмечает открытие пропуска и сбрасывает его кеш
func (s *PassService) RecordOpen(ctx context.Context, id string, at time.Time) error {
	if err := s.repo.RecordOpen(ctx, id, at); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, BuildKey(redis.KeyPrefixPass, id)); err != nil {
		s.log.WithError(err).WithField("pass_id", id).Warn("Failed to invalidate pass cache")
	}
	return nil
}

// PurgeExpired удаляет из реестра пропуска, истекшие раньше retention назад
func (s *PassService) PurgeExpired(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, now.Add(-retention))
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("Expired passes purged")
	}
	return deleted, nil
}

// HandleRouteOpened обработчик события route.opened из Kafka
func (s *PassService) HandleRouteOpened(ctx context.Context, event *models.Event) error {
	var access models.RouteAccessEvent
	if err := kafka.DecodeData(event, &access); err != nil {
		return err
	}

	if access.RouteID == "" {
		return fmt.Errorf("route.opened event %s has no route id", event.ID)
	}

	at := access.Timestamp
	if at.IsZero() {
		at = event.Timestamp
	}
	return s.RecordOpen(ctx, access.RouteID, at)
}
