package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"truck-route-system/internal/models"
)

// ErrPassNotFound пропуск отсутствует в реестре
var ErrPassNotFound = errors.New("pass not found")

// PassRepository хранит выданные пропуска в PostgreSQL
type PassRepository struct {
	db *DB
}

// NewPassRepository создает репозиторий пропусков
func NewPassRepository(db *DB) *PassRepository {
	return &PassRepository{db: db}
}

// Create сохраняет выданный пропуск
func (r *PassRepository) Create(ctx context.Context, pass *models.Pass) error {
	query := `
		INSERT INTO route_passes (
			id, truck_plate, truck_model, company_name, driver_name, driver_document,
			entry_gate_id, destination_dock_id, expiry_hours, token, url,
			created_at, expires_at
		) VALUES (
			:id, :truck_plate, :truck_model, :company_name, :driver_name, :driver_document,
			:entry_gate_id, :destination_dock_id, :expiry_hours, :token, :url,
			:created_at, :expires_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, pass); err != nil {
		return fmt.Errorf("failed to create pass: %w", err)
	}
	return nil
}

// GetByID возвращает пропуск по id
func (r *PassRepository) GetByID(ctx context.Context, id string) (*models.Pass, error) {
	pass := &models.Pass{}

	query := `
		SELECT id, truck_plate, truck_model, company_name, driver_name, driver_document,
		       entry_gate_id, destination_dock_id, expiry_hours, token, url,
		       created_at, expires_at, open_count, last_opened_at
		FROM route_passes
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, pass, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, fmt.Errorf("failed to get pass: %w", err)
	}
	return pass, nil
}

// RecordOpen отмечает открытие ссылки водителем.
// Ссылки, выданные до появления реестра, в нем отсутствуют: это не ошибка.
func (r *PassRepository) RecordOpen(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE route_passes
		SET open_count = open_count + 1, last_opened_at = $2
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to record pass open: %w", err)
	}
	return nil
}

// DeleteExpired удаляет пропуска, истекшие до момента before
func (r *PassRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM route_passes WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired passes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted passes: %w", err)
	}
	return deleted, nil
}
