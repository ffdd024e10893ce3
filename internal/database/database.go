package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"truck-route-system/internal/config"
	"truck-route-system/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB представляет подключение к базе данных
type DB struct {
	*sqlx.DB
}

// Connect создает подключение к базе данных
func Connect(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Successfully connected to database")

	return &DB{DB: db}, nil
}

// NewFromSQL оборачивает готовое подключение database/sql
func NewFromSQL(db *sql.DB) *DB {
	return &DB{DB: sqlx.NewDb(db, "postgres")}
}

// Close закрывает подключение к базе данных
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health проверяет состояние базы данных
func (db *DB) Health() error {
	return db.Ping()
}

const schema = `
CREATE TABLE IF NOT EXISTS route_passes (
	id                  TEXT PRIMARY KEY,
	truck_plate         TEXT NOT NULL,
	truck_model         TEXT NOT NULL DEFAULT '',
	company_name        TEXT NOT NULL DEFAULT '',
	driver_name         TEXT NOT NULL,
	driver_document     TEXT NOT NULL DEFAULT '',
	entry_gate_id       INTEGER NOT NULL,
	destination_dock_id INTEGER NOT NULL,
	expiry_hours        INTEGER NOT NULL,
	token               TEXT NOT NULL,
	url                 TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	expires_at          TIMESTAMPTZ NOT NULL,
	open_count          INTEGER NOT NULL DEFAULT 0,
	last_opened_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_route_passes_expires_at ON route_passes (expires_at);
`

// Migrate создает таблицы реестра, если их еще нет
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
