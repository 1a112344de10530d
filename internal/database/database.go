package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/taprate/backend/internal/config"
)

// DB holds database connections
type DB struct {
	Postgres *sqlx.DB
}

// NewDB creates new database connections using config
func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Connect to PostgreSQL
	postgres, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	postgres.SetMaxOpenConns(cfg.Database.MaxConns)
	postgres.SetMaxIdleConns(cfg.Database.MinConns)
	postgres.SetConnMaxLifetime(time.Hour)

	// Test PostgreSQL connection
	if err := postgres.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")

	return &DB{
		Postgres: postgres,
	}, nil
}

// EnsureSchema creates the tables this service reads and writes if they
// do not exist yet. The review-submission and admin flows share the same
// database, so every statement is idempotent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			reward_mode TEXT NOT NULL DEFAULT 'none',
			drawing_frequency TEXT NOT NULL DEFAULT 'monthly',
			drawing_day INT NOT NULL DEFAULT 1,
			next_drawing_at TIMESTAMPTZ,
			last_drawing_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			email TEXT,
			phone TEXT,
			is_winner BOOLEAN NOT NULL DEFAULT FALSE,
			won_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_company_winner
			ON entries (company_id, is_winner)`,

		`CREATE TABLE IF NOT EXISTS coupons (
			code TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id),
			status TEXT NOT NULL DEFAULT 'available',
			issued_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_coupons_company_status
			ON coupons (company_id, status)`,
	}

	for _, stmt := range tables {
		if _, err := db.Postgres.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// Close closes all database connections
func (db *DB) Close() error {
	if err := db.Postgres.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL: %w", err)
	}

	return nil
}
