package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a PostgreSQL connection pool using pgx and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN must not be empty")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	// Sane defaults for a service-oriented workload.
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the schema when it does not already exist. Statements are
// idempotent so the service can run them on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id UUID PRIMARY KEY,
			license_key TEXT NOT NULL,
			company_name TEXT NOT NULL,
			industry TEXT NOT NULL,
			campaign_data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_license_key ON campaigns (license_key)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_created_at ON campaigns (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS usage (
			license_key TEXT PRIMARY KEY,
			total_uses INTEGER NOT NULL DEFAULT 0,
			first_used TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_used TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_tiers (
			license_key TEXT PRIMARY KEY,
			tier TEXT NOT NULL,
			product_id TEXT NOT NULL,
			purchased_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			expires_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS demo_limits (
			ip_address TEXT PRIMARY KEY,
			demo_count INTEGER NOT NULL DEFAULT 0,
			window_start TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_request TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}
