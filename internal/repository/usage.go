package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

// UsageRepository tracks server-key generation counts per license key.
type UsageRepository interface {
	Check(ctx context.Context, licenseKey string) (canUse bool, uses int, needsOwnKey bool, err error)
	Increment(ctx context.Context, licenseKey string) error
	Stats(ctx context.Context, licenseKey string) (entity.UsageStats, error)
}

// PGXUsageRepository implements UsageRepository with pgx. freeLimit is the
// number of generations covered by the server's provider key.
type PGXUsageRepository struct {
	pool      pgxPool
	freeLimit int
}

// NewPGXUsageRepository instantiates a usage repository.
func NewPGXUsageRepository(pool *pgxpool.Pool, freeLimit int) *PGXUsageRepository {
	return &PGXUsageRepository{pool: pool, freeLimit: freeLimit}
}

// Check reports whether the key may still consume the server's provider
// key. A key with no row has never been used and may proceed.
func (r *PGXUsageRepository) Check(ctx context.Context, licenseKey string) (bool, int, bool, error) {
	var uses int
	err := r.pool.QueryRow(ctx, `SELECT total_uses FROM usage WHERE license_key = $1`, licenseKey).Scan(&uses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, 0, false, nil
		}
		return false, 0, false, fmt.Errorf("check usage: %w", err)
	}

	if uses >= r.freeLimit {
		return false, uses, true, nil
	}
	return true, uses, false, nil
}

// Increment bumps the usage counter, creating the row on first use.
func (r *PGXUsageRepository) Increment(ctx context.Context, licenseKey string) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO usage (license_key, total_uses, first_used, last_used)
        VALUES ($1, 1, NOW(), NOW())
        ON CONFLICT (license_key) DO UPDATE SET
            total_uses = usage.total_uses + 1,
            last_used = NOW()
    `, licenseKey)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// Stats returns the usage snapshot for a key; unknown keys report zero
// uses against the full free limit.
func (r *PGXUsageRepository) Stats(ctx context.Context, licenseKey string) (entity.UsageStats, error) {
	var (
		uses      int
		firstUsed time.Time
		lastUsed  time.Time
	)
	err := r.pool.QueryRow(ctx, `
        SELECT total_uses, first_used, last_used FROM usage WHERE license_key = $1
    `, licenseKey).Scan(&uses, &firstUsed, &lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.UsageStats{Limit: r.freeLimit, Remaining: r.freeLimit}, nil
		}
		return entity.UsageStats{}, fmt.Errorf("fetch usage stats: %w", err)
	}

	remaining := r.freeLimit - uses
	if remaining < 0 {
		remaining = 0
	}
	return entity.UsageStats{
		Uses:        uses,
		Limit:       r.freeLimit,
		Remaining:   remaining,
		NeedsOwnKey: uses >= r.freeLimit,
		FirstUsed:   &firstUsed,
		LastUsed:    &lastUsed,
	}, nil
}

var _ UsageRepository = (*PGXUsageRepository)(nil)
