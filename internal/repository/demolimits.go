package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoLimitsRepository throttles the unauthenticated demo endpoint per
// caller IP within a rolling window.
type DemoLimitsRepository interface {
	Check(ctx context.Context, ip string) (allowed bool, count int, remaining int, err error)
	Record(ctx context.Context, ip string) error
	SecondsUntilReset(ctx context.Context, ip string) (int, error)
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PGXDemoLimitsRepository implements DemoLimitsRepository with pgx.
type PGXDemoLimitsRepository struct {
	pool     pgxPool
	maxDemos int
	window   time.Duration
}

// NewPGXDemoLimitsRepository instantiates a demo limits repository.
func NewPGXDemoLimitsRepository(pool *pgxpool.Pool, maxDemos int, window time.Duration) *PGXDemoLimitsRepository {
	return &PGXDemoLimitsRepository{pool: pool, maxDemos: maxDemos, window: window}
}

// Check reports whether the IP may run another demo. A row whose window
// started before now-window is treated as reset.
func (r *PGXDemoLimitsRepository) Check(ctx context.Context, ip string) (bool, int, int, error) {
	var (
		count       int
		windowStart time.Time
	)
	err := r.pool.QueryRow(ctx, `
        SELECT demo_count, window_start FROM demo_limits WHERE ip_address = $1
    `, ip).Scan(&count, &windowStart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, 0, r.maxDemos, nil
		}
		return false, 0, 0, fmt.Errorf("check demo limit: %w", err)
	}

	if windowStart.Before(time.Now().Add(-r.window)) {
		return true, 0, r.maxDemos, nil
	}
	if count >= r.maxDemos {
		return false, count, 0, nil
	}
	return true, count, r.maxDemos - count, nil
}

// Record counts one demo request against the IP, resetting the window when
// the previous one has lapsed.
func (r *PGXDemoLimitsRepository) Record(ctx context.Context, ip string) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO demo_limits (ip_address, demo_count, window_start, last_request)
        VALUES ($1, 1, NOW(), NOW())
        ON CONFLICT (ip_address) DO UPDATE SET
            demo_count = CASE
                WHEN demo_limits.window_start < NOW() - $2::interval THEN 1
                ELSE demo_limits.demo_count + 1
            END,
            window_start = CASE
                WHEN demo_limits.window_start < NOW() - $2::interval THEN NOW()
                ELSE demo_limits.window_start
            END,
            last_request = NOW()
    `, ip, r.window)
	if err != nil {
		return fmt.Errorf("record demo request: %w", err)
	}
	return nil
}

// SecondsUntilReset returns how long until the IP's window expires, zero
// when no active window exists.
func (r *PGXDemoLimitsRepository) SecondsUntilReset(ctx context.Context, ip string) (int, error) {
	var windowStart time.Time
	err := r.pool.QueryRow(ctx, `
        SELECT window_start FROM demo_limits WHERE ip_address = $1
    `, ip).Scan(&windowStart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("fetch demo window: %w", err)
	}

	remaining := time.Until(windowStart.Add(r.window))
	if remaining <= 0 {
		return 0, nil
	}
	return int(remaining.Seconds()), nil
}

// CleanupOlderThan drops stale rate-limit rows.
func (r *PGXDemoLimitsRepository) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM demo_limits WHERE last_request < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup demo limits: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ DemoLimitsRepository = (*PGXDemoLimitsRepository)(nil)
