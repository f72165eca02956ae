package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

// ErrTierNotFound indicates no tier registration exists for the key.
var ErrTierNotFound = errors.New("tier registration not found")

// TiersRepository persists license-to-tier registrations.
type TiersRepository interface {
	Register(ctx context.Context, record entity.TierRecord) error
	Find(ctx context.Context, licenseKey string) (*entity.TierRecord, error)
}

// PGXTiersRepository implements TiersRepository with pgx.
type PGXTiersRepository struct {
	pool pgxPool
}

// NewPGXTiersRepository instantiates a tiers repository.
func NewPGXTiersRepository(pool *pgxpool.Pool) *PGXTiersRepository {
	return &PGXTiersRepository{pool: pool}
}

// Register inserts or updates a tier registration. Re-registration keeps
// the original purchase timestamp so upgrades do not reset it.
func (r *PGXTiersRepository) Register(ctx context.Context, record entity.TierRecord) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO user_tiers (license_key, tier, product_id, purchased_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (license_key) DO UPDATE SET
            tier = EXCLUDED.tier,
            product_id = EXCLUDED.product_id,
            expires_at = EXCLUDED.expires_at
    `, record.LicenseKey, record.Tier, record.ProductID, record.PurchasedAt, record.ExpiresAt)
	if err != nil {
		return fmt.Errorf("register tier: %w", err)
	}
	return nil
}

// Find fetches the tier registration for a license key.
func (r *PGXTiersRepository) Find(ctx context.Context, licenseKey string) (*entity.TierRecord, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT license_key, tier, product_id, purchased_at, expires_at
        FROM user_tiers
        WHERE license_key = $1
    `, licenseKey)

	var record entity.TierRecord
	if err := row.Scan(&record.LicenseKey, &record.Tier, &record.ProductID, &record.PurchasedAt, &record.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("fetch tier: %w", err)
	}
	return &record, nil
}

var _ TiersRepository = (*PGXTiersRepository)(nil)
