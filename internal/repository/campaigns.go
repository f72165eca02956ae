package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

// ErrCampaignNotFound indicates no campaign matches the id for the owner.
var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignsRepository describes persistence operations for campaigns.
// Every lookup is scoped by the owning license key.
type CampaignsRepository interface {
	Save(ctx context.Context, licenseKey string, campaign *entity.Campaign) (uuid.UUID, error)
	Get(ctx context.Context, licenseKey string, id uuid.UUID) (*entity.CampaignRecord, error)
	List(ctx context.Context, licenseKey string, limit, offset int) ([]entity.CampaignSummary, error)
	Delete(ctx context.Context, licenseKey string, id uuid.UUID) (bool, error)
	Count(ctx context.Context, licenseKey string) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PGXCampaignsRepository implements CampaignsRepository using pgx.
type PGXCampaignsRepository struct {
	pool pgxPool
}

// NewPGXCampaignsRepository wires a pgx backed repository.
func NewPGXCampaignsRepository(pool *pgxpool.Pool) *PGXCampaignsRepository {
	return &PGXCampaignsRepository{pool: pool}
}

// Save inserts a campaign under a fresh id. Company name and industry are
// denormalized so List never touches the JSONB payload.
func (r *PGXCampaignsRepository) Save(ctx context.Context, licenseKey string, campaign *entity.Campaign) (uuid.UUID, error) {
	if campaign == nil {
		return uuid.Nil, fmt.Errorf("campaign payload is nil")
	}

	payload, err := json.Marshal(campaign)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal campaign: %w", err)
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx, `
        INSERT INTO campaigns (id, license_key, company_name, industry, campaign_data, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, NOW(), NOW())
    `, id, licenseKey, campaign.Company.Name, campaign.Company.Industry, string(payload))
	if err != nil {
		return uuid.Nil, fmt.Errorf("save campaign: %w", err)
	}

	return id, nil
}

// Get fetches one campaign owned by the given license key.
func (r *PGXCampaignsRepository) Get(ctx context.Context, licenseKey string, id uuid.UUID) (*entity.CampaignRecord, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, license_key, company_name, industry, campaign_data, created_at, updated_at
        FROM campaigns
        WHERE id = $1 AND license_key = $2
    `, id, licenseKey)

	var (
		record  entity.CampaignRecord
		payload []byte
	)
	err := row.Scan(&record.ID, &record.LicenseKey, &record.CompanyName, &record.Industry, &payload, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("fetch campaign: %w", err)
	}

	if err := json.Unmarshal(payload, &record.Campaign); err != nil {
		return nil, fmt.Errorf("unmarshal campaign payload: %w", err)
	}

	return &record, nil
}

// List returns campaign summaries for the owner, newest first.
func (r *PGXCampaignsRepository) List(ctx context.Context, licenseKey string, limit, offset int) ([]entity.CampaignSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, company_name, industry, created_at, updated_at
        FROM campaigns
        WHERE license_key = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, licenseKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var summaries []entity.CampaignSummary
	for rows.Next() {
		var s entity.CampaignSummary
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.Industry, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return summaries, nil
}

// Delete removes one owned campaign, reporting whether a row existed.
func (r *PGXCampaignsRepository) Delete(ctx context.Context, licenseKey string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND license_key = $2`, id, licenseKey)
	if err != nil {
		return false, fmt.Errorf("delete campaign: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of campaigns saved under a license key.
func (r *PGXCampaignsRepository) Count(ctx context.Context, licenseKey string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM campaigns WHERE license_key = $1`, licenseKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	return count, nil
}

// Totals reports fleet-wide campaign and owner counts for the admin
// stats endpoint.
func (r *PGXCampaignsRepository) Totals(ctx context.Context) (campaigns, owners int64, err error) {
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(DISTINCT license_key) FROM campaigns`).Scan(&campaigns, &owners)
	if err != nil {
		return 0, 0, fmt.Errorf("count totals: %w", err)
	}
	return campaigns, owners, nil
}

// DeleteOlderThan prunes campaigns created before the cutoff, across all
// owners. Used by the retention maintenance job.
func (r *PGXCampaignsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune campaigns: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ CampaignsRepository = (*PGXCampaignsRepository)(nil)
