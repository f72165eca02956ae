package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

func TestPGXTiersRepository_Register(t *testing.T) {
	var gotArgs []any
	repo := &PGXTiersRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	expires := time.Now().AddDate(0, 0, 30)
	err := repo.Register(context.Background(), entity.TierRecord{
		LicenseKey:  "LICENSE-KEY-123",
		Tier:        "professional",
		ProductID:   "prod_pro",
		PurchasedAt: time.Now(),
		ExpiresAt:   &expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgs[0] != "LICENSE-KEY-123" || gotArgs[1] != "professional" || gotArgs[2] != "prod_pro" {
		t.Fatalf("unexpected args: %v", gotArgs)
	}
}

func TestPGXTiersRepository_Find(t *testing.T) {
	purchased := time.Now().AddDate(0, -1, 0)
	repo := &PGXTiersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*string) = "LICENSE-KEY-123"
				*dest[1].(*string) = "agency"
				*dest[2].(*string) = "prod_agency"
				*dest[3].(*time.Time) = purchased
				*dest[4].(**time.Time) = nil
				return nil
			}}
		},
	}}

	record, err := repo.Find(context.Background(), "LICENSE-KEY-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Tier != "agency" || record.ExpiresAt != nil {
		t.Fatalf("unexpected record: %+v", record)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.Find(context.Background(), "UNKNOWN-KEY-456"); !errors.Is(err, ErrTierNotFound) {
		t.Fatalf("expected ErrTierNotFound, got %v", err)
	}
}
