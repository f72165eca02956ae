package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGXDemoLimitsRepository_Check(t *testing.T) {
	t.Run("first request", func(t *testing.T) {
		repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
			},
		}}

		allowed, count, remaining, err := repo.Check(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed || count != 0 || remaining != 3 {
			t.Fatalf("unexpected result: %v %d %d", allowed, count, remaining)
		}
	})

	t.Run("within active window under limit", func(t *testing.T) {
		repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error {
					*dest[0].(*int) = 2
					*dest[1].(*time.Time) = time.Now().Add(-time.Hour)
					return nil
				}}
			},
		}}

		allowed, count, remaining, err := repo.Check(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed || count != 2 || remaining != 1 {
			t.Fatalf("unexpected result: %v %d %d", allowed, count, remaining)
		}
	})

	t.Run("limit reached", func(t *testing.T) {
		repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error {
					*dest[0].(*int) = 3
					*dest[1].(*time.Time) = time.Now().Add(-time.Hour)
					return nil
				}}
			},
		}}

		allowed, _, remaining, err := repo.Check(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed || remaining != 0 {
			t.Fatalf("unexpected result: %v %d", allowed, remaining)
		}
	})

	t.Run("lapsed window resets", func(t *testing.T) {
		repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error {
					*dest[0].(*int) = 3
					*dest[1].(*time.Time) = time.Now().Add(-25 * time.Hour)
					return nil
				}}
			},
		}}

		allowed, count, remaining, err := repo.Check(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed || count != 0 || remaining != 3 {
			t.Fatalf("unexpected result: %v %d %d", allowed, count, remaining)
		}
	})
}

func TestPGXDemoLimitsRepository_Record(t *testing.T) {
	var gotArgs []any
	repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	if err := repo.Record(context.Background(), "203.0.113.7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgs[0] != "203.0.113.7" {
		t.Fatalf("unexpected args: %v", gotArgs)
	}
}

func TestPGXDemoLimitsRepository_SecondsUntilReset(t *testing.T) {
	repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*time.Time) = time.Now().Add(-23 * time.Hour)
				return nil
			}}
		},
	}}

	seconds, err := repo.SecondsUntilReset(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seconds <= 0 || seconds > 3600 {
		t.Fatalf("unexpected seconds: %d", seconds)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	seconds, err = repo.SecondsUntilReset(context.Background(), "203.0.113.8")
	if err != nil || seconds != 0 {
		t.Fatalf("unexpected result: %d %v", seconds, err)
	}
}

func TestPGXDemoLimitsRepository_CleanupOlderThan(t *testing.T) {
	repo := &PGXDemoLimitsRepository{maxDemos: 3, window: 24 * time.Hour, pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 2"), nil
		},
	}}

	pruned, err := repo.CleanupOlderThan(context.Background(), time.Now().AddDate(0, 0, -7))
	if err != nil || pruned != 2 {
		t.Fatalf("unexpected result: %d %v", pruned, err)
	}
}
