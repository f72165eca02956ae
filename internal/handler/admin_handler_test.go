package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type fakeMaintenanceStore struct {
	pruned     int64
	campaigns  int64
	owners     int64
	err        error
	lastCutoff time.Time
	calls      int
}

func (f *fakeMaintenanceStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.lastCutoff = cutoff
	return f.pruned, f.err
}

func (f *fakeMaintenanceStore) Totals(ctx context.Context) (int64, int64, error) {
	return f.campaigns, f.owners, f.err
}

type fakeDemoCleaner struct {
	pruned int64
	err    error
	calls  int
}

func (f *fakeDemoCleaner) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	return f.pruned, f.err
}

func postCleanup(t *testing.T, h *AdminHandler) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/cleanup", nil)
	rec := httptest.NewRecorder()
	if err := h.Cleanup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestAdminHandler_Cleanup(t *testing.T) {
	campaigns := &fakeMaintenanceStore{pruned: 4}
	demos := &fakeDemoCleaner{pruned: 11}
	h := NewAdminHandler(campaigns, demos, 30)

	rec := postCleanup(t, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, fragment := range []string{`"campaigns_pruned":4`, `"demo_limits_pruned":11`} {
		if !strings.Contains(rec.Body.String(), fragment) {
			t.Fatalf("expected %q in response, got %s", fragment, rec.Body.String())
		}
	}
	if campaigns.calls != 1 || demos.calls != 1 {
		t.Fatalf("expected both stores pruned: %d %d", campaigns.calls, demos.calls)
	}

	// Cutoff honours the retention window.
	expected := time.Now().AddDate(0, 0, -30)
	if diff := expected.Sub(campaigns.lastCutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("unexpected cutoff: %s", campaigns.lastCutoff)
	}
}

func TestAdminHandler_Cleanup_RetentionDisabled(t *testing.T) {
	campaigns := &fakeMaintenanceStore{}
	demos := &fakeDemoCleaner{pruned: 2}
	h := NewAdminHandler(campaigns, demos, 0)

	rec := postCleanup(t, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if campaigns.calls != 0 {
		t.Fatal("campaign pruning must be skipped when retention is disabled")
	}
	if !strings.Contains(rec.Body.String(), `"campaigns_pruned":0`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminHandler_Stats(t *testing.T) {
	h := NewAdminHandler(&fakeMaintenanceStore{campaigns: 42, owners: 7}, &fakeDemoCleaner{}, 30)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	if err := h.Stats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, fragment := range []string{`"campaigns_saved":42`, `"license_owners":7`} {
		if !strings.Contains(rec.Body.String(), fragment) {
			t.Fatalf("expected %q in response, got %s", fragment, rec.Body.String())
		}
	}

	t.Run("store failure", func(t *testing.T) {
		h := NewAdminHandler(&fakeMaintenanceStore{err: errors.New("down")}, &fakeDemoCleaner{}, 30)
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		rec := httptest.NewRecorder()
		if err := h.Stats(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAdminHandler_Cleanup_Errors(t *testing.T) {
	t.Run("campaign store failure", func(t *testing.T) {
		h := NewAdminHandler(&fakeMaintenanceStore{err: errors.New("down")}, &fakeDemoCleaner{}, 30)
		rec := postCleanup(t, h)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("demo store failure", func(t *testing.T) {
		h := NewAdminHandler(&fakeMaintenanceStore{}, &fakeDemoCleaner{err: errors.New("down")}, 30)
		rec := postCleanup(t, h)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
