package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// MaintenanceStore is the campaign-store surface the admin handler needs.
type MaintenanceStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Totals(ctx context.Context) (campaigns, owners int64, err error)
}

// DemoLimitCleaner prunes stale demo rate-limit rows.
type DemoLimitCleaner interface {
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AdminHandler exposes JWT-guarded maintenance endpoints.
type AdminHandler struct {
	campaigns     MaintenanceStore
	demoLimits    DemoLimitCleaner
	retentionDays int
}

// NewAdminHandler constructs an AdminHandler. retentionDays of zero
// disables campaign pruning.
func NewAdminHandler(campaigns MaintenanceStore, demoLimits DemoLimitCleaner, retentionDays int) *AdminHandler {
	return &AdminHandler{campaigns: campaigns, demoLimits: demoLimits, retentionDays: retentionDays}
}

// Cleanup handles POST /admin/cleanup requests: prunes expired campaigns
// and stale demo rate-limit rows.
func (h *AdminHandler) Cleanup(c echo.Context) error {
	ctx := c.Request().Context()

	var campaignsPruned int64
	if h.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -h.retentionDays)
		pruned, err := h.campaigns.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return Error(c, http.StatusInternalServerError, "campaign cleanup failed")
		}
		campaignsPruned = pruned
	}

	demoPruned, err := h.demoLimits.CleanupOlderThan(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "demo limit cleanup failed")
	}

	return Success(c, http.StatusOK, map[string]any{
		"campaigns_pruned":   campaignsPruned,
		"demo_limits_pruned": demoPruned,
	})
}

// Stats handles GET /admin/stats requests with fleet-wide counts.
func (h *AdminHandler) Stats(c echo.Context) error {
	campaigns, owners, err := h.campaigns.Totals(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "stats lookup failed")
	}
	return Success(c, http.StatusOK, map[string]any{
		"campaigns_saved": campaigns,
		"license_owners":  owners,
	})
}
