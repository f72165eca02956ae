package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/service"
)

// AccountReader is the service surface for usage and tier lookups.
type AccountReader interface {
	UsageStats(ctx context.Context, licenseKey string) (entity.UsageStats, error)
	TierInfo(ctx context.Context, licenseKey string) (service.TierInfo, error)
}

// UsageHandler exposes license account endpoints.
type UsageHandler struct {
	account AccountReader
}

// NewUsageHandler constructs a UsageHandler.
func NewUsageHandler(account AccountReader) *UsageHandler {
	return &UsageHandler{account: account}
}

// Usage handles GET /api/usage requests.
func (h *UsageHandler) Usage(c echo.Context) error {
	licenseKey := middleware.LicenseKeyFromContext(c)
	stats, err := h.account.UsageStats(c.Request().Context(), licenseKey)
	if err != nil {
		return mapServiceError(c, err)
	}
	return Success(c, http.StatusOK, map[string]any{"usage": stats})
}

// Tier handles GET /api/tier requests.
func (h *UsageHandler) Tier(c echo.Context) error {
	licenseKey := middleware.LicenseKeyFromContext(c)
	info, err := h.account.TierInfo(c.Request().Context(), licenseKey)
	if err != nil {
		return mapServiceError(c, err)
	}
	return Success(c, http.StatusOK, map[string]any{"tier": info})
}
