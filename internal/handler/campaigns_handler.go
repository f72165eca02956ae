package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/repository"
)

// CampaignStore is the service surface the campaigns handler needs.
type CampaignStore interface {
	Save(ctx context.Context, licenseKey string, campaign *entity.Campaign) (uuid.UUID, error)
	Get(ctx context.Context, licenseKey string, id uuid.UUID) (*entity.CampaignRecord, error)
	List(ctx context.Context, licenseKey string, limit, offset int) ([]entity.CampaignSummary, error)
	Delete(ctx context.Context, licenseKey string, id uuid.UUID) (bool, error)
}

// CampaignsHandler exposes campaign CRUD endpoints.
type CampaignsHandler struct {
	campaigns CampaignStore
}

// NewCampaignsHandler constructs a CampaignsHandler.
func NewCampaignsHandler(campaigns CampaignStore) *CampaignsHandler {
	return &CampaignsHandler{campaigns: campaigns}
}

// Save handles POST /api/campaigns requests.
func (h *CampaignsHandler) Save(c echo.Context) error {
	var campaign entity.Campaign
	if err := c.Bind(&campaign); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	id, err := h.campaigns.Save(c.Request().Context(), licenseKey, &campaign)
	if err != nil {
		return mapServiceError(c, err)
	}

	return Success(c, http.StatusCreated, map[string]any{"id": id})
}

// List handles GET /api/campaigns requests.
func (h *CampaignsHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	licenseKey := middleware.LicenseKeyFromContext(c)
	summaries, err := h.campaigns.List(c.Request().Context(), licenseKey, limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	if summaries == nil {
		summaries = []entity.CampaignSummary{}
	}

	return Success(c, http.StatusOK, map[string]any{"campaigns": summaries})
}

// Get handles GET /api/campaigns/:id requests.
func (h *CampaignsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid campaign id")
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	record, err := h.campaigns.Get(c.Request().Context(), licenseKey, id)
	if err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			return Error(c, http.StatusNotFound, "campaign not found")
		}
		return mapServiceError(c, err)
	}

	return Success(c, http.StatusOK, map[string]any{"campaign": record})
}

// Delete handles DELETE /api/campaigns/:id requests.
func (h *CampaignsHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid campaign id")
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	deleted, err := h.campaigns.Delete(c.Request().Context(), licenseKey, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	if !deleted {
		return Error(c, http.StatusNotFound, "campaign not found")
	}

	return Success(c, http.StatusOK, map[string]any{"deleted": true})
}
