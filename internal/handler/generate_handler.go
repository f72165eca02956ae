package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/dto"
	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/generate"
	"github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/service"
)

// GenerationRunner is the service surface the generation handler needs.
type GenerationRunner interface {
	Generate(ctx context.Context, licenseKey string, req dto.GenerateRequest) (*entity.Campaign, error)
	Stream(ctx context.Context, licenseKey string, req dto.GenerateRequest) (<-chan generate.Event, error)
	Demo(ctx context.Context, ip string, req dto.DemoRequest) (*service.DemoOutcome, error)
}

// GenerateHandler exposes campaign generation endpoints.
type GenerateHandler struct {
	generation GenerationRunner

	// OnCampaign, when set, is called after each successful generation.
	OnCampaign func(provider, mode string)
	// OnDemo, when set, is called after each successful demo.
	OnDemo func()
}

// NewGenerateHandler constructs a GenerateHandler.
func NewGenerateHandler(generation GenerationRunner) *GenerateHandler {
	return &GenerateHandler{generation: generation}
}

// Generate handles POST /api/generate requests.
func (h *GenerateHandler) Generate(c echo.Context) error {
	var req dto.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	campaign, err := h.generation.Generate(c.Request().Context(), licenseKey, req)
	if err != nil {
		return mapServiceError(c, err)
	}

	if h.OnCampaign != nil {
		h.OnCampaign(req.Provider, "full")
	}

	return Success(c, http.StatusOK, map[string]any{"campaign": campaign})
}

// Stream handles GET /api/generate/stream requests, emitting pipeline
// progress as server-sent events. Gate failures arrive as a normal JSON
// error before the stream starts.
func (h *GenerateHandler) Stream(c echo.Context) error {
	req := dto.GenerateRequest{
		CompanyName: c.QueryParam("company_name"),
		Industry:    c.QueryParam("industry"),
		Offer:       c.QueryParam("offer"),
		Style:       c.QueryParam("style"),
		CompanySize: c.QueryParam("company_size"),
		Provider:    c.QueryParam("provider"),
		AIKey:       c.QueryParam("ai_key"),
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	events, err := h.generation.Stream(c.Request().Context(), licenseKey, req)
	if err != nil {
		return mapServiceError(c, err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	completed := false
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
			// Consumer went away; drain remaining events without writing.
			break
		}
		resp.Flush()
		if event.Type == generate.EventComplete {
			completed = true
		}
	}

	if completed && h.OnCampaign != nil {
		h.OnCampaign(req.Provider, "stream")
	}
	return nil
}

// Demo handles POST /api/demo requests. No license required; throttled per
// caller IP inside the service.
func (h *GenerateHandler) Demo(c echo.Context) error {
	var req dto.DemoRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.generation.Demo(c.Request().Context(), c.RealIP(), req)
	if err != nil {
		return mapServiceError(c, err)
	}

	if h.OnDemo != nil {
		h.OnDemo()
	}

	return Success(c, http.StatusOK, map[string]any{
		"result":           outcome.Result,
		"demos_used":       outcome.DemosUsed,
		"demos_remaining":  outcome.DemosLeft,
		"reset_in_seconds": outcome.ResetInSecond,
	})
}
