package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/auth"
	"github.com/blazestudiox/coldforge/api/internal/config"
	"github.com/blazestudiox/coldforge/api/internal/handler"
	middlewarepkg "github.com/blazestudiox/coldforge/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Generate  *handler.GenerateHandler
	Campaigns *handler.CampaignsHandler
	Export    *handler.ExportHandler
	Usage     *handler.UsageHandler
	Admin     *handler.AdminHandler

	// Metrics, when non-nil, is mounted at /metrics.
	Metrics http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]any{"status": "ok"})
	})

	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	e.POST("/auth/login", handlers.Auth.Login)
	e.POST("/api/demo", handlers.Generate.Demo)

	// License-gated API: bearer token carries the purchase license key.
	api := e.Group("/api")
	api.Use(middlewarepkg.License())

	api.POST("/generate", handlers.Generate.Generate, middlewarepkg.GenerateRateLimiter(cfg.RateLimitGenerate))
	api.GET("/generate/stream", handlers.Generate.Stream, middlewarepkg.GenerateRateLimiter(cfg.RateLimitGenerate))

	api.POST("/campaigns", handlers.Campaigns.Save)
	api.GET("/campaigns", handlers.Campaigns.List)
	api.GET("/campaigns/:id", handlers.Campaigns.Get)
	api.DELETE("/campaigns/:id", handlers.Campaigns.Delete)

	api.GET("/export/:id/:format", handlers.Export.Export)

	api.GET("/usage", handlers.Usage.Usage)
	api.GET("/tier", handlers.Usage.Tier)

	// Operator surface: JWT with the admin role.
	admin := e.Group("/admin")
	admin.Use(middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole("admin"))
	admin.POST("/cleanup", handlers.Admin.Cleanup)
	admin.GET("/stats", handlers.Admin.Stats)
}
