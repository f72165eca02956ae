package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/blazestudiox/coldforge/api/internal/auth"
	"github.com/blazestudiox/coldforge/api/internal/config"
	"github.com/blazestudiox/coldforge/api/internal/database"
	"github.com/blazestudiox/coldforge/api/internal/handler"
	"github.com/blazestudiox/coldforge/api/internal/license"
	"github.com/blazestudiox/coldforge/api/internal/llm"
	"github.com/blazestudiox/coldforge/api/internal/metrics"
	middlewarepkg "github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/repository"
	"github.com/blazestudiox/coldforge/api/internal/router"
	"github.com/blazestudiox/coldforge/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	verifier, err := license.NewGumroadVerifier(cfg.GumroadProducts, nil)
	if err != nil {
		log.Fatalf("failed to build license verifier: %v", err)
	}

	campaignsRepo := repository.NewPGXCampaignsRepository(pool)
	usageRepo := repository.NewPGXUsageRepository(pool, cfg.FreeUsageLimit)
	tiersRepo := repository.NewPGXTiersRepository(pool)
	demoLimitsRepo := repository.NewPGXDemoLimitsRepository(pool, cfg.DemoMaxRequests, cfg.DemoWindow)

	m := metrics.New()

	tierService := service.NewTierService(tiersRepo, cfg.GumroadProducts)
	validator := service.NewContactValidator("US")
	generationService := service.NewGenerationService(
		verifier,
		tierService,
		usageRepo,
		demoLimitsRepo,
		validator,
		service.GenerationConfig{
			AnthropicAPIKey: cfg.AnthropicAPIKey,
			OpenAIAPIKey:    cfg.OpenAIAPIKey,
			LLMTimeout:      cfg.LLMTimeout,
		},
		func(provider llm.Provider, apiKey string) (llm.Client, error) {
			client, err := llm.New(provider, llm.ClientConfig{APIKey: apiKey, Timeout: cfg.LLMTimeout})
			if err != nil {
				return nil, err
			}
			return m.WrapClient(string(provider), client), nil
		},
	)
	generationService.ObserveStage = m.ObserveStage
	campaignService := service.NewCampaignService(campaignsRepo, tierService)
	authService := service.NewAdminAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, jwtManager)

	generateHandler := handler.NewGenerateHandler(generationService)
	generateHandler.OnCampaign = func(provider, mode string) {
		m.CampaignsGeneratedTotal.WithLabelValues(provider, mode).Inc()
	}
	generateHandler.OnDemo = func() {
		m.DemoRequestsTotal.Inc()
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Generate:  generateHandler,
		Campaigns: handler.NewCampaignsHandler(campaignService),
		Export:    handler.NewExportHandler(campaignService),
		Usage:     handler.NewUsageHandler(generationService),
		Admin:     handler.NewAdminHandler(campaignsRepo, demoLimitsRepo, cfg.CampaignRetentionDays),
		Metrics:   m.Handler(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
