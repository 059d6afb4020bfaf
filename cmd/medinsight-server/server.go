package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medinsight/medinsight/internal/config"
	"github.com/medinsight/medinsight/internal/domain/predictive"
	"github.com/medinsight/medinsight/internal/domain/symptom"
	"github.com/medinsight/medinsight/internal/platform/auth"
	"github.com/medinsight/medinsight/internal/platform/cache"
	"github.com/medinsight/medinsight/internal/platform/metrics"
	"github.com/medinsight/medinsight/internal/platform/middleware"
)

const (
	version     = "0.1.0"
	bodyLimit   = "1M"
	exportRoute = "/api/v1/analytics/dashboard/export"
)

// services are the domain services the HTTP layer exposes.
type services struct {
	symptoms  *symptom.Service
	analytics *predictive.Service
}

func newServices(cfg *config.Config, b *backend, c cache.Cache, logger zerolog.Logger) (*services, error) {
	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	symptoms := symptom.NewService(analyzer, b.analyses, logger)
	analytics := predictive.NewService(b.facts, analysisFeed{svc: symptoms}, c, cfg.CacheTTL, tunablesFromConfig(cfg), logger)
	return &services{symptoms: symptoms, analytics: analytics}, nil
}

func newServer(cfg *config.Config, logger zerolog.Logger, b *backend, svcs *services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader, "X-Tenant-ID"},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, exportRoute))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"backend": b.name,
		})
	})
	e.GET("/health/db", b.health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}
	apiV1.Use(auth.RequireAuthenticated())
	// After auth so buckets are keyed by tenant as well as client IP.
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(b.tenant)

	symptom.NewHandler(svcs.symptoms).RegisterRoutes(apiV1)
	predictive.NewHandler(svcs.analytics).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		// The logger needs config, so report with defaults.
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsDev() {
		logger.Warn().Msg("ENV=development: DevAuth is active and every request without a token acts as admin")
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid clinic timezone")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	b, err := openBackend(ctx, cfg, loc, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer b.close()

	c, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer closeCache()

	svcs, err := newServices(cfg, b, c, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load knowledge base")
	}
	if err := seedSandbox(ctx, cfg, loc, b, svcs, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to load sandbox data")
	}
	e := newServer(cfg, logger, b, svcs)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("backend", b.name).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
