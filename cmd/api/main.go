// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/rpg-backend/internal/admin"
	"github.com/carterperez-dev/templates/rpg-backend/internal/auth"
	"github.com/carterperez-dev/templates/rpg-backend/internal/character"
	"github.com/carterperez-dev/templates/rpg-backend/internal/characterclass"
	"github.com/carterperez-dev/templates/rpg-backend/internal/config"
	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
	"github.com/carterperez-dev/templates/rpg-backend/internal/health"
	"github.com/carterperez-dev/templates/rpg-backend/internal/middleware"
	"github.com/carterperez-dev/templates/rpg-backend/internal/migrations"
	"github.com/carterperez-dev/templates/rpg-backend/internal/server"
	"github.com/carterperez-dev/templates/rpg-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log)
	slog.SetDefault(logger)
	core.SetExposeDetails(cfg.IsDevelopment())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	codec := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	logger.Info("token codec initialized",
		"algorithm", "HS256",
		"access_ttl", cfg.JWT.AccessTTL(),
		"refresh_ttl", cfg.JWT.RefreshTTL(),
	)

	authRepo := auth.NewRepository(db.DB)
	tokenSvc := auth.NewTokenService(
		authRepo,
		codec,
		cfg.JWT.AccessTTL(),
		cfg.JWT.RefreshTTL(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, tokenSvc)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc, tokenSvc)
	authHandler := auth.NewHandler(authSvc)

	classSvc := characterclass.NewService(
		characterclass.NewRepository(db.DB),
		cfg.Cache.ClassTTL,
	)
	classHandler := characterclass.NewHandler(classSvc)

	characterSvc := character.NewService(
		character.NewRepository(db.DB),
		classSvc,
	)
	characterHandler := character.NewHandler(characterSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:         db.Stats,
		RedisStats:      redis.PoolStats,
		DBPing:          db.Ping,
		RedisPing:       redis.Ping,
		CountUsers:      userSvc.CountUsers,
		CountCharacters: characterSvc.Count,
		Tokens:          tokenSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: middleware.SkipPaths("/healthz", "/livez", "/readyz", "/metrics"),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Method("GET", "/metrics", middleware.MetricsHandler())

	gate := middleware.NewGate(codec, userSvc)
	authenticator := gate.Authenticate(false)
	adminOnly := gate.Authenticate(true)

	authLimiter := middleware.AuthFailureLimiter(
		redis.Client,
		cfg.RateLimit.AuthRequests,
		cfg.RateLimit.AuthWindow,
	)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)
		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		classHandler.RegisterRoutes(r)
		characterHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, adminOnly)
	})

	go auth.RunJanitor(ctx, tokenSvc, cfg.JWT.CleanupInterval, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
