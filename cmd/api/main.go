package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpAdapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http"
	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/websocket"
	"github.com/andre-sptr/sitiket-sub000/internal/adapters/secondary/postgres"
	"github.com/andre-sptr/sitiket-sub000/internal/adapters/secondary/rediscache"
	"github.com/andre-sptr/sitiket-sub000/internal/auth"
	"github.com/andre-sptr/sitiket-sub000/internal/config"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
	"github.com/andre-sptr/sitiket-sub000/internal/infrastructure/logging"
	"github.com/andre-sptr/sitiket-sub000/migrations"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Run Schema Migrations
	if cfg.Database.RunMigrations {
		if err := runMigrations(cfg.Database.URL); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		logger.Info("schema migrations applied")
	}

	// 4. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 5. Initialize Settings Cache Tier
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// The cache tier is optional; settings reads fall through to the
		// database and the compiled-in defaults.
		logger.Warn("settings cache unreachable, continuing without it",
			"addr", cfg.Redis.Addr, "error", err)
	}
	cancelPing()

	settingsCache := rediscache.NewSettingsCache(redisClient, cfg.Redis.SettingsTTL)

	// 6. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := wsAdapter.NewHub(logger)
	go hub.Run()

	// 7. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 8. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	userRepo := postgres.NewUserRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	progressRepo := postgres.NewProgressRepository(pool)
	technicianRepo := postgres.NewTechnicianRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Services (Core)
	authService := services.NewAuthService(userRepo)
	authzService := services.NewAuthorizationService(userRepo)
	changefeed := services.NewChangefeedService(hub, logger)
	lookupService := services.NewUserLookupService(userRepo)
	settingsService := services.NewSettingsService(settingsRepo, settingsCache, authzService, changefeed, logger)
	ticketService := services.NewTicketService(ticketRepo, progressRepo, authzService, settingsService, lookupService, changefeed)
	technicianService := services.NewTechnicianService(technicianRepo, authzService, changefeed)
	adminService := services.NewAdminService(userRepo, authzService, changefeed)
	reportService := services.NewReportService(ticketRepo, reportRepo, authzService, settingsService, lookupService)
	whatsapp := services.NewWhatsAppComposer()

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger)
	meHandler := httpAdapter.NewMeHandler(authzService, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, whatsapp, errorHandler, logger)
	technicianHandler := httpAdapter.NewTechnicianHandler(technicianService, errorHandler, logger)
	settingsHandler := httpAdapter.NewSettingsHandler(settingsService, errorHandler, logger)
	reportHandler := httpAdapter.NewReportHandler(reportService, errorHandler, logger)
	adminHandler := httpAdapter.NewAdminHandler(adminService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, settingsCache, cfg.App.Version)

	// 9. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// WebSocket route (authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/me", meHandler.RegisterRoutes)
			r.Route("/tickets", ticketHandler.RegisterRoutes)
			r.Route("/technicians", technicianHandler.RegisterRoutes)
			r.Route("/settings", settingsHandler.RegisterRoutes)
			r.Route("/reports", reportHandler.RegisterRoutes)
			r.Route("/admin", adminHandler.RegisterRoutes)
		})
	})

	// 10. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

// runMigrations applies pending schema migrations from the embedded files
// before the pool opens. An up-to-date schema is not an error.
func runMigrations(databaseURL string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
