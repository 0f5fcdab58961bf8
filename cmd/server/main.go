package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payments-monitor/internal/auth"
	"payments-monitor/internal/billing"
	"payments-monitor/internal/cache"
	"payments-monitor/internal/config"
	"payments-monitor/internal/database"
	"payments-monitor/internal/db"
	"payments-monitor/internal/handlers"
	"payments-monitor/internal/health"
	h "payments-monitor/internal/http"
	"payments-monitor/internal/middleware"
	"payments-monitor/internal/monitoring"
	"payments-monitor/internal/repositories"
	"payments-monitor/internal/services"
	"payments-monitor/internal/timeutil"
	"payments-monitor/migrations"
)

func main() {
	cfg := config.Load()

	if err := timeutil.SetLocation(cfg.Monitor.Timezone); err != nil {
		log.Printf("[Config] Unknown timezone %q, dates shown in %s", cfg.Monitor.Timezone, timeutil.Location)
	}

	pool := db.Connect(cfg)
	defer pool.Close()
	log.Printf("Connected to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (report cache stays in-process)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}
	defer cache.Close()

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// Repositories
	preferenceRepo := repositories.NewPreferenceRepository(pool)
	siteRepo := repositories.NewSiteRepository(pool)

	// Services
	secrets := services.NewSecretResolver(preferenceRepo, cfg.Stripe.SecretKey)
	reportService := services.NewReportService(
		billing.NewStripeClientFactory(nil),
		siteRepo,
		preferenceRepo,
		cache.NewReportStore(cache.GetClient()),
		secrets,
		services.ReportConfig{
			CacheTTL:     cfg.Monitor.CacheTTL(),
			OverdueDays:  cfg.Monitor.OverdueDays,
			BuildTimeout: cfg.Monitor.BuildTimeout(),
		},
	)
	preferenceService := services.NewPreferenceService(preferenceRepo, reportService, secrets)

	// Live events for open dashboards
	eventHub := monitoring.NewEventHub()
	eventHub.Start()
	defer eventHub.Stop()
	reportService.SetEventPublisher(eventHub)

	// Background refresh keeps the cache warm between visits
	scheduler := services.NewRefreshScheduler(reportService, cfg.Monitor.RefreshInterval())
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool, func(context.Context) bool { return cache.IsHealthy() }, reportService)

	// Initialize JWT manager and handlers
	jwtManager := auth.NewJWTManager(cfg)
	if cfg.Admin.Email == "" || cfg.Admin.PasswordHash == "" {
		log.Println("[Auth] WARNING: ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, login is disabled")
	}
	authHandler := handlers.NewAuthHandler(jwtManager, cfg.Admin.Email, cfg.Admin.PasswordHash, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	reportHandler := handlers.NewReportHandler(preferenceService, reportService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	siteHandler := handlers.NewSiteHandler(siteRepo, reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := h.NewRouter(authHandler, reportHandler, preferenceHandler, siteHandler, healthHandler, eventHub.HandleWebSocket, authMiddleware)

	// Wrap with panic recovery and CORS; request metrics are recorded per route by the router
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(corsMiddleware(router))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
