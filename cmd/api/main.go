package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/kmuchiri/nyumba-api/internal/config"
	"github.com/kmuchiri/nyumba-api/internal/database"
	"github.com/kmuchiri/nyumba-api/internal/handlers"
	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/middleware"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/services"
	"github.com/kmuchiri/nyumba-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if notification transports are not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}
	if cfg.SMSGatewayURL == "" {
		logger.Warn("SMS gateway disabled: SMS_GATEWAY_URL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, cfg, worker)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, repos, cfg, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// scheduleJobs registers the recurring reminder scans. Both scans are
// idempotent within a day, so running them daily from process start is safe
// across restarts.
func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	worker.ScheduleEveryImmediate(24*time.Hour, func(ctx context.Context) error {
		_, err := svcs.Reminder.RunUpcomingReminders(ctx)
		return err
	})

	worker.ScheduleEveryImmediate(24*time.Hour, func(ctx context.Context) error {
		_, err := svcs.Reminder.RunLateReminders(ctx)
		return err
	})
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Gateway webhooks (authenticated by shared secret, not JWT)
		v1.POST("/webhooks/mpesa", h.Webhook.Mpesa)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Tenant management
			protected.GET("/tenants", h.Tenant.Index)
			protected.GET("/tenants/:tenant_id", h.Tenant.Show)
			protected.POST("/tenants", h.Tenant.Create)
			protected.PUT("/tenants/:tenant_id", h.Tenant.Update)

			// Tenant financial position
			protected.GET("/tenants/:tenant_id/account", h.Account.Show)
			protected.POST("/tenants/:tenant_id/reconcile", h.Account.Reconcile)
			protected.GET("/tenants/:tenant_id/notifications", h.Notification.Index)

			// Lease lifecycle
			protected.GET("/leases", h.Lease.Index)
			protected.GET("/leases/:lease_id", h.Lease.Show)
			protected.POST("/leases", h.Lease.Create)
			protected.POST("/leases/:lease_id/activate", h.Lease.Activate)
			protected.POST("/leases/:lease_id/mark_overdue", h.Lease.MarkOverdue)
			protected.POST("/leases/:lease_id/catch_up", h.Lease.CatchUp)
			protected.POST("/leases/:lease_id/terminate", h.Lease.Terminate)

			// Payments
			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:payment_id", h.Payment.Show)
			protected.POST("/payments", h.Payment.Create)

			// Reports
			protected.GET("/reports/arrears_csv", h.Report.ArrearsCSV)
			protected.GET("/reports/arrears_xlsx", h.Report.ArrearsXLSX)
			protected.GET("/reports/receipt_pdf/:payment_id", h.Report.ReceiptPDF)

			// Background jobs (admin only)
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/jobs/stats", h.Job.Stats)
				admin.POST("/jobs/reminders/upcoming", h.Job.RunUpcomingReminders)
				admin.POST("/jobs/reminders/late", h.Job.RunLateReminders)
			}
		}
	}

	return router
}
