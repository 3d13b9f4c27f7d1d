package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/config"
	"github.com/bountychain/report-vault/internal/database"
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/handlers"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/jobs"
	"github.com/bountychain/report-vault/internal/logging"
	"github.com/bountychain/report-vault/internal/middleware"
	"github.com/bountychain/report-vault/internal/routes"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// sweepBatchSize caps how many overdue reports one sweep approves; the rest
// are picked up by the next tick.
const sweepBatchSize = 500

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.AppEnv)

	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if !hybrid.IsSupported(cfg.CipherAlgorithm) {
		slog.Error("unsupported CIPHER_ALGORITHM", "algorithm", cfg.CipherAlgorithm, "supported", hybrid.SupportedAlgorithms())
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Redis (optional): payout stream and sweeper lock
	var redisClient *redis.Client
	publishers := services.MultiPublisher{services.LogPublisher{}}
	var locker jobs.Locker = jobs.NewLocalLocker()
	if cfg.RedisAddr != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("redis connection failed, payout intents are only logged", "addr", cfg.RedisAddr, "error", err)
		} else {
			redisClient = client
			publishers = append(publishers, services.NewRedisStreamPublisher(client, cfg.PayoutStream))
			locker = jobs.NewRedisLocker(client)
		}
	}

	// Services
	clk := clock.Real{}
	reportService := services.NewReportService(database.DB, services.ReportServiceConfig{
		ReviewWindow: cfg.ReviewWindow,
		Algorithm:    cfg.CipherAlgorithm,
		Clock:        clk,
		Authorize:    services.OwnerWalletCheck,
		Publisher:    publishers,
	})
	bountyService := services.NewBountyService(database.DB, clk)
	payoutService := services.NewPayoutService(database.DB, clk)

	// Background jobs
	sweeper := jobs.NewAutoResolver(reportService, sweepBatchSize)
	sweepDone := jobs.NewRunner("auto-resolve", cfg.SweepInterval, sweeper.Task(),
		jobs.WithLocker(locker),
	).Start(ctx)
	cleanupDone := logging.StartCleanup(ctx, database.DB, cfg.LogRetention)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Health: handlers.NewHealthHandler(),
		Bounty: handlers.NewBountyHandler(bountyService),
		Report: handlers.NewReportHandler(reportService),
		Payout: handlers.NewPayoutHandler(payoutService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	<-sweepDone
	<-cleanupDone

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
