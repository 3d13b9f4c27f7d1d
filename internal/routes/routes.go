package routes

import (
	"log/slog"
	"time"

	"github.com/bountychain/report-vault/internal/config"
	"github.com/bountychain/report-vault/internal/handlers"
	"github.com/bountychain/report-vault/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Bounty *handlers.BountyHandler
	Report *handlers.ReportHandler
	Payout *handlers.PayoutHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.Metrics())

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	bounties := api.Group("/bounties")
	bounties.Post("/", h.Bounty.Create)
	bounties.Get("/", h.Bounty.List)
	bounties.Get("/:id", h.Bounty.Get)
	bounties.Post("/:id/payment", h.Bounty.RecordPayment)

	// Submissions encrypt with RSA per request: stricter limit
	reports := api.Group("/reports")
	reports.Post("/", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), h.Report.Submit)
	reports.Get("/bounty/:bountyId", h.Report.ListByBounty)
	reports.Get("/hacker/:wallet", h.Report.ListBySubmitter)
	reports.Get("/:id", h.Report.Get)
	reports.Post("/:id/status", h.Report.SetStatus)

	// Payment collaborator (service token required)
	if cfg.ServiceJWTSecret == "" {
		slog.Warn("SERVICE_JWT_SECRET not set, payout routes disabled")
		return
	}
	payouts := api.Group("/payouts", middleware.ServiceProtected(cfg.ServiceJWTSecret, middleware.PayoutRole)...)
	payouts.Get("/", h.Payout.List)
	payouts.Post("/:id/settle", h.Payout.Settle)
}
