package middleware

import (
	"strconv"
	"time"

	"github.com/bountychain/report-vault/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per matched route pattern, so
// ids in paths do not explode label cardinality.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.RequestCount.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		metrics.RequestLatency.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
