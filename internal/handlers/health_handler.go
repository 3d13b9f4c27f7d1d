package handlers

import (
	"time"

	"github.com/bountychain/report-vault/internal/database"
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const serviceName = "report-vault"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	if err := database.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Service:   serviceName,
	})
}
