package handlers

import (
	"errors"
	"log/slog"

	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string // empty means err.Error()
}

// errorTable is matched in order, so specific errors come before the
// category they wrap.
var errorTable = []errorMapping{
	{hybrid.ErrDecryption, fiber.StatusUnprocessableEntity, "DECRYPTION_FAILED", "decryption failed"},
	{services.ErrBountyNotFound, fiber.StatusNotFound, "BOUNTY_NOT_FOUND", "Bounty not found"},
	{services.ErrReportNotFound, fiber.StatusNotFound, "REPORT_NOT_FOUND", "Report not found"},
	{services.ErrPayoutNotFound, fiber.StatusNotFound, "PAYOUT_NOT_FOUND", "Payout intent not found"},
	{services.ErrBountyInactive, fiber.StatusBadRequest, "BOUNTY_INACTIVE", "Bounty is not active"},
	{services.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "Report has already been reviewed"},
	{services.ErrPayoutSettled, fiber.StatusConflict, "PAYOUT_SETTLED", "Payout intent already settled"},
	{services.ErrBountyExists, fiber.StatusConflict, "BOUNTY_EXISTS", "Bounty ID already exists"},
	{services.ErrUnauthorized, fiber.StatusForbidden, "UNAUTHORIZED", "Only the bounty owner can update report status"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS", "Invalid status. Must be one of: approved, rejected, disputed"},
	{services.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR", ""},
	{services.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE", ""},
	{services.ErrConfiguration, fiber.StatusInternalServerError, "SERVER_MISCONFIGURED", "Bounty encryption is not configured"},
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Code: code, Message: message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

// writeError maps a service error to its HTTP response. Unknown errors are
// logged and reported as a generic 500.
func writeError(c *fiber.Ctx, action string, err error) error {
	for _, m := range errorTable {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.status >= fiber.StatusInternalServerError {
			slog.Error("request failed", "action", action, "request_id", requestID(c), "error", err)
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		return errorJSON(c, m.status, m.code, message)
	}

	slog.Error("request failed", "action", action, "request_id", requestID(c), "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
