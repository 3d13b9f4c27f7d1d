package handlers

import (
	"strconv"

	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PayoutHandler serves the payment collaborator. Routes are behind the
// service token middleware.
type PayoutHandler struct {
	payoutService *services.PayoutService
}

func NewPayoutHandler(payoutService *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

func (h *PayoutHandler) List(c *fiber.Ctx) error {
	status := c.Query("status", models.PayoutStatusPending)
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	intents, err := h.payoutService.List(c.UserContext(), status, limit)
	if err != nil {
		return writeError(c, "payout.list", err)
	}

	out := make([]dto.PayoutResponse, 0, len(intents))
	for i := range intents {
		out = append(out, *toPayoutResponse(&intents[i]))
	}
	return c.JSON(dto.PayoutListResponse{Count: len(out), Payouts: out})
}

func (h *PayoutHandler) Settle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid payout ID")
	}

	var req dto.SettlePayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	intent, err := h.payoutService.Settle(c.UserContext(), id, req.TransactionHash)
	if err != nil {
		return writeError(c, "payout.settle", err)
	}
	return c.JSON(toPayoutResponse(intent))
}
