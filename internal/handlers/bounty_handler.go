package handlers

import (
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
)

const demoKeyWarning = "Demo key pair generated by the server. Save the private key now; it is not stored and cannot be recovered."

type BountyHandler struct {
	bountyService *services.BountyService
}

func NewBountyHandler(bountyService *services.BountyService) *BountyHandler {
	return &BountyHandler{bountyService: bountyService}
}

func (h *BountyHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBountyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	bounty, demo, err := h.bountyService.Create(c.UserContext(), &req)
	if err != nil {
		return writeError(c, "bounty.create", err)
	}

	resp := dto.CreateBountyResponse{Bounty: toBountyResponse(bounty)}
	if demo != nil {
		resp.Demo = &dto.DemoKeys{
			Warning:       demoKeyWarning,
			PublicKeyPEM:  demo.PublicKeyPEM,
			PrivateKeyPEM: demo.PrivateKeyPEM,
		}
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *BountyHandler) Get(c *fiber.Ctx) error {
	bounty, err := h.bountyService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, "bounty.get", err)
	}
	return c.JSON(toBountyResponse(bounty))
}

func (h *BountyHandler) List(c *fiber.Ctx) error {
	bounties, err := h.bountyService.List(c.UserContext(), c.Query("status", ""))
	if err != nil {
		return writeError(c, "bounty.list", err)
	}

	out := make([]dto.BountyResponse, 0, len(bounties))
	for i := range bounties {
		out = append(out, toBountyResponse(&bounties[i]))
	}
	return c.JSON(dto.BountyListResponse{Count: len(out), Bounties: out})
}

func (h *BountyHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	bounty, err := h.bountyService.RecordPayment(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return writeError(c, "bounty.record_payment", err)
	}
	return c.JSON(toBountyResponse(bounty))
}
