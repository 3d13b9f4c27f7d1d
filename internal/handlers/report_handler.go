package handlers

import (
	"strings"

	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Submit(c.UserContext(), &req)
	if err != nil {
		return writeError(c, "report.submit", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitReportResponse{
		ReportID:      report.ID,
		Status:        report.Status,
		AutoResolveAt: report.AutoResolveAt,
		CreatedAt:     report.CreatedAt,
		Message:       "Report encrypted and submitted",
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, "report.get", err)
	}
	return c.JSON(toReportResponse(report))
}

func (h *ReportHandler) ListByBounty(c *fiber.Ctx) error {
	bountyID := c.Params("bountyId")
	reports, err := h.reportService.ListByBounty(c.UserContext(), bountyID)
	if err != nil {
		return writeError(c, "report.list_by_bounty", err)
	}

	summaries := toReportSummaries(reports, false)
	return c.JSON(dto.BountyReportsResponse{
		BountyID: bountyID,
		Count:    len(summaries),
		Reports:  summaries,
	})
}

func (h *ReportHandler) ListBySubmitter(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	reports, err := h.reportService.ListBySubmitter(c.UserContext(), wallet)
	if err != nil {
		return writeError(c, "report.list_by_submitter", err)
	}

	summaries := toReportSummaries(reports, true)
	return c.JSON(dto.HackerReportsResponse{
		HackerWallet: wallet,
		Count:        len(summaries),
		Reports:      summaries,
	})
}

func (h *ReportHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.SetReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Status) == "" || strings.TrimSpace(req.WalletAddress) == "" {
		return badRequest(c, "status and wallet_address are required")
	}

	result, err := h.reportService.Transition(c.UserContext(), id, req.WalletAddress, req.Status)
	if err != nil {
		return writeError(c, "report.set_status", err)
	}

	return c.JSON(dto.SetReportStatusResponse{
		ReportID:     result.Report.ID,
		Status:       result.Report.Status,
		UpdatedAt:    result.Report.UpdatedAt,
		PayoutIntent: toPayoutResponse(result.Payout),
	})
}
