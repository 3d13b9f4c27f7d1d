package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutService exposes the payout outbox to the payment collaborator.
type PayoutService struct {
	payouts *repository.PayoutRepository
	clock   clock.Clock
}

func NewPayoutService(db *gorm.DB, clk clock.Clock) *PayoutService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &PayoutService{payouts: repository.NewPayoutRepository(db), clock: clk}
}

func (s *PayoutService) List(ctx context.Context, status string, limit int) ([]models.PayoutIntent, error) {
	if status != "" && status != models.PayoutStatusPending && status != models.PayoutStatusSettled {
		return nil, validationError("status must be pending or settled")
	}
	return s.payouts.List(ctx, status, limit)
}

func (s *PayoutService) ForReport(ctx context.Context, reportID uuid.UUID) (*models.PayoutIntent, error) {
	intent, err := s.payouts.FindByReport(ctx, reportID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPayoutNotFound
	}
	return intent, err
}

// Settle records the on-chain transaction that released escrow for an intent.
func (s *PayoutService) Settle(ctx context.Context, id uuid.UUID, txHash string) (*models.PayoutIntent, error) {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return nil, validationError("transaction_hash is required")
	}

	intent, err := s.payouts.Settle(ctx, id, txHash, s.clock.Now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrPayoutNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		return nil, ErrPayoutSettled
	case err != nil:
		return nil, err
	}

	slog.Info("payout intent settled",
		"payout_id", intent.ID.String(),
		"report_id", intent.ReportID.String(),
		"transaction_hash", txHash,
	)
	return intent, nil
}
