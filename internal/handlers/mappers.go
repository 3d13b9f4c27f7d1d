package handlers

import (
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/models"
)

func toReportResponse(r *models.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:               r.ID,
		BountyID:         r.BountyID,
		BountyTitle:      r.Bounty.Title,
		RewardAmount:     r.Bounty.RewardAmount,
		HackerWallet:     r.SubmitterWallet,
		EncryptedPayload: r.EncryptedPayload,
		EncryptedKey:     r.EncryptedKey,
		EncryptionAlgo:   r.EncryptionAlgo,
		Status:           r.Status,
		AutoResolveAt:    r.AutoResolveAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toReportSummaries(reports []models.Report, withBounty bool) []dto.ReportSummary {
	out := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		s := dto.ReportSummary{
			ID:            r.ID,
			HackerWallet:  r.SubmitterWallet,
			Status:        r.Status,
			AutoResolveAt: r.AutoResolveAt,
			CreatedAt:     r.CreatedAt,
		}
		if withBounty {
			s.BountyID = r.BountyID
			s.BountyTitle = r.Bounty.Title
			s.RewardAmount = r.Bounty.RewardAmount
		}
		out = append(out, s)
	}
	return out
}

func toBountyResponse(b *models.Bounty) dto.BountyResponse {
	return dto.BountyResponse{
		ID:               b.ID,
		Title:            b.Title,
		Description:      b.Description,
		RewardAmount:     b.RewardAmount,
		Difficulty:       b.Difficulty,
		ExpiresAt:        b.ExpiresAt,
		OwnerWallet:      b.OwnerWallet,
		OwnerPublicKey:   b.OwnerPublicKey,
		BountyObjectID:   b.BountyObjectID,
		TransactionHash:  b.TransactionHash,
		PaymentConfirmed: b.PaymentConfirmed,
		Status:           b.Status,
		CreatedAt:        b.CreatedAt,
	}
}

func toPayoutResponse(p *models.PayoutIntent) *dto.PayoutResponse {
	if p == nil {
		return nil
	}
	return &dto.PayoutResponse{
		ID:             p.ID,
		ReportID:       p.ReportID,
		BountyID:       p.BountyID,
		HackerWallet:   p.Recipient,
		Amount:         p.Amount,
		BountyObjectID: p.BountyObjectID,
		Source:         p.Source,
		Complete:       p.Complete,
		Status:         p.Status,
		SettlementTx:   p.SettlementTx,
		CreatedAt:      p.CreatedAt,
		SettledAt:      p.SettledAt,
	}
}
