package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/bountychain/report-vault/internal/clock"
	"github.com/bountychain/report-vault/internal/dto"
	"github.com/bountychain/report-vault/internal/hybrid"
	"github.com/bountychain/report-vault/internal/models"
	"github.com/bountychain/report-vault/internal/repository"
	"gorm.io/gorm"
)

type BountyService struct {
	bounties *repository.BountyRepository
	clock    clock.Clock
}

func NewBountyService(db *gorm.DB, clk clock.Clock) *BountyService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &BountyService{bounties: repository.NewBountyRepository(db), clock: clk}
}

// Create registers a bounty. When no owner key is supplied a demo key pair is
// generated and the private half is returned to the caller exactly once.
func (s *BountyService) Create(ctx context.Context, req *dto.CreateBountyRequest) (*models.Bounty, *hybrid.KeyPair, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Title = strings.TrimSpace(req.Title)
	req.OwnerWallet = strings.TrimSpace(req.OwnerWallet)

	if req.ID == "" || req.Title == "" || req.OwnerWallet == "" {
		return nil, nil, validationError("id, title and owner_wallet are required")
	}
	if req.RewardAmount <= 0 || math.IsInf(req.RewardAmount, 0) || math.IsNaN(req.RewardAmount) {
		return nil, nil, validationError("reward_amount must be positive")
	}

	now := s.clock.Now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, nil, validationError("expires_at must be in the future")
	}

	var demo *hybrid.KeyPair
	publicKey := strings.TrimSpace(req.OwnerPublicKey)
	if publicKey == "" {
		pair, err := hybrid.GenerateKeyPair()
		if err != nil {
			return nil, nil, err
		}
		demo = pair
		publicKey = pair.PublicKeyPEM
		slog.Warn("generated demo key pair for bounty", "bounty_id", req.ID)
	} else if _, err := hybrid.ParsePublicKeyPEM(publicKey); err != nil {
		return nil, nil, validationError("owner_public_key must be a PEM encoded RSA public key of at least 2048 bits")
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "beginner"
	}

	bounty := &models.Bounty{
		ID:             req.ID,
		Title:          req.Title,
		Description:    req.Description,
		RewardAmount:   SuiToMist(req.RewardAmount),
		Difficulty:     difficulty,
		ExpiresAt:      req.ExpiresAt,
		OwnerWallet:    req.OwnerWallet,
		OwnerPublicKey: publicKey,
		Status:         models.BountyStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if v := strings.TrimSpace(req.BountyObjectID); v != "" {
		bounty.BountyObjectID = &v
	}
	if v := strings.TrimSpace(req.TransactionHash); v != "" {
		bounty.TransactionHash = &v
	}

	err := s.bounties.Create(ctx, bounty)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, nil, ErrBountyExists
	}
	if err != nil {
		return nil, nil, err
	}

	slog.Info("bounty created", "bounty_id", bounty.ID, "reward_mist", bounty.RewardAmount)
	return bounty, demo, nil
}

func (s *BountyService) Get(ctx context.Context, id string) (*models.Bounty, error) {
	bounty, err := s.bounties.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBountyNotFound
	}
	return bounty, err
}

// List returns bounties, optionally filtered by status. Owner keys are omitted.
func (s *BountyService) List(ctx context.Context, status string) ([]models.Bounty, error) {
	return s.bounties.List(ctx, status)
}

// RecordPayment stores the escrow funding transaction for a bounty.
func (s *BountyService) RecordPayment(ctx context.Context, id string, req *dto.RecordPaymentRequest) (*models.Bounty, error) {
	txHash := strings.TrimSpace(req.TransactionHash)
	if txHash == "" || req.Amount <= 0 {
		return nil, validationError("transaction_hash and a positive amount are required")
	}

	bounty, err := s.bounties.RecordPayment(ctx, id, txHash, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBountyNotFound
	}
	if err != nil {
		return nil, err
	}

	slog.Info("bounty payment recorded", "bounty_id", id, "transaction_hash", txHash)
	return bounty, nil
}

// SuiToMist converts a SUI amount to MIST, truncating sub-MIST fractions.
func SuiToMist(sui float64) int64 {
	return int64(math.Floor(sui * models.MistPerSui))
}

// MistToSui is the inverse of SuiToMist for display.
func MistToSui(mist int64) float64 {
	return float64(mist) / models.MistPerSui
}
