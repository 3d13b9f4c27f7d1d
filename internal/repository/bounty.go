package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bountychain/report-vault/internal/models"
	"gorm.io/gorm"
)

type BountyRepository struct {
	db *gorm.DB
}

func NewBountyRepository(db *gorm.DB) *BountyRepository {
	return &BountyRepository{db: db}
}

func (r *BountyRepository) Create(ctx context.Context, bounty *models.Bounty) error {
	err := r.db.WithContext(ctx).Create(bounty).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create bounty: %w", err)
	}
	return nil
}

func (r *BountyRepository) FindByID(ctx context.Context, id string) (*models.Bounty, error) {
	var bounty models.Bounty
	err := r.db.WithContext(ctx).First(&bounty, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bounty: %w", err)
	}
	return &bounty, nil
}

func (r *BountyRepository) List(ctx context.Context, status string) ([]models.Bounty, error) {
	var bounties []models.Bounty
	query := r.db.WithContext(ctx).Omit("owner_public_key").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&bounties).Error; err != nil {
		return nil, fmt.Errorf("failed to list bounties: %w", err)
	}
	return bounties, nil
}

// RecordPayment stores the escrow funding transaction of a bounty.
func (r *BountyRepository) RecordPayment(ctx context.Context, id, txHash string, at time.Time) (*models.Bounty, error) {
	result := r.db.WithContext(ctx).Model(&models.Bounty{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transaction_hash":  txHash,
			"payment_confirmed": true,
			"updated_at":        at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
