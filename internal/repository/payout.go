package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bountychain/report-vault/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PayoutIntent, error) {
	var intent models.PayoutIntent
	err := r.db.WithContext(ctx).First(&intent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payout intent: %w", err)
	}
	return &intent, nil
}

func (r *PayoutRepository) FindByReport(ctx context.Context, reportID uuid.UUID) (*models.PayoutIntent, error) {
	var intent models.PayoutIntent
	err := r.db.WithContext(ctx).First(&intent, "report_id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payout intent: %w", err)
	}
	return &intent, nil
}

// List returns intents with the given status, oldest first.
func (r *PayoutRepository) List(ctx context.Context, status string, limit int) ([]models.PayoutIntent, error) {
	var intents []models.PayoutIntent
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&intents).Error; err != nil {
		return nil, fmt.Errorf("failed to list payout intents: %w", err)
	}
	return intents, nil
}

// Settle marks a pending intent as paid. Settling twice yields ErrStatusConflict.
func (r *PayoutRepository) Settle(ctx context.Context, id uuid.UUID, txHash string, at time.Time) (*models.PayoutIntent, error) {
	result := r.db.WithContext(ctx).Model(&models.PayoutIntent{}).
		Where("id = ? AND status = ?", id, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":        models.PayoutStatusSettled,
			"settlement_tx": txHash,
			"settled_at":    at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to settle payout intent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}
	return r.FindByID(ctx, id)
}
