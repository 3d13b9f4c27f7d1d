package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bountychain/report-vault/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// metadataColumns excludes the ciphertext blobs from list queries.
var metadataColumns = []string{
	"id", "bounty_id", "submitter_wallet", "encryption_algo",
	"status", "auto_resolve_at", "created_at", "updated_at",
}

// Transition describes a single status change of a pending report.
type Transition struct {
	ReportID uuid.UUID
	To       string
	At       time.Time
	Actor    string
	Source   string
	Metadata map[string]any
	// Payout, when set, is inserted in the same transaction as the status change.
	Payout *models.PayoutIntent
}

// ReportRepository persists reports and owns their status transitions.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	err := r.db.WithContext(ctx).Omit("Bounty").Create(report).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// FindByID loads a report together with its bounty.
func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).Preload("Bounty").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

// ListByBounty returns report metadata for a bounty, newest first.
func (r *ReportRepository) ListByBounty(ctx context.Context, bountyID string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Select(metadataColumns).
		Where("bounty_id = ?", bountyID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ListBySubmitter returns report metadata filed by wallet, newest first.
func (r *ReportRepository) ListBySubmitter(ctx context.Context, wallet string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Select(metadataColumns).
		Preload("Bounty").
		Where("LOWER(submitter_wallet) = LOWER(?)", wallet).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ListDue returns pending reports whose review window closed at or before now.
func (r *ReportRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Report, error) {
	var reports []models.Report
	query := r.db.WithContext(ctx).
		Select(metadataColumns).
		Preload("Bounty").
		Where("status = ? AND auto_resolve_at <= ?", models.ReportStatusPending, now).
		Order("auto_resolve_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list due reports: %w", err)
	}
	return reports, nil
}

// Apply commits t only if the report is still pending. A report that has
// already left pending yields ErrStatusConflict and nothing is written.
func (r *ReportRepository) Apply(ctx context.Context, t Transition) (*models.Report, error) {
	var metadata datatypes.JSON
	if len(t.Metadata) > 0 {
		raw, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode transition metadata: %w", err)
		}
		metadata = datatypes.JSON(raw)
	}

	var updated models.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", t.ReportID, models.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":     t.To,
				"updated_at": t.At,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		event := models.ReportEvent{
			ReportID:   t.ReportID,
			FromStatus: models.ReportStatusPending,
			ToStatus:   t.To,
			Actor:      t.Actor,
			Source:     t.Source,
			Metadata:   metadata,
			CreatedAt:  t.At,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if t.Payout != nil {
			if err := tx.Create(t.Payout).Error; err != nil {
				return err
			}
		}

		return tx.Select(metadataColumns).First(&updated, "id = ?", t.ReportID).Error
	})
	if errors.Is(err, ErrStatusConflict) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	return &updated, nil
}

// Events returns the audit trail of a report in commit order.
func (r *ReportRepository) Events(ctx context.Context, reportID uuid.UUID) ([]models.ReportEvent, error) {
	var events []models.ReportEvent
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list report events: %w", err)
	}
	return events, nil
}
