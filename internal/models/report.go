package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportStatusPending  = "pending"
	ReportStatusApproved = "approved"
	ReportStatusRejected = "rejected"
	ReportStatusDisputed = "disputed"
)

// Report is one confidential submission. EncryptedPayload and EncryptedKey
// are written once on insert and never updated.
type Report struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BountyID         string    `gorm:"not null;size:100;index" json:"bounty_id"`
	SubmitterWallet  string    `gorm:"not null;size:255;index" json:"submitter_wallet"`
	EncryptedPayload string    `gorm:"type:text;not null" json:"-"`
	EncryptedKey     string    `gorm:"type:text;not null" json:"-"`
	EncryptionAlgo   string    `gorm:"size:30;not null" json:"encryption_algo"`
	Status           string    `gorm:"not null;default:'pending';size:20;index:idx_reports_due,priority:1" json:"status"`
	AutoResolveAt    time.Time `gorm:"not null;index:idx_reports_due,priority:2" json:"auto_resolve_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Bounty           Bounty    `gorm:"foreignKey:BountyID" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the report has left the pending state.
func (r *Report) IsTerminal() bool {
	return r.Status != ReportStatusPending
}

// ReviewStatuses are the targets a pending report may move to.
var ReviewStatuses = []string{ReportStatusApproved, ReportStatusRejected, ReportStatusDisputed}

func IsReviewStatus(status string) bool {
	for _, s := range ReviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}
