package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PayoutStatusPending = "pending"
	PayoutStatusSettled = "settled"
)

// PayoutIntent is emitted when a report is approved, by its owner or by the
// sweeper. The payment collaborator releases escrow and settles it.
type PayoutIntent struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"report_id"`
	BountyID       string     `gorm:"not null;size:100;index" json:"bounty_id"`
	Recipient      string     `gorm:"not null;size:255" json:"recipient"`
	Amount         int64      `gorm:"not null" json:"amount"`
	BountyObjectID *string    `gorm:"size:255" json:"bounty_object_id,omitempty"`
	Source         string     `gorm:"size:20;not null" json:"source"`
	Complete       bool       `gorm:"not null" json:"complete"`
	Status         string     `gorm:"not null;default:'pending';size:20;index" json:"status"`
	SettlementTx   *string    `gorm:"size:255" json:"settlement_tx,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

func (p *PayoutIntent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
