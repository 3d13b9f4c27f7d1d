package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransitionSourceOwner = "owner"
	TransitionSourceAuto  = "auto"

	// SystemActor is recorded as the actor of sweeper transitions.
	SystemActor = "system"
)

// ReportEvent is the audit row written with every status transition.
type ReportEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"report_id"`
	FromStatus string         `gorm:"size:20;not null" json:"from_status"`
	ToStatus   string         `gorm:"size:20;not null" json:"to_status"`
	Actor      string         `gorm:"size:255;not null" json:"actor"`
	Source     string         `gorm:"size:20;not null" json:"source"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (e *ReportEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
