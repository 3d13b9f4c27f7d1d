package models

import "time"

const (
	BountyStatusActive  = "active"
	BountyStatusExpired = "expired"
	BountyStatusClosed  = "closed"
)

// MistPerSui converts the SUI amounts users type into on-chain MIST units.
const MistPerSui = 1_000_000_000

// Bounty is the funded task reports are submitted against.
type Bounty struct {
	ID               string     `gorm:"primaryKey;size:100" json:"id"`
	Title            string     `gorm:"not null;size:255" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	RewardAmount     int64      `gorm:"not null" json:"reward_amount"`
	Difficulty       string     `gorm:"size:20;default:'beginner'" json:"difficulty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	OwnerWallet      string     `gorm:"not null;size:255;index" json:"owner_wallet"`
	OwnerPublicKey   string     `gorm:"type:text" json:"owner_public_key,omitempty"`
	BountyObjectID   *string    `gorm:"size:255" json:"bounty_object_id,omitempty"`
	TransactionHash  *string    `gorm:"size:255" json:"transaction_hash,omitempty"`
	PaymentConfirmed bool       `gorm:"not null;default:false" json:"payment_confirmed"`
	Status           string     `gorm:"not null;default:'active';size:20;index" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AcceptsReports reports whether new submissions may be filed at now.
func (b *Bounty) AcceptsReports(now time.Time) bool {
	if b.Status != BountyStatusActive {
		return false
	}
	return b.ExpiresAt == nil || now.Before(*b.ExpiresAt)
}
