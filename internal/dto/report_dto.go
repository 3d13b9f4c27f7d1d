package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReportRequest struct {
	BountyID     string `json:"bounty_id"`
	HackerWallet string `json:"hacker_wallet"`
	ReportText   string `json:"report_text"`
}

type SubmitReportResponse struct {
	ReportID      uuid.UUID `json:"report_id"`
	Status        string    `json:"status"`
	AutoResolveAt time.Time `json:"auto_resolve_at"`
	CreatedAt     time.Time `json:"created_at"`
	Message       string    `json:"message"`
}

// ReportResponse carries ciphertext only; decryption happens client side.
type ReportResponse struct {
	ID               uuid.UUID `json:"id"`
	BountyID         string    `json:"bounty_id"`
	BountyTitle      string    `json:"bounty_title"`
	RewardAmount     int64     `json:"reward_amount"`
	HackerWallet     string    `json:"hacker_wallet"`
	EncryptedPayload string    `json:"encrypted_payload"`
	EncryptedKey     string    `json:"encrypted_key"`
	EncryptionAlgo   string    `json:"encryption_algo"`
	Status           string    `json:"status"`
	AutoResolveAt    time.Time `json:"auto_resolve_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReportSummary struct {
	ID            uuid.UUID `json:"id"`
	BountyID      string    `json:"bounty_id,omitempty"`
	BountyTitle   string    `json:"bounty_title,omitempty"`
	RewardAmount  int64     `json:"reward_amount,omitempty"`
	HackerWallet  string    `json:"hacker_wallet"`
	Status        string    `json:"status"`
	AutoResolveAt time.Time `json:"auto_resolve_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type BountyReportsResponse struct {
	BountyID string          `json:"bounty_id"`
	Count    int             `json:"count"`
	Reports  []ReportSummary `json:"reports"`
}

type HackerReportsResponse struct {
	HackerWallet string          `json:"hacker_wallet"`
	Count        int             `json:"count"`
	Reports      []ReportSummary `json:"reports"`
}

type SetReportStatusRequest struct {
	Status        string `json:"status"`
	WalletAddress string `json:"wallet_address"`
}

type SetReportStatusResponse struct {
	ReportID     uuid.UUID       `json:"report_id"`
	Status       string          `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
	PayoutIntent *PayoutResponse `json:"payout_intent,omitempty"`
}
