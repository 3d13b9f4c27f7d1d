package dto

import (
	"time"

	"github.com/google/uuid"
)

type PayoutResponse struct {
	ID             uuid.UUID  `json:"id"`
	ReportID       uuid.UUID  `json:"report_id"`
	BountyID       string     `json:"bounty_id"`
	HackerWallet   string     `json:"hacker_wallet"`
	Amount         int64      `json:"amount"`
	BountyObjectID *string    `json:"bounty_object_id,omitempty"`
	Source         string     `json:"source"`
	Complete       bool       `json:"complete"`
	Status         string     `json:"status"`
	SettlementTx   *string    `json:"settlement_tx,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

type PayoutListResponse struct {
	Count   int              `json:"count"`
	Payouts []PayoutResponse `json:"payouts"`
}

type SettlePayoutRequest struct {
	TransactionHash string `json:"transaction_hash"`
}
