package dto

import "time"

type CreateBountyRequest struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	RewardAmount    float64    `json:"reward_amount"` // SUI
	Difficulty      string     `json:"difficulty"`
	ExpiresAt       *time.Time `json:"expires_at"`
	OwnerWallet     string     `json:"owner_wallet"`
	OwnerPublicKey  string     `json:"owner_public_key"`
	BountyObjectID  string     `json:"bounty_object_id"`
	TransactionHash string     `json:"transaction_hash"`
}

type BountyResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	RewardAmount     int64      `json:"reward_amount"`
	Difficulty       string     `json:"difficulty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	OwnerWallet      string     `json:"owner_wallet"`
	OwnerPublicKey   string     `json:"owner_public_key,omitempty"`
	BountyObjectID   *string    `json:"bounty_object_id,omitempty"`
	TransactionHash  *string    `json:"transaction_hash,omitempty"`
	PaymentConfirmed bool       `json:"payment_confirmed"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DemoKeys is returned once, only when the server generated the key pair.
type DemoKeys struct {
	Warning       string `json:"warning"`
	PublicKeyPEM  string `json:"public_key"`
	PrivateKeyPEM string `json:"private_key"`
}

type CreateBountyResponse struct {
	Bounty BountyResponse `json:"bounty"`
	Demo   *DemoKeys      `json:"demo,omitempty"`
}

type BountyListResponse struct {
	Count    int              `json:"count"`
	Bounties []BountyResponse `json:"bounties"`
}

type RecordPaymentRequest struct {
	TransactionHash string  `json:"transaction_hash"`
	Amount          float64 `json:"amount"`
}
