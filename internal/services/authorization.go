package services

import (
	"strings"

	"github.com/bountychain/report-vault/internal/models"
)

// AuthorizationCheck decides whether requester may review reports of bounty.
// It is the single seam for replacing wallet string comparison with a
// signature based scheme.
type AuthorizationCheck func(requester string, bounty *models.Bounty) bool

// OwnerWalletCheck compares wallet addresses case-insensitively.
func OwnerWalletCheck(requester string, bounty *models.Bounty) bool {
	if bounty == nil || requester == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(requester), strings.TrimSpace(bounty.OwnerWallet))
}
