package services

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error below wraps exactly one of them.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("invalid request")
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrBountyNotFound       = fmt.Errorf("bounty %w", ErrNotFound)
	ErrReportNotFound       = fmt.Errorf("report %w", ErrNotFound)
	ErrPayoutNotFound       = fmt.Errorf("payout intent %w", ErrNotFound)
	ErrBountyInactive       = fmt.Errorf("%w: bounty is not active", ErrInvalidState)
	ErrInvalidTransition    = fmt.Errorf("%w: report has already been reviewed", ErrInvalidState)
	ErrPayoutSettled        = fmt.Errorf("%w: payout intent already settled", ErrInvalidState)
	ErrNotBountyOwner       = fmt.Errorf("%w: only the bounty owner can update report status", ErrUnauthorized)
	ErrInvalidStatus        = fmt.Errorf("%w: status must be one of approved, rejected, disputed", ErrValidation)
	ErrBountyExists         = fmt.Errorf("%w: bounty id already exists", ErrInvalidState)
	ErrMissingEncryptionKey = fmt.Errorf("%w: bounty has no encryption key", ErrConfiguration)
	ErrInvalidEncryptionKey = fmt.Errorf("%w: bounty encryption key is unusable", ErrConfiguration)
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
