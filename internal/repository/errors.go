package repository

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
	ErrStatusConflict = errors.New("status precondition no longer holds")
)
