package service

import (
	"errors"
)

var (
	// ErrNotFound means the referenced entity vanished between selection
	// and action. Callers abort the current flow and tell the user.
	ErrNotFound = errors.New("not found")

	// ErrEmptyBalance means there is nothing to withdraw
	ErrEmptyBalance = errors.New("empty balance")

	// ErrAlreadyPaid means the withdrawal request was already marked paid
	ErrAlreadyPaid = errors.New("already paid")
)
