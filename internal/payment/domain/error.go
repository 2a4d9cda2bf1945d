package domain

import "errors"

var (
	ErrNotFound         = errors.New("payment request not found")
	ErrAlreadyProcessed = errors.New("payment request already processed")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDecision  = errors.New("unknown decision")
)
