package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidAmount = errors.New("amount must not be negative")
	ErrInvalidAction = errors.New("unknown adjustment action")
)

// ErrInsufficientBalance matches any InsufficientBalanceError via errors.Is.
var ErrInsufficientBalance = errors.New("insufficient balance")

// InsufficientBalanceError carries the amounts needed to explain a
// rejected debit.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
