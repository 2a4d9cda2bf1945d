package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidSession     = errors.New("invalid session")
	ErrAccountPending     = errors.New("account pending approval")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrInvalidInput       = errors.New("invalid input")
)

// AccountRejectedError denies login for rejected dealer accounts.
type AccountRejectedError struct {
	Reason string
}

func (e *AccountRejectedError) Error() string {
	if e.Reason == "" {
		return "account rejected"
	}
	return fmt.Sprintf("account rejected: %s", e.Reason)
}

// ErrAccountRejected matches any AccountRejectedError via errors.Is.
var ErrAccountRejected = errors.New("account rejected")

func (e *AccountRejectedError) Is(target error) bool {
	return target == ErrAccountRejected
}
