package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Poster applies balance-affecting entries inside the caller's
// transaction so workflows can compose a debit or deposit with their
// own writes atomically.
type Poster interface {
	// Apply records an entry and moves the balance by its signed effect.
	// It returns the created entry and the resulting balance.
	Apply(ctx context.Context, tx *gorm.DB, userID snowflake.ID, amount int64, kind, description string) (*Transaction, int64, error)
	// Debit rejects with InsufficientBalanceError when the balance does
	// not cover the cost; nothing is written in that case.
	Debit(ctx context.Context, tx *gorm.DB, userID snowflake.ID, cost int64, description string) (*Transaction, int64, error)
}

type Service interface {
	AdjustCredits(ctx context.Context, userID snowflake.ID, req AdjustRequest) (*AdjustResult, error)
	Statement(ctx context.Context, userID snowflake.ID) (*Statement, error)
	ListAll(ctx context.Context) ([]EntryView, error)
	Reconcile(ctx context.Context, userID snowflake.ID) (int64, error)
}

// Adjustment actions.
const (
	ActionAdd      = "add"
	ActionSubtract = "subtract"
	ActionSet      = "set"
)

type AdjustRequest struct {
	Action string
	Amount int64
}

type AdjustResult struct {
	NewBalance  int64
	Transaction *Transaction
}

type Statement struct {
	Balance      int64
	Transactions []Transaction
}
