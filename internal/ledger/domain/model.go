// Package domain contains core types for the credit ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry kinds. The recorded amount is interpreted by kind: a debit
// subtracts its positive recorded amount, every other kind adds its
// signed recorded amount.
const (
	KindDebit         = "debit"
	KindDeposit       = "deposit"
	KindAdminAdd      = "admin_add"
	KindAdminSubtract = "admin_subtract"
	KindAdminSet      = "admin_set"
)

// Transaction is an append-only credit ledger entry.
type Transaction struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount      int64        `gorm:"not null" json:"amount"`
	Kind        string       `gorm:"type:text;not null" json:"kind"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

// EntryView decorates an entry with dealer identity for the admin
// transactions list.
type EntryView struct {
	Transaction
	DealerName    string `json:"dealer_name"`
	DealerCompany string `json:"dealer_company"`
}

// Delta returns the signed effect of the entry on the balance.
func (t Transaction) Delta() int64 {
	if t.Kind == KindDebit {
		return -t.Amount
	}
	return t.Amount
}
