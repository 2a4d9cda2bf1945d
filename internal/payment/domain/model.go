// Package domain contains core types for bank transfer top-up requests.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Request states. A request is resolved exactly once.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PaymentRequest is a dealer's claim that a bank transfer was sent.
type PaymentRequest struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Status    string       `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentRequest) TableName() string { return "payment_requests" }

// RequestView decorates a request with dealer identity for admin lists.
type RequestView struct {
	PaymentRequest
	DealerName    string `json:"dealer_name"`
	DealerCompany string `json:"dealer_company"`
}
