// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Roles assignable to a user account.
const (
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)

// Registration states for dealer accounts.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User represents a portal account.
type User struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Email           string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash    string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	Name            string       `gorm:"type:text;not null;default:''" json:"name"`
	CompanyName     string       `gorm:"column:company_name;type:text;not null;default:''" json:"company_name"`
	Phone           string       `gorm:"type:text;not null;default:''" json:"phone"`
	Role            string       `gorm:"type:text;not null;default:'dealer'" json:"role"`
	Status          string       `gorm:"type:text;not null;default:'pending'" json:"status"`
	Credits         int64        `gorm:"not null;default:0" json:"credits"`
	RejectionReason *string      `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time   `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the account has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session represents a persisted login session.
type Session struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	UserID     snowflake.ID `gorm:"column:user_id;not null;index"`
	TokenHash  string       `gorm:"column:token_hash;type:text;not null;uniqueIndex"`
	ExpiresAt  time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt  *time.Time   `gorm:"column:revoked_at"`
	LastSeenAt *time.Time   `gorm:"column:last_seen_at"`
	CreatedAt  time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }
