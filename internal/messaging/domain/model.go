// Package domain contains core types for dealer/staff messaging.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sender sides of a direct conversation.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// DirectMessage belongs to the conversation between one dealer and the
// staff. The dealer id keys the conversation.
type DirectMessage struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	SenderRole string       `gorm:"column:sender_role;type:text;not null" json:"sender_role"`
	Body       string       `gorm:"type:text;not null" json:"body"`
	Read       bool         `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DirectMessage) TableName() string { return "direct_messages" }

// FileMessage is a note attached to a file request thread.
type FileMessage struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	FileRequestID snowflake.ID `gorm:"column:file_request_id;not null;index" json:"file_request_id"`
	SenderID      snowflake.ID `gorm:"column:sender_id;not null" json:"sender_id"`
	Body          string       `gorm:"type:text;not null" json:"body"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (FileMessage) TableName() string { return "file_messages" }

// ConversationSummary is one row of the staff inbox overview.
type ConversationSummary struct {
	UserID        snowflake.ID `json:"user_id"`
	DealerName    string       `json:"dealer_name"`
	DealerCompany string       `json:"dealer_company"`
	UnreadCount   int64        `json:"unread_count"`
	LastAt        time.Time    `json:"last_at"`
}
