// Package domain contains core types for the tuning service catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultCategory groups services without an explicit category.
const DefaultCategory = "genel"

// Service is a priced tuning option dealers can select on a file request.
type Service struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Price       int64        `gorm:"not null;default:0" json:"price"`
	Category    string       `gorm:"type:text;not null;default:'genel'" json:"category"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "services" }
