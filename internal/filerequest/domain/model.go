// Package domain contains core types for dealer file requests.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Request lifecycle states. Staff may write any state; there is no
// transition table.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// FileRequest is an uploaded ECU file with the tuning work ordered on it.
type FileRequest struct {
	ID           snowflake.ID                 `gorm:"primaryKey" json:"id"`
	UserID       snowflake.ID                 `gorm:"column:user_id;not null;index" json:"user_id"`
	VehicleMake  string                       `gorm:"column:vehicle_make;type:text;not null;default:''" json:"vehicle_make"`
	VehicleModel string                       `gorm:"column:vehicle_model;type:text;not null;default:''" json:"vehicle_model"`
	EngineCode   string                       `gorm:"column:engine_code;type:text;not null;default:''" json:"engine_code"`
	ECUType      string                       `gorm:"column:ecu_type;type:text;not null;default:''" json:"ecu_type"`
	OriginalName string                       `gorm:"column:original_name;type:text;not null" json:"original_name"`
	OriginalPath string                       `gorm:"column:original_path;type:text;not null" json:"-"`
	ResultName   *string                      `gorm:"column:result_name" json:"result_name,omitempty"`
	ResultPath   *string                      `gorm:"column:result_path" json:"-"`
	Options      datatypes.JSONSlice[string]  `gorm:"column:options" json:"options"`
	Cost         int64                        `gorm:"not null;default:0" json:"cost"`
	Status       string                       `gorm:"type:text;not null;default:'pending'" json:"status"`
	AdminNotes   string                       `gorm:"column:admin_notes;type:text;not null;default:''" json:"admin_notes"`
	CreatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (FileRequest) TableName() string { return "file_requests" }

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// RequestView decorates a request with dealer identity for admin lists.
type RequestView struct {
	FileRequest
	DealerName    string `json:"dealer_name"`
	DealerCompany string `json:"dealer_company"`
}
