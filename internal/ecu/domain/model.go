package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ECU is one row of the Bosch cross-reference catalog. BoschNumber is
// the canonical key; OEMNumber and Vehicle describe where the unit fits.
type ECU struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BoschNumber string       `gorm:"uniqueIndex;not null" json:"bosch_number"`
	OEMNumber   string       `json:"oem_number"`
	Vehicle     string       `json:"vehicle"`
	Price       int64        `json:"price"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (ECU) TableName() string {
	return "ecus"
}
