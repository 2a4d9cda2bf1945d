package domain

import (
	"context"
	"time"
)

// Setting is a single key/value row. Payment instructions such as the
// bank IBAN and account holder live here so admins can change them
// without a deploy.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Well-known keys seeded at startup.
const (
	KeyIBAN          = "iban"
	KeyAccountHolder = "account_holder"
)

type Service interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, values map[string]string) error
}
