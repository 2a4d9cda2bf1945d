package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound   = errors.New("ecu not found")
	ErrDuplicate  = errors.New("bosch number already exists")
	ErrEmptyBosch = errors.New("bosch number is required")
)

// MinQueryLength keeps wildcard scans off the table for throwaway input.
const MinQueryLength = 3

type CreateECURequest struct {
	BoschNumber string `json:"bosch_number"`
	OEMNumber   string `json:"oem_number"`
	Vehicle     string `json:"vehicle"`
	Price       int64  `json:"price"`
	Notes       string `json:"notes"`
}

type UpdateECURequest struct {
	BoschNumber *string `json:"bosch_number"`
	OEMNumber   *string `json:"oem_number"`
	Vehicle     *string `json:"vehicle"`
	Price       *int64  `json:"price"`
	Notes       *string `json:"notes"`
}

type Service interface {
	Search(ctx context.Context, query string) ([]ECU, error)
	List(ctx context.Context) ([]ECU, error)
	Create(ctx context.Context, req CreateECURequest) (*ECU, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateECURequest) (*ECU, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
