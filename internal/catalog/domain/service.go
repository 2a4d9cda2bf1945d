package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, svc *Service) error
	FindByID(ctx context.Context, id snowflake.ID) (*Service, error)
	List(ctx context.Context) ([]Service, error)
	PricesByName(ctx context.Context, names []string) (map[string]int64, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
}

type Catalog interface {
	Create(ctx context.Context, req UpsertServiceRequest) (*Service, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateServiceRequest) (*Service, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context) ([]Service, error)
	// CostOf sums the prices of the named active services. Unknown names
	// are skipped; repeated names are priced once.
	CostOf(ctx context.Context, names []string) (int64, error)
}

type UpsertServiceRequest struct {
	Name        string
	Description string
	Price       int64
	Category    string
}

type UpdateServiceRequest struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Active      *bool
}
