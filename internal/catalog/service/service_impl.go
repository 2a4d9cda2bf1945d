package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/catalog/domain"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node) domain.Catalog {
	return &Service{
		log:   log.Named("catalog.service"),
		repo:  repo,
		genID: genID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.UpsertServiceRequest) (*domain.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price < 0 {
		return nil, domain.ErrInvalidInput
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	now := time.Now().UTC()
	svc := &domain.Service{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    category,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateServiceRequest) (*domain.Service, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidInput
		}
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = domain.DefaultCategory
		}
		fields["category"] = category
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	if len(fields) == 0 {
		return s.repo.FindByID(ctx, id)
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Service, error) {
	return s.repo.List(ctx)
}

func (s *Service) CostOf(ctx context.Context, names []string) (int64, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	prices, err := s.repo.PricesByName(ctx, unique)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, name := range unique {
		total += prices[name]
	}
	return total, nil
}
