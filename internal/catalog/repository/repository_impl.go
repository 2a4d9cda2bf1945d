package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/catalog/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(conn *gorm.DB) domain.Repository {
	return &repo{db: conn}
}

func (r *repo) Create(ctx context.Context, svc *domain.Service) error {
	err := r.db.WithContext(ctx).Create(svc).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrServiceExists
	}
	return err
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Service, error) {
	var svc domain.Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).Order("category, name").Find(&services).Error
	return services, err
}

func (r *repo) PricesByName(ctx context.Context, names []string) (map[string]int64, error) {
	prices := make(map[string]int64, len(names))
	if len(names) == 0 {
		return prices, nil
	}

	var rows []domain.Service
	err := r.db.WithContext(ctx).
		Select("name", "price").
		Where("name IN ? AND active", names).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.Name] = row.Price
	}
	return prices, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Service{}).Where("id = ?", id).Updates(fields)
	if db.IsDuplicateKeyErr(tx.Error) {
		return domain.ErrServiceExists
	}
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Service{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
