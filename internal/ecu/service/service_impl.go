package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const searchLimit = 50

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) ecudomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ecu.service"),
		genID: p.GenID,
	}
}

func (s *Service) Search(ctx context.Context, query string) ([]ecudomain.ECU, error) {
	query = strings.TrimSpace(query)
	if len(query) < ecudomain.MinQueryLength {
		return []ecudomain.ECU{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var ecus []ecudomain.ECU
	err := s.db.WithContext(ctx).
		Where(`LOWER(bosch_number) LIKE ? OR LOWER(oem_number) LIKE ? OR LOWER(vehicle) LIKE ? OR LOWER(notes) LIKE ?`,
			pattern, pattern, pattern, pattern).
		Order("bosch_number").
		Limit(searchLimit).
		Find(&ecus).Error
	return ecus, err
}

func (s *Service) List(ctx context.Context) ([]ecudomain.ECU, error) {
	var ecus []ecudomain.ECU
	err := s.db.WithContext(ctx).Order("bosch_number").Find(&ecus).Error
	return ecus, err
}

func (s *Service) Create(ctx context.Context, req ecudomain.CreateECURequest) (*ecudomain.ECU, error) {
	bosch := strings.TrimSpace(req.BoschNumber)
	if bosch == "" {
		return nil, ecudomain.ErrEmptyBosch
	}

	ecu := &ecudomain.ECU{
		ID:          s.genID.Generate(),
		BoschNumber: bosch,
		OEMNumber:   strings.TrimSpace(req.OEMNumber),
		Vehicle:     strings.TrimSpace(req.Vehicle),
		Price:       req.Price,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(ecu).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ecudomain.ErrDuplicate
		}
		return nil, err
	}

	s.log.Info("ecu created", zap.String("ecu_id", ecu.ID.String()), zap.String("bosch_number", ecu.BoschNumber))
	return ecu, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req ecudomain.UpdateECURequest) (*ecudomain.ECU, error) {
	var ecu ecudomain.ECU
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&ecu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ecudomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.BoschNumber != nil {
		bosch := strings.TrimSpace(*req.BoschNumber)
		if bosch == "" {
			return nil, ecudomain.ErrEmptyBosch
		}
		ecu.BoschNumber = bosch
	}
	if req.OEMNumber != nil {
		ecu.OEMNumber = strings.TrimSpace(*req.OEMNumber)
	}
	if req.Vehicle != nil {
		ecu.Vehicle = strings.TrimSpace(*req.Vehicle)
	}
	if req.Price != nil {
		ecu.Price = *req.Price
	}
	if req.Notes != nil {
		ecu.Notes = *req.Notes
	}
	ecu.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(&ecu).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ecudomain.ErrDuplicate
		}
		return nil, err
	}
	return &ecu, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&ecudomain.ECU{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ecudomain.ErrNotFound
	}
	return nil
}
