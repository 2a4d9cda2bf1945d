package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cemcalis/chiptunnig/internal/catalog/domain"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	obsmetrics "github.com/cemcalis/chiptunnig/internal/observability/metrics"
	"github.com/cemcalis/chiptunnig/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Catalog    catalogdomain.Catalog
	Poster     ledgerdomain.Poster
	Store      *storage.Store
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	catalog    catalogdomain.Catalog
	poster     ledgerdomain.Poster
	store      *storage.Store
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) filedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("filerequest.service"),
		genID:      p.GenID,
		catalog:    p.Catalog,
		poster:     p.Poster,
		store:      p.Store,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Submit(ctx context.Context, userID snowflake.ID, req filedomain.SubmitRequest) (*filedomain.FileRequest, error) {
	if strings.TrimSpace(req.VehicleMake) == "" ||
		strings.TrimSpace(req.VehicleModel) == "" ||
		strings.TrimSpace(req.FileName) == "" ||
		req.File == nil {
		return nil, filedomain.ErrInvalidInput
	}

	// Cost is fixed at creation from the current catalog; later price
	// changes never touch existing requests.
	cost, err := s.catalog.CostOf(ctx, req.Options)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, len(req.Options))
	for _, option := range req.Options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			options = append(options, trimmed)
		}
	}

	var request *filedomain.FileRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		description := fmt.Sprintf("File request for %s %s",
			strings.TrimSpace(req.VehicleMake), strings.TrimSpace(req.VehicleModel))
		if _, _, err := s.poster.Debit(ctx, tx, userID, cost, description); err != nil {
			return err
		}

		storedName, err := s.store.Save(req.FileName, userID, req.File)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		request = &filedomain.FileRequest{
			ID:           s.genID.Generate(),
			UserID:       userID,
			VehicleMake:  strings.TrimSpace(req.VehicleMake),
			VehicleModel: strings.TrimSpace(req.VehicleModel),
			EngineCode:   strings.TrimSpace(req.EngineCode),
			ECUType:      strings.TrimSpace(req.ECUType),
			OriginalName: req.FileName,
			OriginalPath: storedName,
			Options:      datatypes.NewJSONSlice(options),
			Cost:         cost,
			Status:       filedomain.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(request).Error
	})
	if err != nil {
		return nil, err
	}

	s.obsMetrics.RecordFileRequest(ctx, request.Status)
	s.log.Info("file request submitted",
		zap.String("request_id", request.ID.String()),
		zap.Int64("cost", cost),
	)
	return request, nil
}

func (s *Service) AdvanceStatus(ctx context.Context, fileID snowflake.ID, req filedomain.AdvanceStatusRequest) (*filedomain.FileRequest, error) {
	if !filedomain.ValidStatus(req.Status) {
		return nil, filedomain.ErrInvalidStatus
	}

	fields := map[string]any{
		"status":     req.Status,
		"updated_at": time.Now().UTC(),
	}
	if req.AdminNotes != nil {
		fields["admin_notes"] = strings.TrimSpace(*req.AdminNotes)
	}

	tx := s.db.WithContext(ctx).
		Model(&filedomain.FileRequest{}).
		Where("id = ?", fileID).
		Updates(fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, filedomain.ErrNotFound
	}

	s.obsMetrics.RecordFileRequest(ctx, req.Status)
	return s.find(ctx, fileID)
}

func (s *Service) AttachResult(ctx context.Context, fileID snowflake.ID, fileName string, file io.Reader) (*filedomain.FileRequest, error) {
	if strings.TrimSpace(fileName) == "" || file == nil {
		return nil, filedomain.ErrInvalidInput
	}

	request, err := s.find(ctx, fileID)
	if err != nil {
		return nil, err
	}

	storedName, err := s.store.SaveResult(fileName, request.UserID, file)
	if err != nil {
		return nil, err
	}

	resultName := storage.ResultPrefix + fileName
	if err := s.db.WithContext(ctx).
		Model(&filedomain.FileRequest{}).
		Where("id = ?", fileID).
		Updates(map[string]any{
			"result_name": resultName,
			"result_path": storedName,
			"updated_at":  time.Now().UTC(),
		}).Error; err != nil {
		return nil, err
	}

	return s.find(ctx, fileID)
}

func (s *Service) ListAll(ctx context.Context) ([]filedomain.RequestView, error) {
	var views []filedomain.RequestView
	err := s.db.WithContext(ctx).
		Model(&filedomain.FileRequest{}).
		Select("file_requests.*, users.name AS dealer_name, users.company_name AS dealer_company").
		Joins("LEFT JOIN users ON users.id = file_requests.user_id").
		Order("file_requests.created_at DESC").
		Find(&views).Error
	return views, err
}

func (s *Service) ListForUser(ctx context.Context, userID snowflake.ID) ([]filedomain.FileRequest, error) {
	var requests []filedomain.FileRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (s *Service) Get(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (*filedomain.FileRequest, error) {
	request, err := s.find(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && request.UserID != actorID {
		return nil, filedomain.ErrForbidden
	}
	return request, nil
}

func (s *Service) OpenOriginal(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (io.ReadCloser, string, error) {
	request, err := s.Get(ctx, fileID, actorID, isAdmin)
	if err != nil {
		return nil, "", err
	}
	blob, err := s.store.Open(request.OriginalPath)
	if err != nil {
		return nil, "", err
	}
	return blob, request.OriginalName, nil
}

func (s *Service) OpenResult(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (io.ReadCloser, string, error) {
	request, err := s.Get(ctx, fileID, actorID, isAdmin)
	if err != nil {
		return nil, "", err
	}
	if request.ResultPath == nil || request.ResultName == nil {
		return nil, "", filedomain.ErrNoResult
	}
	blob, err := s.store.Open(*request.ResultPath)
	if err != nil {
		return nil, "", err
	}
	return blob, *request.ResultName, nil
}

func (s *Service) find(ctx context.Context, fileID snowflake.ID) (*filedomain.FileRequest, error) {
	var request filedomain.FileRequest
	err := s.db.WithContext(ctx).Where("id = ?", fileID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, filedomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}
