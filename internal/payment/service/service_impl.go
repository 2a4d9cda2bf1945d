package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	obsmetrics "github.com/cemcalis/chiptunnig/internal/observability/metrics"
	paymentdomain "github.com/cemcalis/chiptunnig/internal/payment/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Poster     ledgerdomain.Poster
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	poster     ledgerdomain.Poster
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		poster:     p.Poster,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Submit(ctx context.Context, userID snowflake.ID, amount int64) (*paymentdomain.PaymentRequest, error) {
	if amount <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	request := &paymentdomain.PaymentRequest{
		ID:     s.genID.Generate(),
		UserID: userID,
		Amount: amount,
		Status: paymentdomain.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}

	s.log.Info("payment request submitted",
		zap.String("request_id", request.ID.String()),
		zap.Int64("amount", amount),
	)
	return request, nil
}

func (s *Service) Resolve(ctx context.Context, requestID snowflake.ID, decision string) (*paymentdomain.PaymentRequest, error) {
	if decision != paymentdomain.DecisionApprove && decision != paymentdomain.DecisionReject {
		return nil, paymentdomain.ErrInvalidDecision
	}

	var request paymentdomain.PaymentRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := db.LockForUpdate(tx.WithContext(ctx)).
			Where("id = ?", requestID).
			First(&request).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return paymentdomain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if request.Status != paymentdomain.StatusPending {
			return paymentdomain.ErrAlreadyProcessed
		}

		status := paymentdomain.StatusRejected
		if decision == paymentdomain.DecisionApprove {
			status = paymentdomain.StatusApproved
		}
		if err := tx.WithContext(ctx).
			Model(&paymentdomain.PaymentRequest{}).
			Where("id = ?", requestID).
			Update("status", status).Error; err != nil {
			return err
		}
		request.Status = status

		if decision == paymentdomain.DecisionApprove {
			description := fmt.Sprintf("Bank transfer approved #%s", request.ID)
			if _, _, err := s.poster.Apply(ctx, tx, request.UserID, request.Amount, ledgerdomain.KindDeposit, description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.obsMetrics.RecordPaymentDecision(ctx, request.Status)
	s.log.Info("payment request resolved",
		zap.String("request_id", request.ID.String()),
		zap.String("status", request.Status),
	)
	return &request, nil
}

func (s *Service) ListAll(ctx context.Context) ([]paymentdomain.RequestView, error) {
	var views []paymentdomain.RequestView
	err := s.db.WithContext(ctx).
		Model(&paymentdomain.PaymentRequest{}).
		Select("payment_requests.*, users.name AS dealer_name, users.company_name AS dealer_company").
		Joins("LEFT JOIN users ON users.id = payment_requests.user_id").
		Order("payment_requests.created_at DESC").
		Find(&views).Error
	return views, err
}

func (s *Service) ListForUser(ctx context.Context, userID snowflake.ID) ([]paymentdomain.PaymentRequest, error) {
	var requests []paymentdomain.PaymentRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (s *Service) ListPendingForUser(ctx context.Context, userID snowflake.ID) ([]paymentdomain.PaymentRequest, error) {
	var requests []paymentdomain.PaymentRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, paymentdomain.StatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
