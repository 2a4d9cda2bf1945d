package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	obsmetrics "github.com/cemcalis/chiptunnig/internal/observability/metrics"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statementLimit  = 50
	allEntriesLimit = 100
)

type PosterParams struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

// Poster writes balance-affecting entries inside a caller-owned
// transaction.
type Poster struct {
	log        *zap.Logger
	genID      *snowflake.Node
	obsMetrics *obsmetrics.Metrics
}

func NewPoster(p PosterParams) ledgerdomain.Poster {
	return &Poster{
		log:        p.Log.Named("ledger.poster"),
		genID:      p.GenID,
		obsMetrics: p.ObsMetrics,
	}
}

func (p *Poster) Apply(ctx context.Context, tx *gorm.DB, userID snowflake.ID, amount int64, kind, description string) (*ledgerdomain.Transaction, int64, error) {
	balance, err := lockedBalance(ctx, tx, userID)
	if err != nil {
		return nil, 0, err
	}

	newBalance := balance
	if kind == ledgerdomain.KindDebit {
		newBalance -= amount
	} else {
		newBalance += amount
	}

	now := time.Now().UTC()
	if err := tx.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Updates(map[string]any{"credits": newBalance, "updated_at": now}).Error; err != nil {
		return nil, 0, err
	}

	entry := &ledgerdomain.Transaction{
		ID:          p.genID.Generate(),
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, 0, err
	}

	p.obsMetrics.RecordLedgerEntry(ctx, kind)
	return entry, newBalance, nil
}

func (p *Poster) Debit(ctx context.Context, tx *gorm.DB, userID snowflake.ID, cost int64, description string) (*ledgerdomain.Transaction, int64, error) {
	balance, err := lockedBalance(ctx, tx, userID)
	if err != nil {
		return nil, 0, err
	}
	if balance < cost {
		return nil, 0, &ledgerdomain.InsufficientBalanceError{Required: cost, Available: balance}
	}
	return p.Apply(ctx, tx, userID, cost, ledgerdomain.KindDebit, description)
}

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Poster ledgerdomain.Poster
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	poster ledgerdomain.Poster
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("ledger.service"),
		poster: p.Poster,
	}
}

func (s *Service) AdjustCredits(ctx context.Context, userID snowflake.ID, req ledgerdomain.AdjustRequest) (*ledgerdomain.AdjustResult, error) {
	if req.Amount < 0 {
		return nil, ledgerdomain.ErrInvalidAmount
	}

	var result ledgerdomain.AdjustResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := lockedBalance(ctx, tx, userID)
		if err != nil {
			return err
		}

		var entryAmount int64
		var kind, description string
		switch req.Action {
		case ledgerdomain.ActionAdd:
			entryAmount = req.Amount
			kind = ledgerdomain.KindAdminAdd
			description = "Admin added credits"
		case ledgerdomain.ActionSubtract:
			// The balance never goes below zero; the entry records the
			// amount actually removed, as a negative value.
			actual := req.Amount
			if actual > balance {
				actual = balance
			}
			entryAmount = -actual
			kind = ledgerdomain.KindAdminSubtract
			description = "Admin subtracted credits"
		case ledgerdomain.ActionSet:
			// The entry records the signed delta from the old balance.
			entryAmount = req.Amount - balance
			kind = ledgerdomain.KindAdminSet
			description = "Admin set balance"
		default:
			return ledgerdomain.ErrInvalidAction
		}

		entry, newBalance, err := s.poster.Apply(ctx, tx, userID, entryAmount, kind, description)
		if err != nil {
			return err
		}

		result = ledgerdomain.AdjustResult{NewBalance: newBalance, Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Statement(ctx context.Context, userID snowflake.ID) (*ledgerdomain.Statement, error) {
	var balance int64
	err := s.db.WithContext(ctx).
		Table("users").
		Select("credits").
		Where("id = ?", userID).
		Take(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgerdomain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var transactions []ledgerdomain.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(statementLimit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	return &ledgerdomain.Statement{Balance: balance, Transactions: transactions}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]ledgerdomain.EntryView, error) {
	var views []ledgerdomain.EntryView
	err := s.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Select("transactions.*, users.name AS dealer_name, users.company_name AS dealer_company").
		Joins("LEFT JOIN users ON users.id = transactions.user_id").
		Order("transactions.created_at DESC").
		Limit(allEntriesLimit).
		Find(&views).Error
	return views, err
}

func (s *Service) Reconcile(ctx context.Context, userID snowflake.ID) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN kind = 'debit' THEN -amount ELSE amount END), 0)").
		Where("user_id = ?", userID).
		Take(&sum).Error
	return sum, err
}

func lockedBalance(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (int64, error) {
	var balance int64
	err := db.LockForUpdate(tx.WithContext(ctx).Table("users")).
		Select("credits").
		Where("id = ?", userID).
		Take(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ledgerdomain.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
