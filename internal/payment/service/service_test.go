package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	ledgerservice "github.com/cemcalis/chiptunnig/internal/ledger/service"
	paymentdomain "github.com/cemcalis/chiptunnig/internal/payment/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	svc  paymentdomain.Service
	node *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&ledgerdomain.Transaction{},
		&paymentdomain.PaymentRequest{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	poster := ledgerservice.NewPoster(ledgerservice.PosterParams{Log: zap.NewNop(), GenID: node})
	svc := NewService(Params{DB: dbConn, Log: zap.NewNop(), GenID: node, Poster: poster})

	return &fixture{db: dbConn, svc: svc, node: node}
}

func (f *fixture) newDealer(t *testing.T, credits int64) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	user := &authdomain.User{
		ID:           id,
		Email:        "dealer-" + id.String() + "@example.com",
		PasswordHash: "x",
		Role:         authdomain.RoleDealer,
		Status:       authdomain.StatusApproved,
		Credits:      credits,
	}
	require.NoError(t, f.db.Create(user).Error)
	return id
}

func (f *fixture) balance(t *testing.T, userID snowflake.ID) int64 {
	t.Helper()
	var balance int64
	require.NoError(t, f.db.Table("users").Select("credits").Where("id = ?", userID).Take(&balance).Error)
	return balance
}

func TestSubmitRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	userID := f.newDealer(t, 0)

	_, err := f.svc.Submit(context.Background(), userID, 0)
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)
	_, err = f.svc.Submit(context.Background(), userID, -10)
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)
}

func TestApproveCreditsOnceOnly(t *testing.T) {
	f := newFixture(t)
	userID := f.newDealer(t, 0)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, userID, 500)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusPending, request.Status)

	resolved, err := f.svc.Resolve(ctx, request.ID, paymentdomain.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusApproved, resolved.Status)
	assert.Equal(t, int64(500), f.balance(t, userID))

	var entry ledgerdomain.Transaction
	require.NoError(t, f.db.Where("user_id = ?", userID).First(&entry).Error)
	assert.Equal(t, ledgerdomain.KindDeposit, entry.Kind)
	assert.Equal(t, int64(500), entry.Amount)
	assert.Contains(t, entry.Description, request.ID.String())

	// Second resolution fails and must not credit again.
	_, err = f.svc.Resolve(ctx, request.ID, paymentdomain.DecisionApprove)
	assert.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
	assert.Equal(t, int64(500), f.balance(t, userID))

	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.Transaction{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRejectDoesNotCredit(t *testing.T) {
	f := newFixture(t)
	userID := f.newDealer(t, 0)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, userID, 250)
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, request.ID, paymentdomain.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusRejected, resolved.Status)
	assert.Equal(t, int64(0), f.balance(t, userID))

	// A rejected request cannot be approved afterwards.
	_, err = f.svc.Resolve(ctx, request.ID, paymentdomain.DecisionApprove)
	assert.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
}

func TestResolveUnknownRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Resolve(context.Background(), f.node.Generate(), paymentdomain.DecisionApprove)
	assert.ErrorIs(t, err, paymentdomain.ErrNotFound)
}
