package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	poster ledgerdomain.Poster
	svc    ledgerdomain.Service
	node   *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}, &ledgerdomain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	poster := NewPoster(PosterParams{Log: zap.NewNop(), GenID: node})
	svc := NewService(Params{DB: dbConn, Log: zap.NewNop(), Poster: poster})

	return &fixture{db: dbConn, poster: poster, svc: svc, node: node}
}

func (f *fixture) newUser(t *testing.T, credits int64) snowflake.ID {
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
	return user.ID
}

func (f *fixture) balance(t *testing.T, userID snowflake.ID) int64 {
	t.Helper()
	var balance int64
	require.NoError(t, f.db.Table("users").Select("credits").Where("id = ?", userID).Take(&balance).Error)
	return balance
}

func TestAdjustAddIncreasesBalance(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 10)

	result, err := f.svc.AdjustCredits(context.Background(), userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.NewBalance)
	assert.Equal(t, ledgerdomain.KindAdminAdd, result.Transaction.Kind)
	assert.Equal(t, int64(40), result.Transaction.Amount)
	assert.Equal(t, int64(50), f.balance(t, userID))
}

func TestAdjustSubtractFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 30)

	result, err := f.svc.AdjustCredits(context.Background(), userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionSubtract,
		Amount: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewBalance)
	// The entry records what was actually removed, not what was asked.
	assert.Equal(t, int64(-30), result.Transaction.Amount)
	assert.Equal(t, ledgerdomain.KindAdminSubtract, result.Transaction.Kind)
}

func TestAdjustSetRecordsSignedDelta(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 40)
	ctx := context.Background()

	up, err := f.svc.AdjustCredits(ctx, userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionSet,
		Amount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), up.NewBalance)
	assert.Equal(t, int64(60), up.Transaction.Amount)

	down, err := f.svc.AdjustCredits(ctx, userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionSet,
		Amount: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), down.NewBalance)
	assert.Equal(t, int64(-90), down.Transaction.Amount)
}

func TestAdjustNegativeAmountRejected(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 40)

	_, err := f.svc.AdjustCredits(context.Background(), userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: -5,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidAmount)
	assert.Equal(t, int64(40), f.balance(t, userID))
}

func TestAdjustUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AdjustCredits(context.Background(), f.node.Generate(), ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: 5,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrUserNotFound)
}

func TestDebitInsufficientBalanceWritesNothing(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 100)
	ctx := context.Background()

	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := f.poster.Debit(ctx, tx, userID, 150, "File request for VW Golf")
		return err
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInsufficientBalance)

	var insufficient *ledgerdomain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(150), insufficient.Required)
	assert.Equal(t, int64(100), insufficient.Available)

	assert.Equal(t, int64(100), f.balance(t, userID))
	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.Transaction{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// A request the balance does cover goes through afterwards.
	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := f.poster.Debit(ctx, tx, userID, 80, "File request for VW Golf")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.balance(t, userID))
}

func TestReconcileMatchesBalance(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 0)
	ctx := context.Background()

	steps := []ledgerdomain.AdjustRequest{
		{Action: ledgerdomain.ActionAdd, Amount: 200},
		{Action: ledgerdomain.ActionSubtract, Amount: 50},
		{Action: ledgerdomain.ActionSet, Amount: 75},
	}
	for _, step := range steps {
		_, err := f.svc.AdjustCredits(ctx, userID, step)
		require.NoError(t, err)
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := f.poster.Debit(ctx, tx, userID, 25, "File request for VW Golf")
		return err
	})
	require.NoError(t, err)
	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := f.poster.Apply(ctx, tx, userID, 30, ledgerdomain.KindDeposit, "Bank transfer approved #1")
		return err
	})
	require.NoError(t, err)

	sum, err := f.svc.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, f.balance(t, userID), sum)
	assert.Equal(t, int64(80), sum)
}

func TestStatementReturnsRecentEntries(t *testing.T) {
	f := newFixture(t)
	userID := f.newUser(t, 0)
	ctx := context.Background()

	_, err := f.svc.AdjustCredits(ctx, userID, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: 120,
	})
	require.NoError(t, err)

	statement, err := f.svc.Statement(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), statement.Balance)
	require.Len(t, statement.Transactions, 1)
	assert.Equal(t, ledgerdomain.KindAdminAdd, statement.Transactions[0].Kind)
}

func TestListAllJoinsDealerNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newUser(t, 0)
	second := f.newUser(t, 0)
	require.NoError(t, f.db.Table("users").Where("id = ?", first).
		Updates(map[string]any{"name": "Ada Dealer", "company_name": "Ada Tuning"}).Error)

	_, err := f.svc.AdjustCredits(ctx, first, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: 30,
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&ledgerdomain.Transaction{}).
		Where("user_id = ?", first).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	_, err = f.svc.AdjustCredits(ctx, second, ledgerdomain.AdjustRequest{
		Action: ledgerdomain.ActionAdd,
		Amount: 70,
	})
	require.NoError(t, err)

	entries, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].UserID)
	assert.Equal(t, first, entries[1].UserID)
	assert.Equal(t, "Ada Dealer", entries[1].DealerName)
	assert.Equal(t, "Ada Tuning", entries[1].DealerCompany)
	assert.Equal(t, int64(30), entries[1].Amount)
}
