package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	catalogdomain "github.com/cemcalis/chiptunnig/internal/catalog/domain"
	catalogrepository "github.com/cemcalis/chiptunnig/internal/catalog/repository"
	catalogservice "github.com/cemcalis/chiptunnig/internal/catalog/service"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	ledgerservice "github.com/cemcalis/chiptunnig/internal/ledger/service"
	"github.com/cemcalis/chiptunnig/internal/storage"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     filedomain.Service
	catalog catalogdomain.Catalog
	node    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&ledgerdomain.Transaction{},
		&catalogdomain.Service{},
		&filedomain.FileRequest{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	catalog := catalogservice.New(zap.NewNop(), catalogrepository.New(dbConn), node)
	poster := ledgerservice.NewPoster(ledgerservice.PosterParams{Log: zap.NewNop(), GenID: node})
	svc := NewService(Params{
		DB:      dbConn,
		Log:     zap.NewNop(),
		GenID:   node,
		Catalog: catalog,
		Poster:  poster,
		Store:   storage.NewMem(),
	})

	return &fixture{db: dbConn, svc: svc, catalog: catalog, node: node}
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

func (f *fixture) seedServices(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, svc := range []catalogdomain.UpsertServiceRequest{
		{Name: "DPF Off", Price: 50, Category: "emisyon"},
		{Name: "EGR Off", Price: 40, Category: "emisyon"},
		{Name: "Stage 1 Tune", Price: 80, Category: "performans"},
	} {
		_, err := f.catalog.Create(ctx, svc)
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, userID snowflake.ID) int64 {
	t.Helper()
	var balance int64
	require.NoError(t, f.db.Table("users").Select("credits").Where("id = ?", userID).Take(&balance).Error)
	return balance
}

func submitRequest(options ...string) filedomain.SubmitRequest {
	return filedomain.SubmitRequest{
		VehicleMake:  "VW",
		VehicleModel: "Golf",
		EngineCode:   "1.9 TDI",
		ECUType:      "EDC16",
		Options:      options,
		FileName:     "golf.bin",
		File:         strings.NewReader("ecu dump"),
	}
}

func TestSubmitDebitsCostAtCreation(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	userID := f.newDealer(t, 200)

	request, err := f.svc.Submit(context.Background(), userID, submitRequest("DPF Off", "EGR Off"))
	require.NoError(t, err)
	assert.Equal(t, int64(90), request.Cost)
	assert.Equal(t, filedomain.StatusPending, request.Status)
	assert.Equal(t, int64(110), f.balance(t, userID))

	var entry ledgerdomain.Transaction
	require.NoError(t, f.db.Where("user_id = ?", userID).First(&entry).Error)
	assert.Equal(t, ledgerdomain.KindDebit, entry.Kind)
	assert.Equal(t, int64(90), entry.Amount)
	assert.Equal(t, "File request for VW Golf", entry.Description)
}

func TestSubmitInsufficientBalancePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	userID := f.newDealer(t, 100)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, userID, submitRequest("Stage 1 Tune", "DPF Off", "EGR Off"))
	require.ErrorIs(t, err, ledgerdomain.ErrInsufficientBalance)

	var insufficient *ledgerdomain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(170), insufficient.Required)
	assert.Equal(t, int64(100), insufficient.Available)

	assert.Equal(t, int64(100), f.balance(t, userID))
	var requests int64
	require.NoError(t, f.db.Model(&filedomain.FileRequest{}).Count(&requests).Error)
	assert.Equal(t, int64(0), requests)
	var entries int64
	require.NoError(t, f.db.Model(&ledgerdomain.Transaction{}).Count(&entries).Error)
	assert.Equal(t, int64(0), entries)

	// A cheaper request afterwards succeeds.
	request, err := f.svc.Submit(ctx, userID, submitRequest("Stage 1 Tune"))
	require.NoError(t, err)
	assert.Equal(t, int64(80), request.Cost)
	assert.Equal(t, int64(20), f.balance(t, userID))
}

func TestSubmitCostSurvivesPriceChange(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	userID := f.newDealer(t, 200)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, userID, submitRequest("DPF Off"))
	require.NoError(t, err)
	require.Equal(t, int64(50), request.Cost)

	var services []catalogdomain.Service
	require.NoError(t, f.db.Where("name = ?", "DPF Off").Find(&services).Error)
	price := int64(500)
	_, err = f.catalog.Update(ctx, services[0].ID, catalogdomain.UpdateServiceRequest{Price: &price})
	require.NoError(t, err)

	reloaded, err := f.svc.Get(ctx, request.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(50), reloaded.Cost)
}

func TestAdvanceStatusRejectedDoesNotRefund(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	userID := f.newDealer(t, 200)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, userID, submitRequest("DPF Off"))
	require.NoError(t, err)
	require.Equal(t, int64(150), f.balance(t, userID))

	rejected, err := f.svc.AdvanceStatus(ctx, request.ID, filedomain.AdvanceStatusRequest{
		Status: filedomain.StatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, filedomain.StatusRejected, rejected.Status)
	assert.Equal(t, int64(150), f.balance(t, userID))
}

func TestAdvanceStatusUnknownValue(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AdvanceStatus(context.Background(), f.node.Generate(), filedomain.AdvanceStatusRequest{
		Status: "archived",
	})
	assert.ErrorIs(t, err, filedomain.ErrInvalidStatus)
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	owner := f.newDealer(t, 200)
	other := f.newDealer(t, 200)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, owner, submitRequest("DPF Off"))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, request.ID, other, false)
	assert.ErrorIs(t, err, filedomain.ErrForbidden)

	got, err := f.svc.Get(ctx, request.ID, other, true)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)
}

func TestAttachResultRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.seedServices(t)
	userID := f.newDealer(t, 200)
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, userID, submitRequest("DPF Off"))
	require.NoError(t, err)

	_, _, err = f.svc.OpenResult(ctx, request.ID, userID, false)
	assert.ErrorIs(t, err, filedomain.ErrNoResult)

	updated, err := f.svc.AttachResult(ctx, request.ID, "golf.bin", strings.NewReader("tuned dump"))
	require.NoError(t, err)
	require.NotNil(t, updated.ResultName)
	assert.Equal(t, "MODDED_golf.bin", *updated.ResultName)

	blob, name, err := f.svc.OpenResult(ctx, request.ID, userID, false)
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, "MODDED_golf.bin", name)
	data, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "tuned dump", string(data))
}
