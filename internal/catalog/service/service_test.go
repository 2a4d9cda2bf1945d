package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/catalog/domain"
	"github.com/cemcalis/chiptunnig/internal/catalog/repository"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/zap"
)

func newTestCatalog(t *testing.T) domain.Catalog {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Service{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(zap.NewNop(), repository.New(dbConn), node)
}

func seedService(t *testing.T, catalog domain.Catalog, name string, price int64) *domain.Service {
	t.Helper()
	svc, err := catalog.Create(context.Background(), domain.UpsertServiceRequest{
		Name:     name,
		Price:    price,
		Category: "emisyon",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestCreateDuplicateName(t *testing.T) {
	catalog := newTestCatalog(t)

	seedService(t, catalog, "DPF Off", 50)
	_, err := catalog.Create(context.Background(), domain.UpsertServiceRequest{Name: "DPF Off", Price: 60})
	if !errors.Is(err, domain.ErrServiceExists) {
		t.Fatalf("expected ErrServiceExists, got %v", err)
	}
}

func TestCostOfSkipsUnknownAndDeduplicates(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	seedService(t, catalog, "DPF Off", 50)
	seedService(t, catalog, "EGR Off", 40)

	cost, err := catalog.CostOf(ctx, []string{"DPF Off", "EGR Off", "DPF Off", "No Such Service"})
	if err != nil {
		t.Fatalf("failed to price: %v", err)
	}
	if cost != 90 {
		t.Fatalf("expected cost 90, got %d", cost)
	}
}

func TestCostOfIgnoresInactive(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	svc := seedService(t, catalog, "DPF Off", 50)
	seedService(t, catalog, "EGR Off", 40)

	inactive := false
	if _, err := catalog.Update(ctx, svc.ID, domain.UpdateServiceRequest{Active: &inactive}); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	cost, err := catalog.CostOf(ctx, []string{"DPF Off", "EGR Off"})
	if err != nil {
		t.Fatalf("failed to price: %v", err)
	}
	if cost != 40 {
		t.Fatalf("expected cost 40, got %d", cost)
	}
}

func TestUpdateUnknownService(t *testing.T) {
	catalog := newTestCatalog(t)

	price := int64(10)
	node, _ := snowflake.NewNode(2)
	_, err := catalog.Update(context.Background(), node.Generate(), domain.UpdateServiceRequest{Price: &price})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
