package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/zap"
)

func newService(t *testing.T) ecudomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&ecudomain.ECU{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewService(Params{DB: dbConn, Log: zap.NewNop(), GenID: node})
}

func seedECUs(t *testing.T, svc ecudomain.Service) {
	t.Helper()

	rows := []ecudomain.CreateECURequest{
		{BoschNumber: "0281011234", OEMNumber: "03G906016A", Vehicle: "VW Golf 1.9 TDI", Price: 120},
		{BoschNumber: "0281015678", OEMNumber: "03L906022B", Vehicle: "Audi A4 2.0 TDI", Price: 150},
		{BoschNumber: "0261S04321", OEMNumber: "7583888", Vehicle: "BMW 320i", Notes: "MEV17.2"},
	}
	for _, row := range rows {
		if _, err := svc.Create(context.Background(), row); err != nil {
			t.Fatalf("seed %s: %v", row.BoschNumber, err)
		}
	}
}

func TestSearchShortQueryReturnsNothing(t *testing.T) {
	svc := newService(t)
	seedECUs(t, svc)

	results, err := svc.Search(context.Background(), "02")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result for short query, got %d rows", len(results))
	}
}

func TestSearchMatchesAcrossColumns(t *testing.T) {
	svc := newService(t)
	seedECUs(t, svc)
	ctx := context.Background()

	byBosch, err := svc.Search(ctx, "028101")
	if err != nil {
		t.Fatalf("search bosch: %v", err)
	}
	if len(byBosch) != 2 {
		t.Fatalf("expected 2 bosch matches, got %d", len(byBosch))
	}

	byOEM, err := svc.Search(ctx, "03g906")
	if err != nil {
		t.Fatalf("search oem: %v", err)
	}
	if len(byOEM) != 1 || byOEM[0].Vehicle != "VW Golf 1.9 TDI" {
		t.Fatalf("unexpected oem match: %+v", byOEM)
	}

	byVehicle, err := svc.Search(ctx, "bmw")
	if err != nil {
		t.Fatalf("search vehicle: %v", err)
	}
	if len(byVehicle) != 1 || byVehicle[0].BoschNumber != "0261S04321" {
		t.Fatalf("unexpected vehicle match: %+v", byVehicle)
	}

	byNotes, err := svc.Search(ctx, "mev17")
	if err != nil {
		t.Fatalf("search notes: %v", err)
	}
	if len(byNotes) != 1 {
		t.Fatalf("expected 1 notes match, got %d", len(byNotes))
	}
}

func TestCreateDuplicateBoschNumber(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ecudomain.CreateECURequest{BoschNumber: "0281011234"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, ecudomain.CreateECURequest{BoschNumber: "0281011234"}); err != ecudomain.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.Create(ctx, ecudomain.CreateECURequest{BoschNumber: "  "}); err != ecudomain.ErrEmptyBosch {
		t.Fatalf("expected ErrEmptyBosch, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	ecu, err := svc.Create(ctx, ecudomain.CreateECURequest{BoschNumber: "0281011234", Vehicle: "VW Golf"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	vehicle := "VW Golf VII"
	price := int64(200)
	updated, err := svc.Update(ctx, ecu.ID, ecudomain.UpdateECURequest{Vehicle: &vehicle, Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Vehicle != vehicle || updated.Price != price {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.BoschNumber != "0281011234" {
		t.Fatalf("bosch number changed unexpectedly: %s", updated.BoschNumber)
	}

	if err := svc.Delete(ctx, ecu.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, ecu.ID); err != ecudomain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
