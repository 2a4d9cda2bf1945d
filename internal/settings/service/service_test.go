package service

import (
	"context"
	"testing"

	settingsdomain "github.com/cemcalis/chiptunnig/internal/settings/domain"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/zap"
)

func newService(t *testing.T) settingsdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dbConn.AutoMigrate(&settingsdomain.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(Params{DB: dbConn, Log: zap.NewNop()})
}

func TestSetAndAll(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	err := svc.Set(ctx, map[string]string{
		settingsdomain.KeyIBAN:          "TR12 0006 4000 0011 2345 6789 01",
		settingsdomain.KeyAccountHolder: "Tuning Portal Ltd",
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	values, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if values[settingsdomain.KeyIBAN] != "TR12 0006 4000 0011 2345 6789 01" {
		t.Fatalf("unexpected iban: %q", values[settingsdomain.KeyIBAN])
	}
	if values[settingsdomain.KeyAccountHolder] != "Tuning Portal Ltd" {
		t.Fatalf("unexpected holder: %q", values[settingsdomain.KeyAccountHolder])
	}
}

func TestSetUpsertsExistingKey(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, map[string]string{settingsdomain.KeyIBAN: "old"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.Set(ctx, map[string]string{settingsdomain.KeyIBAN: "new"}); err != nil {
		t.Fatalf("set again: %v", err)
	}

	values, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if values[settingsdomain.KeyIBAN] != "new" {
		t.Fatalf("expected upsert to win, got %q", values[settingsdomain.KeyIBAN])
	}
	if len(values) != 1 {
		t.Fatalf("expected a single row, got %d", len(values))
	}
}

func TestSetIgnoresBlankKeys(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, map[string]string{"  ": "x", "": "y"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	values, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no rows, got %v", values)
	}
}
