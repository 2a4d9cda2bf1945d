package authorization

import (
	"context"
	"testing"

	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/zap"
)

func newService(t *testing.T) Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	enforcer, err := NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestDealerCapabilities(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "dealer", ObjectFileRequest, ActionCreate); err != nil {
		t.Fatalf("dealer should create file requests: %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectCredits, ActionView); err != nil {
		t.Fatalf("dealer should view credits: %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectPayment, ActionResolve); err != ErrForbidden {
		t.Fatalf("dealer must not resolve payments, got %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectLedger, ActionAdjust); err != ErrForbidden {
		t.Fatalf("dealer must not adjust ledgers, got %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectLedger, ActionView); err != ErrForbidden {
		t.Fatalf("dealer must not view the full ledger, got %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectCatalog, ActionUpdate); err != ErrForbidden {
		t.Fatalf("dealer must not edit the catalog, got %v", err)
	}
}

func TestAdminInheritsDealerCapabilities(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "admin", ObjectFileRequest, ActionView); err != nil {
		t.Fatalf("admin should view file requests: %v", err)
	}
	if err := svc.Authorize(ctx, "admin", ObjectPayment, ActionResolve); err != nil {
		t.Fatalf("admin should resolve payments: %v", err)
	}
	if err := svc.Authorize(ctx, "admin", ObjectLedger, ActionAdjust); err != nil {
		t.Fatalf("admin should adjust ledgers: %v", err)
	}
	if err := svc.Authorize(ctx, "admin", ObjectLedger, ActionView); err != nil {
		t.Fatalf("admin should view the full ledger: %v", err)
	}
}

func TestAuthorizeValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "", ObjectECU, ActionView); err != ErrInvalidActor {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", " ", ActionView); err != ErrInvalidObject {
		t.Fatalf("expected ErrInvalidObject, got %v", err)
	}
	if err := svc.Authorize(ctx, "dealer", ObjectECU, ""); err != ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if err := svc.Authorize(ctx, "intruder", ObjectECU, ActionView); err != ErrForbidden {
		t.Fatalf("unknown role should be forbidden, got %v", err)
	}
}
