package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	"github.com/cemcalis/chiptunnig/internal/auth/repository"
	"github.com/cemcalis/chiptunnig/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(zap.NewNop(), repo, sessionRepo, node)
}

func register(t *testing.T, svc authdomain.Service, email string) *authdomain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Email:       email,
		Password:    "correct-password",
		Name:        "Alice",
		CompanyName: "Alice Tuning",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	return user
}

func TestRegisterStartsPendingWithZeroCredits(t *testing.T) {
	svc := newTestService(t)

	user := register(t, svc, "alice@example.com")
	if user.Role != authdomain.RoleDealer {
		t.Fatalf("expected dealer role, got %s", user.Role)
	}
	if user.Status != authdomain.StatusPending {
		t.Fatalf("expected pending status, got %s", user.Status)
	}
	if user.Credits != 0 {
		t.Fatalf("expected zero credits, got %d", user.Credits)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	register(t, svc, "alice@example.com")
	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Email:    "alice@example.com",
		Password: "another-password",
	})
	if !errors.Is(err, authdomain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	register(t, svc, "alice@example.com")
	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginPendingDealerDenied(t *testing.T) {
	svc := newTestService(t)

	register(t, svc, "alice@example.com")
	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if !errors.Is(err, authdomain.ErrAccountPending) {
		t.Fatalf("expected ErrAccountPending, got %v", err)
	}
}

func TestLoginRejectedDealerCarriesReason(t *testing.T) {
	svc := newTestService(t)

	user := register(t, svc, "alice@example.com")
	if _, err := svc.ResolveRegistration(context.Background(), user.ID, authdomain.ResolveRegistrationRequest{
		Decision: authdomain.DecisionReject,
		Reason:   "incomplete paperwork",
	}); err != nil {
		t.Fatalf("failed to reject: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if !errors.Is(err, authdomain.ErrAccountRejected) {
		t.Fatalf("expected ErrAccountRejected, got %v", err)
	}
	var rejected *authdomain.AccountRejectedError
	if !errors.As(err, &rejected) || rejected.Reason != "incomplete paperwork" {
		t.Fatalf("expected rejection reason, got %v", err)
	}
}

func TestApproveClearsRejectionReason(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, "alice@example.com")
	if _, err := svc.ResolveRegistration(ctx, user.ID, authdomain.ResolveRegistrationRequest{
		Decision: authdomain.DecisionReject,
		Reason:   "incomplete paperwork",
	}); err != nil {
		t.Fatalf("failed to reject: %v", err)
	}

	approved, err := svc.ResolveRegistration(ctx, user.ID, authdomain.ResolveRegistrationRequest{
		Decision: authdomain.DecisionApprove,
	})
	if err != nil {
		t.Fatalf("failed to approve: %v", err)
	}
	if approved.Status != authdomain.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.RejectionReason != nil {
		t.Fatalf("expected rejection reason cleared, got %v", *approved.RejectionReason)
	}
	if approved.ApprovedAt == nil {
		t.Fatal("expected approved_at set")
	}

	result, err := svc.Login(ctx, authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("expected login after approval, got %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected session token")
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, "alice@example.com")
	if _, err := svc.ResolveRegistration(ctx, user.ID, authdomain.ResolveRegistrationRequest{
		Decision: authdomain.DecisionApprove,
	}); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	result, err := svc.Login(ctx, authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}

	session, err := svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session for %s, got %s", user.ID, session.UserID)
	}

	if err := svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("failed to log out: %v", err)
	}
	if _, err := svc.Authenticate(ctx, result.RawToken); !errors.Is(err, authdomain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestDeleteUserSelfDenied(t *testing.T) {
	svc := newTestService(t)

	user := register(t, svc, "alice@example.com")
	if err := svc.DeleteUser(context.Background(), user.ID, user.ID); !errors.Is(err, authdomain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
}
