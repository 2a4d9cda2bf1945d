package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	CurrentUser(ctx context.Context, userID snowflake.ID) (*User, error)
	UpdateProfile(ctx context.Context, userID snowflake.ID, req UpdateProfileRequest) (*User, error)
	ListDealersByStatus(ctx context.Context, status string) ([]User, error)
	ResolveRegistration(ctx context.Context, userID snowflake.ID, req ResolveRegistrationRequest) (*User, error)
	UpdateUser(ctx context.Context, userID snowflake.ID, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, actorID, userID snowflake.ID) error
}

type RegisterRequest struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
	Phone       string
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}

type UpdateProfileRequest struct {
	Name            *string
	CompanyName     *string
	Phone           *string
	CurrentPassword string
	NewPassword     string
}

// Registration decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ResolveRegistrationRequest struct {
	Decision string
	Reason   string
}

type UpdateUserRequest struct {
	Name        *string
	CompanyName *string
	Phone       *string
	Role        *string
}
