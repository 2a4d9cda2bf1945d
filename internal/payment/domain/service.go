package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Resolution decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type Service interface {
	Submit(ctx context.Context, userID snowflake.ID, amount int64) (*PaymentRequest, error)
	// Resolve finalizes a pending request. Approval credits the dealer's
	// balance in the same transaction as the status flip; a second
	// resolution fails with ErrAlreadyProcessed and leaves the balance
	// untouched.
	Resolve(ctx context.Context, requestID snowflake.ID, decision string) (*PaymentRequest, error)
	ListAll(ctx context.Context) ([]RequestView, error)
	ListForUser(ctx context.Context, userID snowflake.ID) ([]PaymentRequest, error)
	ListPendingForUser(ctx context.Context, userID snowflake.ID) ([]PaymentRequest, error)
}
