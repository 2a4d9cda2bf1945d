package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Submit prices the selected options, verifies the dealer's balance
	// covers the cost, stores the upload and debits the cost. Row,
	// debit and balance check share one transaction; on insufficient
	// balance nothing is persisted.
	Submit(ctx context.Context, userID snowflake.ID, req SubmitRequest) (*FileRequest, error)
	AdvanceStatus(ctx context.Context, fileID snowflake.ID, req AdvanceStatusRequest) (*FileRequest, error)
	AttachResult(ctx context.Context, fileID snowflake.ID, fileName string, file io.Reader) (*FileRequest, error)
	ListAll(ctx context.Context) ([]RequestView, error)
	ListForUser(ctx context.Context, userID snowflake.ID) ([]FileRequest, error)
	// Get enforces ownership: a dealer reading another dealer's request
	// gets ErrForbidden, not ErrNotFound.
	Get(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (*FileRequest, error)
	OpenOriginal(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (io.ReadCloser, string, error)
	OpenResult(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (io.ReadCloser, string, error)
}

type SubmitRequest struct {
	VehicleMake  string
	VehicleModel string
	EngineCode   string
	ECUType      string
	Options      []string
	FileName     string
	File         io.Reader
}

type AdvanceStatusRequest struct {
	Status     string
	AdminNotes *string
}
