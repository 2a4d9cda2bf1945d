package domain

import "errors"

var (
	ErrNotFound      = errors.New("file request not found")
	ErrForbidden     = errors.New("file request belongs to another dealer")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("unknown status")
	ErrNoResult      = errors.New("no result file attached")
)
