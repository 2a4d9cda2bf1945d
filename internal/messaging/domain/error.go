package domain

import "errors"

var (
	ErrEmptyBody   = errors.New("message body is empty")
	ErrFileMissing = errors.New("file request not found")
	ErrForbidden   = errors.New("thread belongs to another dealer")
)
