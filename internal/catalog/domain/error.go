package domain

import "errors"

var (
	ErrNotFound      = errors.New("service not found")
	ErrServiceExists = errors.New("service already exists")
	ErrInvalidInput  = errors.New("invalid input")
)
