package authorization

import "errors"

var (
	ErrInvalidActor  = errors.New("authorization: invalid actor")
	ErrInvalidObject = errors.New("authorization: invalid object")
	ErrInvalidAction = errors.New("authorization: invalid action")
	ErrForbidden     = errors.New("authorization: forbidden")
)
