package errors

import (
	"errors"
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrTokenInvalid = errors.New("invalid token")
	ErrEmptySubject = errors.New("missing subject")
)
