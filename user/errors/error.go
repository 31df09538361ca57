package errors

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrEmailRegistered  = errors.New("email already registered")
)
