package errors

import "errors"

var (
	// ErrCartItemNotFound covers both a missing line and a line owned by a
	// different user, so callers cannot probe other carts for existence.
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrItemNotFound     = errors.New("item not found")
)
