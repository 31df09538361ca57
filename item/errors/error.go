package errors

import "errors"

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemForbidden = errors.New("item is owned by another user")
)
