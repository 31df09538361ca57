package request

import (
	"github.com/google/uuid"
)

type AddCartItem struct {
	ItemId uuid.UUID `validate:"required" json:"itemId"`
	// Pointer so an explicit zero is rejected instead of read as absent;
	// nil defaults to one.
	Quantity *int32 `validate:"omitempty,gte=1" json:"quantity"`
}

type UpdateCartItem struct {
	// Pointer so zero and negative values survive decoding; both mean removal.
	Quantity *int32 `validate:"required" json:"quantity"`
}
