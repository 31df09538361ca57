package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID       uuid.UUID       `json:"id"`
	ItemId   uuid.UUID       `json:"itemId"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	ImageUrl *string         `json:"imageUrl"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	CartItems []CartItem      `json:"cartItems"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CartLine struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cartId"`
	ItemID    uuid.UUID `json:"itemId"`
	Quantity  int32     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}
