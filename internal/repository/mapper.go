package repository

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartResponse "github.com/prasastio/marketplace/cart/pkg/response"
	itemResponse "github.com/prasastio/marketplace/item/pkg/response"
	userResponse "github.com/prasastio/marketplace/user/pkg/response"
)

func (u User) Response() userResponse.User {
	return userResponse.User{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Time,
	}
}

func (i Item) Response() itemResponse.Item {
	var description *string
	if i.Description.Valid {
		description = &i.Description.String
	}
	var imageUrl *string
	if i.ImageUrl.Valid {
		imageUrl = &i.ImageUrl.String
	}
	return itemResponse.Item{
		ID:          i.ID,
		Title:       i.Title,
		Description: description,
		Price:       decimal.NewFromBigInt(i.Price.Int, i.Price.Exp),
		Category:    i.Category,
		ImageUrl:    imageUrl,
		UserID:      i.UserID,
		CreatedAt:   i.CreatedAt.Time,
		UpdatedAt:   i.UpdatedAt.Time,
	}
}

func (ci CartItem) Response() cartResponse.CartLine {
	return cartResponse.CartLine{
		ID:        ci.ID,
		CartID:    ci.CartID,
		ItemID:    ci.ItemID,
		Quantity:  ci.Quantity,
		UpdatedAt: ci.UpdatedAt.Time,
	}
}

// Response unmarshals the aggregated line json and derives subtotals and the
// cart total from the current catalog price of each item.
func (r FindCartByUserIdRow) Response() (cartResponse.Cart, error) {
	cartItems := []cartResponse.CartItem{}
	err := json.Unmarshal(r.CartItems, &cartItems)
	if err != nil {
		return cartResponse.Cart{}, err
	}
	total := decimal.Zero
	for i, item := range cartItems {
		cartItems[i].Subtotal = item.Price.Mul(decimal.NewFromInt32(item.Quantity))
		total = total.Add(cartItems[i].Subtotal)
	}
	return cartResponse.Cart{
		ID:        r.ID,
		UserID:    r.UserID,
		CartItems: cartItems,
		Total:     total,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}, nil
}
