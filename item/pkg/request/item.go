package request

import (
	"github.com/shopspring/decimal"
)

type CreateItem struct {
	Title       string          `validate:"required"       json:"title"`
	Description *string         `validate:"-"              json:"description"`
	Price       decimal.Decimal `validate:"required,gt=0"  json:"price"`
	Category    string          `validate:"required"       json:"category"`
	ImageUrl    *string         `validate:"-"              json:"imageUrl"`
}

type UpdateItem struct {
	Title       *string          `validate:"omitempty,min=1" json:"title"`
	Description *string          `validate:"-"               json:"description"`
	Price       *decimal.Decimal `validate:"omitempty,gt=0"  json:"price"`
	Category    *string          `validate:"omitempty,min=1" json:"category"`
	ImageUrl    *string          `validate:"-"               json:"imageUrl"`
}

type FindItems struct {
	Query    *string          `validate:"-"                json:"q"`
	Category *string          `validate:"-"                json:"category"`
	MinPrice *decimal.Decimal `validate:"omitempty,gte=0"  json:"min"`
	MaxPrice *decimal.Decimal `validate:"omitempty,gte=0"  json:"max"`
	Page     int              `validate:"gte=1"            json:"page"`
	Limit    int              `validate:"gte=1,lte=100"    json:"limit"`
}
