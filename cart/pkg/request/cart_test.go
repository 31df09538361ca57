package request

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/prasastio/marketplace/internal/validate"
)

func TestAddCartItemRejectsExplicitZeroQuantity(t *testing.T) {
	zero := int32(0)
	err := validate.New().StructCtx(context.Background(), AddCartItem{
		ItemId:   uuid.New(),
		Quantity: &zero,
	})
	assert.Error(t, err)
}

func TestAddCartItemAllowsAbsentQuantity(t *testing.T) {
	err := validate.New().StructCtx(context.Background(), AddCartItem{
		ItemId: uuid.New(),
	})
	assert.NoError(t, err)
}
