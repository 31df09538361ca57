package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/prasastio/marketplace/cart/errors"
	"github.com/prasastio/marketplace/cart/pkg/request"
	"github.com/prasastio/marketplace/internal/repository"
)

func TestFindCartCreatesEmptyCart(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	first, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	assert.Equal(t, aliceId, first.UserID)
	assert.Empty(t, first.CartItems)
	assert.True(t, first.Total.IsZero())

	second, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAddCartItemAccumulatesQuantity(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	first, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(2)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.Quantity)

	second, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 5, second.Quantity)

	cart, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.EqualValues(t, 5, cart.CartItems[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("600.00")))
}

func TestAddCartItemDefaultsToOne(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	line, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: keyboardItemId})
	require.NoError(t, err)
	assert.EqualValues(t, 1, line.Quantity)
}

func TestAddCartItemUnknownItem(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: uuid.New(), Quantity: qtyPtr(1)})
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)

	cart, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
}

func TestUpdateCartItemSetsAbsoluteQuantity(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	added, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(5)})
	require.NoError(t, err)

	updated, removed, err := svc.UpdateCartItem(c, aliceId, added.ID, 3)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.EqualValues(t, 3, updated.Quantity)

	cart, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.EqualValues(t, 3, cart.CartItems[0].Quantity)
}

func TestUpdateCartItemZeroRemovesLine(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	added, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(2)})
	require.NoError(t, err)

	_, removed, err := svc.UpdateCartItem(c, aliceId, added.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)

	cart, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
}

func TestUpdateCartItemNegativeRemovesLine(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	added, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(2)})
	require.NoError(t, err)

	_, removed, err := svc.UpdateCartItem(c, aliceId, added.ID, -4)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestCartLineOfAnotherUserReadsAsNotFound(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	added, err := svc.AddCartItem(c, aliceId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(2)})
	require.NoError(t, err)

	_, _, err = svc.UpdateCartItem(c, bobId, added.ID, 9)
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)

	_, err = svc.RemoveCartItem(c, bobId, added.ID)
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)

	cart, err := svc.FindCartByUserId(c, aliceId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.EqualValues(t, 2, cart.CartItems[0].Quantity)
}

func TestRemoveMissingCartLine(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.RemoveCartItem(c, aliceId, uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestItemDeletionCascadesIntoCarts(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.AddCartItem(c, bobId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(1)})
	require.NoError(t, err)
	_, err = svc.AddCartItem(c, bobId, request.AddCartItem{ItemId: keyboardItemId, Quantity: qtyPtr(1)})
	require.NoError(t, err)

	_, err = queries.DeleteItemByIdAndUserId(c, repository.DeleteItemByIdAndUserIdParams{
		ID:     cameraItemId,
		UserID: aliceId,
	})
	require.NoError(t, err)

	cart, err := svc.FindCartByUserId(c, bobId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, keyboardItemId, cart.CartItems[0].ItemId)
}

func TestCartTotalFollowsCurrentPrice(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.AddCartItem(c, bobId, request.AddCartItem{ItemId: cameraItemId, Quantity: qtyPtr(2)})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("100.00")
	_, err = queries.UpdateItem(c, repository.UpdateItemParams{
		ID:     cameraItemId,
		UserID: aliceId,
		Price:  numericFromDecimal(newPrice),
	})
	require.NoError(t, err)

	// The owner-side invalidation does not cover catalog edits, drop the
	// cached cart so the read reflects the new price immediately.
	redisClient.JSONDel(c, "carts:user:"+bobId.String(), "$")

	cart, err := svc.FindCartByUserId(c, bobId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.True(t, cart.CartItems[0].Price.Equal(newPrice))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("200.00")))
}
