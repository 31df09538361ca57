package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/prasastio/marketplace/item/errors"
	"github.com/prasastio/marketplace/item/pkg/request"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFindItemsPagination(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	first, err := svc.FindItems(c, request.FindItems{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, first.Items, 5)
	assert.EqualValues(t, 12, first.Total)

	second, err := svc.FindItems(c, request.FindItems{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)
	assert.EqualValues(t, 12, second.Total)

	third, err := svc.FindItems(c, request.FindItems{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, third.Items, 2)
	assert.EqualValues(t, 12, third.Total)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(append(first.Items, second.Items...), third.Items...) {
		assert.False(t, seen[item.ID], "item %s appeared on more than one page", item.ID)
		seen[item.ID] = true
	}
}

func TestFindItemsPageBeyondEnd(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	page, err := svc.FindItems(c, request.FindItems{Page: 9, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 12, page.Total)
}

func TestPageOffsetClampsToInt32(t *testing.T) {
	assert.EqualValues(t, 0, pageOffset(1, 10))
	assert.EqualValues(t, 45, pageOffset(10, 5))
	assert.EqualValues(t, math.MaxInt32, pageOffset(30_000_000, 100))
}

func TestFindItemsHugePageNumberStaysEmpty(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	// The row offset for this page does not fit an int32.
	page, err := svc.FindItems(c, request.FindItems{Page: 30_000_000, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 12, page.Total)
}

func TestFindItemsFilterByCategory(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	page, err := svc.FindItems(c, request.FindItems{
		Category: strPtr("Electronics"),
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.EqualValues(t, 3, page.Total)
	for _, item := range page.Items {
		assert.Equal(t, "Electronics", item.Category)
	}
}

func TestFindItemsFilterByQuery(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	page, err := svc.FindItems(c, request.FindItems{
		Query: strPtr("book"),
		Page:  1,
		Limit: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestFindItemsFilterByPriceRange(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	page, err := svc.FindItems(c, request.FindItems{
		MinPrice: decPtr("50"),
		MaxPrice: decPtr("150"),
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	for _, item := range page.Items {
		assert.True(t, item.Price.GreaterThanOrEqual(decimal.RequireFromString("50")))
		assert.True(t, item.Price.LessThanOrEqual(decimal.RequireFromString("150")))
	}
}

func TestFindItemByIdNotFound(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.FindItemById(c, uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestInsertItem(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	item, err := svc.InsertItem(c, aliceId, request.CreateItem{
		Title:       "Record Player",
		Description: strPtr("Belt drive, new stylus"),
		Price:       decimal.RequireFromString("95.00"),
		Category:    "Electronics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Record Player", item.Title)
	assert.Equal(t, aliceId, item.UserID)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("95.00")))

	found, err := svc.FindItemById(c, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestUpdateItemPartial(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	updated, err := svc.UpdateItem(c, aliceId, cameraItemId, request.UpdateItem{
		Price: decPtr("99.00"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("99.00")))
	assert.Equal(t, "Vintage Camera", updated.Title)
	assert.Equal(t, "Electronics", updated.Category)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Fully working 35mm film camera", *updated.Description)
}

func TestUpdateItemByNonOwner(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.UpdateItem(c, bobId, cameraItemId, request.UpdateItem{
		Price: decPtr("1.00"),
	})
	assert.ErrorIs(t, err, inErrors.ErrItemForbidden)

	item, err := svc.FindItemById(c, cameraItemId)
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("120.00")))
}

func TestUpdateItemNotFound(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.UpdateItem(c, aliceId, uuid.New(), request.UpdateItem{Price: decPtr("1.00")})
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	removed, err := svc.RemoveItem(c, aliceId, cameraItemId)
	require.NoError(t, err)
	assert.Equal(t, cameraItemId, removed.ID)

	_, err = svc.FindItemById(c, cameraItemId)
	assert.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestRemoveItemByNonOwner(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := svc.RemoveItem(c, bobId, cameraItemId)
	assert.ErrorIs(t, err, inErrors.ErrItemForbidden)

	_, err = svc.FindItemById(c, cameraItemId)
	require.NoError(t, err)
}

func TestFindCategories(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	categories, err := svc.FindCategories(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics", "Fashion", "Home", "Sports"}, categories)
}

func TestFindItemsByUserId(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, svc := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	items, err := svc.FindItemsByUserId(c, aliceId)
	require.NoError(t, err)
	assert.Len(t, items, 6)
	for _, item := range items {
		assert.Equal(t, aliceId, item.UserID)
	}
}
