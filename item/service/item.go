package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/prasastio/marketplace/internal/log"
	inOtel "github.com/prasastio/marketplace/internal/otel"
	"github.com/prasastio/marketplace/internal/repository"
	"github.com/prasastio/marketplace/item/cache"
	inErrors "github.com/prasastio/marketplace/item/errors"
	"github.com/prasastio/marketplace/item/otel"
	"github.com/prasastio/marketplace/item/pkg/request"
	"github.com/prasastio/marketplace/item/pkg/response"
	"github.com/prasastio/marketplace/item/upload"
)

type ItemService struct {
	queries *repository.Queries
	cache   *redis.Client
	uploads *upload.Store
}

func NewItemService(
	queries *repository.Queries,
	cache *redis.Client,
	uploads *upload.Store,
) *ItemService {
	return &ItemService{queries: queries, cache: cache, uploads: uploads}
}

// FindItems returns one page of the filtered catalog plus the total count of
// the whole filtered set, so the total stays stable across pages.
func (svc *ItemService) FindItems(
	c context.Context,
	param request.FindItems,
) (response.ItemPage, error) {
	c, span := otel.Tracer.Start(c, "ItemService FindItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService FindItems").
		Logger()

	title := pgtype.Text{}
	if param.Query != nil && *param.Query != "" {
		title = pgtype.Text{String: *param.Query, Valid: true}
	}
	category := pgtype.Text{}
	if param.Category != nil && *param.Category != "" {
		category = pgtype.Text{String: *param.Category, Valid: true}
	}
	minPrice := pgtype.Numeric{}
	if param.MinPrice != nil {
		minPrice = numeric(*param.MinPrice)
	}
	maxPrice := pgtype.Numeric{}
	if param.MaxPrice != nil {
		maxPrice = numeric(*param.MaxPrice)
	}

	logger = logger.With().Str(log.KeyProcess, "finding items").Logger()
	logger.Trace().Msg("finding items")
	span.AddEvent("finding items")
	rows, err := svc.queries.FindItems(c, repository.FindItemsParams{
		Title:    title,
		Category: category,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Limit:    int32(param.Limit),
		Offset:   pageOffset(param.Page, param.Limit),
	})
	if err != nil {
		err = fmt.Errorf("failed finding items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ItemPage{}, err
	}
	span.AddEvent("found items")
	logger.Info().Msgf("found %d items", len(rows))

	logger = logger.With().Str(log.KeyProcess, "counting items").Logger()
	logger.Trace().Msg("counting items")
	span.AddEvent("counting items")
	total, err := svc.queries.CountItems(c, repository.CountItemsParams{
		Title:    title,
		Category: category,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		err = fmt.Errorf("failed counting items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ItemPage{}, err
	}
	span.AddEvent("counted items")
	logger.Info().Msgf("counted %d items", total)

	items := make([]response.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Response())
	}

	return response.ItemPage{Items: items, Total: total}, nil
}

func (svc *ItemService) FindItemById(
	c context.Context,
	id uuid.UUID,
) (item response.Item, err error) {
	c, span := otel.Tracer.Start(c, "ItemService FindItemById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyItems, id.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService FindItemById").
		Str(log.KeyItemId, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding item in cache").Logger()
	logger.Trace().Msg("finding item in cache")
	jsonCache, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err != nil || jsonCache == "" {
		logger.Info().Msg("item not in cache")

		logger = logger.With().Str(log.KeyProcess, "finding item in database").Logger()
		logger.Trace().Msg("finding item in database")
		span.AddEvent("finding item in database")
		row, err := svc.queries.FindItemById(c, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrItemNotFound
			} else {
				err = fmt.Errorf("failed finding item in database with error=%w", err)
			}
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Item{}, err
		}
		span.AddEvent("found item in database")
		logger.Info().Msg("found item in database")

		itemResponse := row.Response()

		logger = logger.With().Str(log.KeyProcess, "inserting item to cache").Logger()
		logger.Trace().Msg("inserting item to cache")
		err = svc.cache.JSONSet(c, cacheKey, "$", itemResponse).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting item to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return itemResponse, nil
		}
		logger.Info().Msg("inserted item to cache")

		return itemResponse, nil
	}
	logger.Debug().Msg("found item in cache")

	err = json.Unmarshal([]byte(jsonCache), &item)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cached item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		svc.cache.JSONDel(c, cacheKey, "$")
		c = logger.WithContext(c)
		return svc.FindItemById(c, id)
	}

	return item, nil
}

func (svc *ItemService) FindItemsByUserId(
	c context.Context,
	userId uuid.UUID,
) ([]response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService FindItemsByUserId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService FindItemsByUserId").
		Str(log.KeyUserId, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding items by user").Logger()
	logger.Trace().Msg("finding items by user")
	span.AddEvent("finding items by user")
	rows, err := svc.queries.FindItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding items by user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found items by user")
	logger.Info().Msgf("found %d items", len(rows))

	items := make([]response.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Response())
	}
	return items, nil
}

func (svc *ItemService) FindCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "ItemService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService FindCategories").
		Str(log.KeyProcess, "finding categories").
		Logger()

	logger.Trace().Msg("finding categories")
	span.AddEvent("finding categories")
	categories, err := svc.queries.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found categories")
	logger.Info().Msgf("found %d categories", len(categories))

	return categories, nil
}

func (svc *ItemService) InsertItem(
	c context.Context,
	userId uuid.UUID,
	param request.CreateItem,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService InsertItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService InsertItem").
		Str(log.KeyUserId, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting item").Logger()
	logger.Trace().Msg("inserting item")
	span.AddEvent("inserting item")
	row, err := svc.queries.InsertItem(c, repository.InsertItemParams{
		Title:       param.Title,
		Description: text(param.Description),
		Price:       numeric(param.Price),
		Category:    param.Category,
		ImageUrl:    text(param.ImageUrl),
		UserID:      userId,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	span.AddEvent("inserted item")
	logger = logger.With().Str(log.KeyItemId, row.ID.String()).Logger()
	logger.Info().Msg("inserted item")

	return row.Response(), nil
}

// UpdateItem applies a partial update to an item owned by userId. Absent
// fields keep their stored value; a new image replaces the old stored file.
func (svc *ItemService) UpdateItem(
	c context.Context,
	userId uuid.UUID,
	id uuid.UUID,
	param request.UpdateItem,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService UpdateItem").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyItemId, id.String()).
		Logger()

	c = logger.WithContext(c)
	existing, err := svc.ownedItem(c, span, userId, id)
	if err != nil {
		return response.Item{}, err
	}

	title := pgtype.Text{}
	if param.Title != nil {
		title = pgtype.Text{String: *param.Title, Valid: true}
	}
	price := pgtype.Numeric{}
	if param.Price != nil {
		price = numeric(*param.Price)
	}
	category := pgtype.Text{}
	if param.Category != nil {
		category = pgtype.Text{String: *param.Category, Valid: true}
	}

	logger = logger.With().Str(log.KeyProcess, "updating item").Logger()
	logger.Trace().Msg("updating item")
	span.AddEvent("updating item")
	row, err := svc.queries.UpdateItem(c, repository.UpdateItemParams{
		ID:          id,
		UserID:      userId,
		Title:       title,
		Description: text(param.Description),
		Price:       price,
		Category:    category,
		ImageUrl:    text(param.ImageUrl),
	})
	if err != nil {
		err = fmt.Errorf("failed updating item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	span.AddEvent("updated item")
	logger.Info().Msg("updated item")

	if param.ImageUrl != nil && existing.ImageUrl != nil {
		svc.uploads.Remove(logger, *existing.ImageUrl)
	}
	svc.invalidateItem(c, span, id)

	return row.Response(), nil
}

// RemoveItem deletes an item owned by userId. Cart lines referencing the
// item go with it via the store's cascade.
func (svc *ItemService) RemoveItem(
	c context.Context,
	userId uuid.UUID,
	id uuid.UUID,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemService RemoveItem").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyItemId, id.String()).
		Logger()

	c = logger.WithContext(c)
	existing, err := svc.ownedItem(c, span, userId, id)
	if err != nil {
		return response.Item{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "deleting item").Logger()
	logger.Trace().Msg("deleting item")
	span.AddEvent("deleting item")
	row, err := svc.queries.DeleteItemByIdAndUserId(c, repository.DeleteItemByIdAndUserIdParams{
		ID:     id,
		UserID: userId,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrItemNotFound
		} else {
			err = fmt.Errorf("failed deleting item with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	span.AddEvent("deleted item")
	logger.Info().Msg("deleted item")

	if existing.ImageUrl != nil {
		svc.uploads.Remove(logger, *existing.ImageUrl)
	}
	svc.invalidateItem(c, span, id)

	return row.Response(), nil
}

// ownedItem loads the item and gates on ownership: a missing item reads as
// not found, somebody else's item as forbidden.
func (svc *ItemService) ownedItem(
	c context.Context,
	span trace.Span,
	userId uuid.UUID,
	id uuid.UUID,
) (response.Item, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "checking item ownership").
		Logger()

	logger.Trace().Msg("checking item ownership")
	row, err := svc.queries.FindItemById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrItemNotFound
		} else {
			err = fmt.Errorf("failed finding item with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	if row.UserID != userId {
		err = inErrors.ErrItemForbidden
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("checked item ownership")

	return row.Response(), nil
}

func (svc *ItemService) invalidateItem(c context.Context, span trace.Span, id uuid.UUID) {
	cacheKey := fmt.Sprintf(cache.KeyItems, id.String())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "invalidating cached item").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Trace().Msg("invalidating cached item")
	err := svc.cache.JSONDel(c, cacheKey, "$").Err()
	if err != nil {
		err = fmt.Errorf("failed invalidating cached item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("invalidated cached item")
}

func text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		NaN:              false,
		Valid:            true,
	}
}

// pageOffset clamps the row offset so absurd page numbers stay a valid
// OFFSET and read as an empty page instead of failing the query.
func pageOffset(page, limit int) int32 {
	offset := int64(page-1) * int64(limit)
	if offset > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(offset)
}
