package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/prasastio/marketplace/cart/cache"
	inErrors "github.com/prasastio/marketplace/cart/errors"
	"github.com/prasastio/marketplace/cart/otel"
	"github.com/prasastio/marketplace/cart/pkg/request"
	"github.com/prasastio/marketplace/cart/pkg/response"
	"github.com/prasastio/marketplace/internal/log"
	inOtel "github.com/prasastio/marketplace/internal/otel"
	"github.com/prasastio/marketplace/internal/repository"
)

const pgForeignKeyViolation = "23503"

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) *CartService {
	return &CartService{pool: pool, queries: queries, cache: cache}
}

// FindCartByUserId returns the user's cart with its lines joined to current
// catalog data, creating an empty cart first if the user has none.
func (svc *CartService) FindCartByUserId(
	c context.Context,
	userId uuid.UUID,
) (cart response.Cart, err error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartByUserId")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyCartsByUserId, userId.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCartByUserId").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	logger.Trace().Msg("finding cart in cache")
	jsonCache, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err != nil || jsonCache == "" {
		logger.Info().Msg("cart not in cache")

		logger = logger.With().Str(log.KeyProcess, "upserting cart").Logger()
		logger.Trace().Msg("upserting cart")
		span.AddEvent("upserting cart")
		_, err = svc.queries.UpsertCart(c, userId)
		if err != nil {
			err = fmt.Errorf("failed upserting cart with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		span.AddEvent("upserted cart")
		logger.Info().Msg("upserted cart")

		logger = logger.With().Str(log.KeyProcess, "finding cart in database").Logger()
		logger.Trace().Msg("finding cart in database")
		span.AddEvent("finding cart in database")
		row, err := svc.queries.FindCartByUserId(c, userId)
		if err != nil {
			err = fmt.Errorf("failed finding cart in database with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		span.AddEvent("found cart in database")
		logger.Info().Msg("found cart in database")

		logger = logger.With().Str(log.KeyProcess, "mapping cart").Logger()
		cartResponse, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping cart with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}

		logger = logger.With().Str(log.KeyProcess, "inserting cart to cache").Logger()
		logger.Trace().Msg("inserting cart to cache")
		err = svc.cache.JSONSet(c, cacheKey, "$", cartResponse).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting cart to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return cartResponse, nil
		}
		// Catalog edits by other users do not invalidate this key, the ttl
		// bounds how long a stale price can be served.
		svc.cache.Expire(c, cacheKey, time.Minute)
		logger.Info().Msg("inserted cart to cache")

		return cartResponse, nil
	}
	logger.Debug().Msg("found cart in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cached cart").Logger()
	err = json.Unmarshal([]byte(jsonCache), &cart)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cached cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		svc.cache.JSONDel(c, cacheKey, "$")
		c = logger.WithContext(c)
		return svc.FindCartByUserId(c, userId)
	}
	logger.Info().Msg("unmarshaled cached cart")

	return cart, nil
}

// AddCartItem accumulates quantity onto the existing line for the item or
// creates the line, as a single atomic statement on the (cart, item) key.
func (svc *CartService) AddCartItem(
	c context.Context,
	userId uuid.UUID,
	param request.AddCartItem,
) (response.CartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	quantity := int32(1)
	if param.Quantity != nil {
		quantity = *param.Quantity
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddCartItem").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyItemId, param.ItemId.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "upserting cart").Logger()
	logger.Trace().Msg("upserting cart")
	span.AddEvent("upserting cart")
	cart, err := svc.queries.UpsertCart(c, userId)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	logger = logger.With().Str(log.KeyCartId, cart.ID.String()).Logger()
	span.AddEvent("upserted cart")
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(log.KeyProcess, "upserting cart item").Logger()
	logger.Trace().Msg("upserting cart item")
	span.AddEvent("upserting cart item")
	line, err := svc.queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		CartID:   cart.ID,
		ItemID:   param.ItemId,
		Quantity: quantity,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			err = fmt.Errorf(
				"failed upserting cart item with error=%w",
				errors.Join(err, inErrors.ErrItemNotFound),
			)
		} else {
			err = fmt.Errorf("failed upserting cart item with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	span.AddEvent("upserted cart item")
	logger.Info().Msg("upserted cart item")

	c = logger.WithContext(c)
	svc.invalidateCart(c, span, userId)

	return line.Response(), nil
}

// UpdateCartItem sets the line quantity to the given value. A quantity of
// zero or less removes the line; removed reports which branch was taken.
func (svc *CartService) UpdateCartItem(
	c context.Context,
	userId uuid.UUID,
	cartItemId uuid.UUID,
	quantity int32,
) (line response.CartLine, removed bool, err error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateCartItem").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyCartItemId, cartItemId.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	if quantity <= 0 {
		logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
		logger.Info().Msg("quantity is zero or below, removing cart item")
		c = logger.WithContext(c)
		line, err := svc.RemoveCartItem(c, userId, cartItemId)
		return line, true, err
	}

	logger = logger.With().Str(log.KeyProcess, "setting cart item quantity").Logger()
	logger.Trace().Msg("setting cart item quantity")
	span.AddEvent("setting cart item quantity")
	updated, err := svc.queries.SetCartItemQuantity(c, repository.SetCartItemQuantityParams{
		ID:       cartItemId,
		UserID:   userId,
		Quantity: quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		} else {
			err = fmt.Errorf("failed setting cart item quantity with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, false, err
	}
	span.AddEvent("set cart item quantity")
	logger.Info().Msg("set cart item quantity")

	c = logger.WithContext(c)
	svc.invalidateCart(c, span, userId)

	return updated.Response(), false, nil
}

// RemoveCartItem deletes the line. A line that does not exist or belongs to
// another user's cart yields ErrCartItemNotFound either way.
func (svc *CartService) RemoveCartItem(
	c context.Context,
	userId uuid.UUID,
	cartItemId uuid.UUID,
) (response.CartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveCartItem").
		Str(log.KeyUserId, userId.String()).
		Str(log.KeyCartItemId, cartItemId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting cart item").Logger()
	logger.Trace().Msg("deleting cart item")
	span.AddEvent("deleting cart item")
	deleted, err := svc.queries.DeleteCartItem(c, repository.DeleteCartItemParams{
		ID:     cartItemId,
		UserID: userId,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		} else {
			err = fmt.Errorf("failed deleting cart item with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	span.AddEvent("deleted cart item")
	logger.Info().Msg("deleted cart item")

	c = logger.WithContext(c)
	svc.invalidateCart(c, span, userId)

	return deleted.Response(), nil
}

func (svc *CartService) invalidateCart(c context.Context, span trace.Span, userId uuid.UUID) {
	cacheKey := fmt.Sprintf(cache.KeyCartsByUserId, userId.String())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "invalidating cached cart").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Trace().Msg("invalidating cached cart")
	err := svc.cache.JSONDel(c, cacheKey, "$").Err()
	if err != nil {
		err = fmt.Errorf("failed invalidating cached cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("invalidated cached cart")
}
