package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasastio/marketplace/internal/config"
	"github.com/prasastio/marketplace/internal/constants"
	"github.com/prasastio/marketplace/internal/log"
	inOtel "github.com/prasastio/marketplace/internal/otel"
	"github.com/prasastio/marketplace/internal/repository"
	inErrors "github.com/prasastio/marketplace/user/errors"
	"github.com/prasastio/marketplace/user/otel"
	"github.com/prasastio/marketplace/user/pkg/request"
	"github.com/prasastio/marketplace/user/pkg/response"
)

const pgUniqueViolation = "23505"

type UserService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	config  config.Application
}

func NewUserService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	config config.Application,
) *UserService {
	return &UserService{pool: pool, queries: queries, config: config}
}

// Signup creates the user together with their empty cart in one transaction
// so every user has exactly one cart from the start.
func (svc *UserService) Signup(
	c context.Context,
	param request.Signup,
) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Signup")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Signup").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	logger.Info().Msg("initialized transaction")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Trace().Msg("inserting user")
	span.AddEvent("inserting user")
	user, err := svc.queries.WithTx(tx).InsertUser(c, repository.InsertUserParams{
		Email:    param.Email,
		Password: string(hashed),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			err = inErrors.ErrEmailRegistered
		} else {
			err = fmt.Errorf("failed inserting user with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	span.AddEvent("inserted user")
	logger = logger.With().Str(log.KeyUserId, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	logger = logger.With().Str(log.KeyProcess, "inserting cart").Logger()
	logger.Trace().Msg("inserting cart")
	span.AddEvent("inserting cart")
	_, err = svc.queries.WithTx(tx).UpsertCart(c, user.ID)
	if err != nil {
		err = fmt.Errorf("failed inserting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	span.AddEvent("inserted cart")
	logger.Info().Msg("inserted cart")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("committed transaction")

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Trace().Msg("signing token")
	c = logger.WithContext(c)
	token, err := svc.signToken(c, user)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("signed token")

	return response.Auth{Token: token, User: user.Response()}, nil
}

// Login verifies credentials. A missing user and a wrong password surface the
// same way to the controller so neither can be told apart by a caller.
func (svc *UserService) Login(
	c context.Context,
	param request.Login,
) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user by email").Logger()
	logger.Trace().Msg("finding user by email")
	span.AddEvent("finding user by email")
	user, err := svc.queries.FindUserByEmail(c, param.Email)
	if err != nil {
		err = errors.Join(err, inErrors.ErrUserNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	span.AddEvent("found user by email")
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		err = errors.Join(err, inErrors.ErrPasswordMismatch)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Trace().Msg("signing token")
	c = logger.WithContext(c)
	token, err := svc.signToken(c, user)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("signed token")

	return response.Auth{Token: token, User: user.Response()}, nil
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (svc *UserService) signToken(c context.Context, user repository.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Audience:  jwt.ClaimStrings{constants.AudienceUser},
				Issuer:    constants.AppMarketplace,
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Email: user.Email,
		},
	)
	return token.SignedString([]byte(svc.config.SecretKey))
}
