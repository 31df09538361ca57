package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasastio/marketplace/internal/constants"
	inErrors "github.com/prasastio/marketplace/user/errors"
	"github.com/prasastio/marketplace/user/pkg/request"
)

func TestSignupCreatesUserAndCart(t *testing.T) {
	c := context.Background()
	pool, pgContainer, queries, svc := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	auth, err := svc.Signup(c, request.Signup{
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", auth.User.Email)
	assert.NotEmpty(t, auth.Token)

	cart, err := queries.FindCartByUserId(c, auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, cart.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	_, err := svc.Signup(c, request.Signup{
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Signup(c, request.Signup{
		Email:    "carol@example.com",
		Password: "different-password",
	})
	assert.ErrorIs(t, err, inErrors.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	signedUp, err := svc.Signup(c, request.Signup{
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	auth, err := svc.Login(c, request.Login{
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, auth.User.ID)

	parsed, err := jwt.ParseWithClaims(
		auth.Token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return []byte("test-secret-key"), nil },
		jwt.WithAudience(constants.AudienceUser),
		jwt.WithIssuer(constants.AppMarketplace),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	require.NoError(t, err)
	subject, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID.String(), subject)
}

func TestLoginWrongPassword(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	_, err := svc.Signup(c, request.Signup{
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(c, request.Login{
		Email:    "carol@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, inErrors.ErrPasswordMismatch)
}

func TestLoginUnknownEmail(t *testing.T) {
	c := context.Background()
	pool, pgContainer, _, svc := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	_, err := svc.Login(c, request.Login{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, inErrors.ErrUserNotFound)
}
