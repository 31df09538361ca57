package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	inErrors "github.com/prasastio/marketplace/user/errors"
)

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	unknownEmail := fmt.Errorf(
		"failed logging in user with error=%w",
		errors.Join(pgx.ErrNoRows, inErrors.ErrUserNotFound),
	)
	wrongPassword := fmt.Errorf(
		"failed logging in user with error=%w",
		errors.Join(bcrypt.ErrMismatchedHashAndPassword, inErrors.ErrPasswordMismatch),
	)

	assert.Equal(t, http.StatusUnauthorized, errorStatusCode(unknownEmail))
	assert.Equal(t, http.StatusUnauthorized, errorStatusCode(wrongPassword))
	assert.Equal(t, "invalid credentials", errorMessage(unknownEmail))
	assert.Equal(t, errorMessage(unknownEmail), errorMessage(wrongPassword))
}

func TestDuplicateEmailMessageHidesDriverError(t *testing.T) {
	err := fmt.Errorf(
		"failed inserting user with error=%w",
		errors.Join(
			errors.New(`duplicate key value violates unique constraint "users_email_key"`),
			inErrors.ErrEmailRegistered,
		),
	)

	assert.Equal(t, http.StatusConflict, errorStatusCode(err))
	assert.Equal(t, "email already registered", errorMessage(err))
}
