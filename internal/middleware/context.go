package middleware

import (
	"context"

	"github.com/google/uuid"

	inErrors "github.com/prasastio/marketplace/internal/errors"
)

type userIdKey struct{}

func AttachUserIdToContext(c context.Context, id uuid.UUID) context.Context {
	return context.WithValue(c, userIdKey{}, id)
}

func UserIdFromContext(c context.Context) (uuid.UUID, error) {
	id, ok := c.Value(userIdKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, inErrors.ErrEmptySubject
	}
	return id, nil
}
