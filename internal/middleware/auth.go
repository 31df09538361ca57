package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prasastio/marketplace/internal/config"
	"github.com/prasastio/marketplace/internal/constants"
	inErrors "github.com/prasastio/marketplace/internal/errors"
	inHttp "github.com/prasastio/marketplace/internal/http"
	"github.com/prasastio/marketplace/internal/log"
)

func Auth(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
				logger.Error().
					Err(inErrors.ErrEmptyAuth).
					Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			token := authorization[len("bearer "):]
			claims := jwt.RegisteredClaims{}
			jwtToken, err := jwt.ParseWithClaims(
				token,
				&claims,
				func(t *jwt.Token) (interface{}, error) {
					return []byte(cfg.SecretKey), nil
				},
				jwt.WithAudience(constants.AudienceUser),
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
				jwt.WithExpirationRequired(),
				jwt.WithIssuedAt(),
				jwt.WithIssuer(constants.AppMarketplace),
			)
			if err != nil || !jwtToken.Valid {
				err = fmt.Errorf("failed parsing token with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			userId, err := uuid.Parse(claims.Subject)
			if err != nil {
				err = fmt.Errorf("failed parsing token subject with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			logger = logger.With().Str(log.KeyUserId, userId.String()).Logger()
			c = logger.WithContext(r.Context())
			c = AttachUserIdToContext(c, userId)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
