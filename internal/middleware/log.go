package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inHttp "github.com/prasastio/marketplace/internal/http"
	"github.com/prasastio/marketplace/internal/log"
)

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(inHttp.HeaderRequestId)
		if requestId == "" {
			requestId = uuid.NewString()
		}

		var buffer bytes.Buffer
		tee := io.TeeReader(r.Body, &buffer)
		requestBody := map[string]interface{}{}
		json.NewDecoder(tee).Decode(&requestBody)
		if requestBody["password"] != nil {
			requestBody["password"] = "***"
		}
		// The decoder stops at the first non-json byte, stitch whatever it
		// consumed back in front of the unread remainder of the body.
		r.Body = io.NopCloser(io.MultiReader(&buffer, r.Body))

		logger := zerolog.Ctx(r.Context()).
			With().
			Str(log.KeyRequestId, requestId).
			Dict("request", zerolog.Dict().
				Str(log.KeyRequestHost, r.Host).
				Str(log.KeyRequestIp, r.RemoteAddr).
				Str(log.KeyRequestMethod, r.Method).
				Str(log.KeyRequestURI, r.RequestURI).
				Any(log.KeyRequestBody, requestBody)).
			Logger()

		c := log.AttachRequestIDToContext(r.Context(), requestId)
		c = logger.WithContext(c)
		logger.Trace().Msg("attached request value to context")

		next.ServeHTTP(w, r.WithContext(c))
	})
}
