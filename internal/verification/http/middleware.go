package http

import (
	"log/slog"
	"strings"

	"github.com/allisson/go-pwdhash"
	"github.com/gin-gonic/gin"

	apperrors "github.com/pensionseva/eisgateway/internal/errors"
	"github.com/pensionseva/eisgateway/internal/httputil"
)

// APIKeyMiddleware authenticates requests via a Bearer API key in the
// Authorization header, verified against the configured Argon2id hash.
//
// A single shared key suits this service: its only clients are the pension
// portal's own backends, and the hash in config means the plain key is never
// stored server-side.
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Key not matching the configured hash → 401 Unauthorized
func APIKeyMiddleware(apiKeyHash string, logger *slog.Logger) gin.HandlerFunc {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		// Only possible with an invalid policy.
		panic(err)
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		apiKey := authHeader[len(bearerPrefix):]
		if apiKey == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ok, err := hasher.Verify([]byte(apiKey), apiKeyHash)
		if err != nil || !ok {
			logger.Debug("authentication failed: api key mismatch")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
