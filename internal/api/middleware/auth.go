package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// Auth creates an authentication middleware using a static API key.
// The key is accepted from the X-API-Key header or as a Bearer token;
// the query parameter form exists for the websocket endpoint, where
// browsers cannot set headers.
func Auth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := extractAPIKey(c)
		if provided == "" {
			return domain.ErrUnauthorized
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

func extractAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}

	auth := c.Get("Authorization")
	if auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	return c.Query("api_key")
}
