package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postforge/configs"
)

type TriggerMiddleware struct {
	cfg config.Config
}

func NewTriggerMiddleware(cfg config.Config) *TriggerMiddleware {
	return &TriggerMiddleware{cfg: cfg}
}

// TriggerMiddleware guards the pipeline trigger endpoints with the shared
// bearer token.
func (m *TriggerMiddleware) TriggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.TriggerToken == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Trigger token is not configured",
			})
		}

		header := c.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.cfg.TriggerToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid trigger token",
			})
		}
		return c.Next()
	}
}
