package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// OriginPolicy decides which browser origins may call the API
type OriginPolicy struct {
	allowed map[string]bool
	suffix  string
}

func NewOriginPolicy(origins []string, previewSuffix string) *OriginPolicy {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = true
		}
	}
	return &OriginPolicy{allowed: allowed, suffix: previewSuffix}
}

// Allowed reports whether origin is configured or a preview deployment
func (p *OriginPolicy) Allowed(origin string) bool {
	if p.allowed[origin] {
		return true
	}
	return p.suffix != "" && strings.HasSuffix(origin, p.suffix)
}

// Guard rejects requests from unknown origins. Requests without an Origin
// header are not browser cross-origin calls and pass through.
func (p *OriginPolicy) Guard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || p.Allowed(origin) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Origin not allowed",
		})
	}
}

// CORS emits the CORS response headers for allowed origins
func (p *OriginPolicy) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOriginsFunc: p.Allowed,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	})
}
