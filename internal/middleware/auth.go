package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

const identityKey = "identity"

// TokenVerifier resolves a bearer token to the caller's identity
type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// AccessGate guards routes with session tokens and role permissions
type AccessGate struct {
	verifier TokenVerifier
}

func NewAccessGate(verifier TokenVerifier) *AccessGate {
	return &AccessGate{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token
func (g *AccessGate) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		identity, err := g.verifier.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// OptionalAuth resolves the PUBLIC identity when no token is sent. A token
// that is sent must still be valid.
func (g *AccessGate) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			c.Locals(identityKey, models.PublicIdentity())
			return c.Next()
		}

		identity, err := g.verifier.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole allows only the listed roles. Must run after an auth handler.
func (g *AccessGate) RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return forbidden(c)
	}
}

// RequirePermission allows roles that hold perm
func (g *AccessGate) RequirePermission(perm models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IdentityFrom(c).Role.HasPermission(perm) {
			return forbidden(c)
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by the gate, or PUBLIC
func IdentityFrom(c *fiber.Ctx) *models.Identity {
	if identity, ok := c.Locals(identityKey).(*models.Identity); ok && identity != nil {
		return identity
	}
	return models.PublicIdentity()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Insufficient permissions",
	})
}
