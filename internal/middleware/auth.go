package middleware

import (
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthRequired resolves the Authorization header to an identity and stores it
// for the rest of the chain. Both "Bearer <token>" and a bare token are
// accepted.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			metrics.RecordAuthRejection("missing_token")
			return apperrors.New(apperrors.Unauthorized, "Authorization header is required")
		}

		identity, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.Unauthorized {
				metrics.RecordAuthRejection("invalid_token")
			}
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireOwnership allows the request only when the authenticated caller is
// the user named by the route parameter param.
func RequireOwnership(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := services.RequireOwnership(IdentityFrom(c), c.Params(param)); err != nil {
			metrics.RecordAuthRejection("not_owner")
			return err
		}
		return c.Next()
	}
}

// RequireRole allows the request only when the caller currently holds role.
func RequireRole(authService *services.AuthService, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authService.RequireRole(c.UserContext(), IdentityFrom(c), role); err != nil {
			metrics.RecordAuthRejection("missing_role")
			return err
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity set by AuthRequired, or nil.
func IdentityFrom(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(identityKey).(*services.Identity)
	return identity
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
