package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the principal holds at least one of the given
// roles. Per-ticket decisions stay in the authz predicates; this guard
// only fences off whole route groups.
func RequireAnyRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, role := range allowed {
			if principal.Actor.Roles.Has(role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
