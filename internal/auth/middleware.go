package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the account plus the
// role set held at the moment the request was admitted.
type Principal struct {
	Actor   domain.Actor
	Account *domain.ActorAccount
}

// AuthMiddleware validates bearer tokens and loads principals with a
// fresh role lookup per request.
type AuthMiddleware struct {
	tokens    *TokenManager
	directory repository.ActorDirectory
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, directory repository.ActorDirectory) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, directory: directory}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.directory.GetByID(c.Context(), claims.ActorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}
	if account.Status != domain.ActorStatusActive {
		return apperrors.NewUnauthorized("account suspended")
	}

	roles, err := m.directory.RolesOf(c.Context(), account.ID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{
		Actor:   domain.Actor{ID: account.ID, Roles: roles},
		Account: account,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
