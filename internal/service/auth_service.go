package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/config"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// AuthService coordinates registration and login. It exists only to
// back the "resolve current actor id and roles" capability; role and
// account seeding beyond self-registration happens outside the service.
type AuthService struct {
	directory  repository.ActorDirectory
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, directory repository.ActorDirectory) *AuthService {
	return &AuthService{
		directory:  directory,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account holding the Requester role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.ActorAccount, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email, password required", nil)
	}

	if _, err := s.directory.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	account := &domain.ActorAccount{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.ActorStatusActive,
	}
	if err := s.directory.Create(ctx, account, domain.RoleRequester); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.ActorAccount, string, time.Time, error) {
	account, err := s.directory.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if account.Status != domain.ActorStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
