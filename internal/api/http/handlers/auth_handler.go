package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/dto"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, token, exp, err := h.service.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		ActorID:   account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Token:     token,
		ExpiresAt: exp,
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, token, exp, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		ActorID:   account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Token:     token,
		ExpiresAt: exp,
	}})
}
