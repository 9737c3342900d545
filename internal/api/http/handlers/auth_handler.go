package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qdn-tickets/ticket-service/internal/api/dto"
	"github.com/qdn-tickets/ticket-service/internal/service"
	apperrors "github.com/qdn-tickets/ticket-service/pkg/util"
)

// AuthHandler issues operator tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return apperrors.NewValidationError("password required", nil)
	}
	token, expiresAt, err := h.auth.Login(c.UserContext(), req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrLoginDisabled):
		return apperrors.NewDomainError("LOGIN_DISABLED", "operator login disabled", http.StatusForbidden, nil)
	case err != nil:
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Unix(),
	}})
}
