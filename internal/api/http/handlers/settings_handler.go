package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qdn-tickets/ticket-service/internal/api/dto"
	"github.com/qdn-tickets/ticket-service/internal/service"
	apperrors "github.com/qdn-tickets/ticket-service/pkg/util"
)

// SettingsHandler exposes app settings.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings GET /settings.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext())
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return c.JSON(fiber.Map{"data": settings})
}

// UpdateSettings PUT /settings.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AlwaysAuthenticate == nil {
		return apperrors.NewValidationError("alwaysAuthenticate required", nil)
	}
	settings, err := h.settings.SetAlwaysAuthenticate(c.UserContext(), *req.AlwaysAuthenticate)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return c.JSON(fiber.Map{"data": settings})
}
