package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qdn-tickets/ticket-service/internal/api/dto"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
	"github.com/qdn-tickets/ticket-service/internal/service"
	apperrors "github.com/qdn-tickets/ticket-service/pkg/util"
)

// TicketsHandler serves resolved tickets.
type TicketsHandler struct {
	resolver *service.TicketResolver
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(resolver *service.TicketResolver) *TicketsHandler {
	return &TicketsHandler{resolver: resolver}
}

// GetTicket GET /tickets/:name/:identifier.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	name, identifier := c.Params("name"), c.Params("identifier")
	ticket, err := h.resolver.Resolve(c.UserContext(), name, identifier)
	if err != nil {
		return mapResolveError(err, name, identifier)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func mapResolveError(err error, name, identifier string) error {
	var storeErr *qdn.StoreError
	switch {
	case errors.Is(err, service.ErrInvalidCoordinates):
		return apperrors.NewValidationError("name and identifier required", nil)
	case errors.Is(err, service.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", map[string]any{"name": name, "identifier": identifier})
	case errors.As(err, &storeErr):
		return apperrors.NewStoreUnavailable(err)
	default:
		return err
	}
}
