package dto

import (
	"github.com/qdn-tickets/ticket-service/internal/domain"
)

// TicketResponse is the resolved ticket plus its status badge style.
type TicketResponse struct {
	AppName          string              `json:"appname"`
	AppReferrer      string              `json:"app_referrer"`
	TicketType       domain.TicketType   `json:"ticket_type"`
	FirstSubmittedBy string              `json:"first_submitted_by"`
	FirstSubmitted   int64               `json:"first_submitted"`
	Subject          string              `json:"subject"`
	Description      string              `json:"description"`
	Version          int                 `json:"version"`
	Status           domain.TicketStatus `json:"status"`
	QDNName          string              `json:"qdn_name"`
	QDNIdentifier    string              `json:"qdn_identifier"`
	QDNCreated       *int64              `json:"qdn_created,omitempty"`
	QDNUpdated       *int64              `json:"qdn_updated,omitempty"`
	Style            domain.Style        `json:"style"`
}

// NewTicketResponse maps a resolved ticket.
func NewTicketResponse(ticket *domain.ResolvedTicket) TicketResponse {
	return TicketResponse{
		AppName:          ticket.AppName,
		AppReferrer:      ticket.AppReferrer,
		TicketType:       ticket.TicketType,
		FirstSubmittedBy: ticket.FirstSubmittedBy,
		FirstSubmitted:   ticket.FirstSubmitted,
		Subject:          ticket.Subject,
		Description:      ticket.Description,
		Version:          ticket.Version,
		Status:           ticket.Status,
		QDNName:          ticket.QDNName,
		QDNIdentifier:    ticket.QDNIdentifier,
		QDNCreated:       ticket.QDNCreated,
		QDNUpdated:       ticket.QDNUpdated,
		Style:            domain.StatusStyle(ticket),
	}
}
