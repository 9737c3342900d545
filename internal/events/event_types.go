package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/qdn-tickets/ticket-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketResolved EventType = "ticket_resolved"
	EventSettingChanged EventType = "setting_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps a fresh id and timestamp.
func NewEvent(eventType EventType, subject string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	RequestedName       string              `json:"requested_name"`
	RequestedIdentifier string              `json:"requested_identifier"`
	MasterName          string              `json:"master_name"`
	MasterIdentifier    string              `json:"master_identifier"`
	Status              domain.TicketStatus `json:"status"`
	Confirmed           bool                `json:"confirmed"`
	Fetches             int                 `json:"fetches"`
}

// SettingChangedPayload payload.
type SettingChangedPayload struct {
	Key      string `json:"key"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}
