package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// TicketType enumerates the kinds of tickets an app user can submit.
type TicketType string

const (
	TicketTypeComment        TicketType = "comment"
	TicketTypeBugReport      TicketType = "bug-report"
	TicketTypeFeatureRequest TicketType = "feature-request"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusUnconfirmed TicketStatus = "unconfirmed"
	TicketStatusAccepted    TicketStatus = "accepted"
	TicketStatusClosed      TicketStatus = "closed"
	TicketStatusRejected    TicketStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusUnconfirmed, TicketStatusAccepted, TicketStatusClosed, TicketStatusRejected:
		return true
	}
	return false
}

// SupportedSchemaVersion is the only document schema version surfaced to callers.
const SupportedSchemaVersion = 1

// Identifier prefixes. A submission awaiting the app owner is stored under
// the unconfirmed prefix; the owner's answer is stored under the same
// suffix with the accepted or rejected prefix.
const (
	IdentifierPrefixUnconfirmed = "APPQC_"
	IdentifierPrefixAccepted    = "APPQCX_"
	IdentifierPrefixRejected    = "APPQCZ_"
)

// IsUnconfirmedIdentifier reports whether identifier names an original submission
// eligible for confirmation lookup.
func IsUnconfirmedIdentifier(identifier string) bool {
	return strings.HasPrefix(identifier, IdentifierPrefixUnconfirmed)
}

// ConfirmationIdentifiers returns the confirmed identifiers for an unconfirmed one,
// accepted first. It returns nil when identifier does not carry the unconfirmed prefix.
func ConfirmationIdentifiers(identifier string) []string {
	if !IsUnconfirmedIdentifier(identifier) {
		return nil
	}
	suffix := strings.TrimPrefix(identifier, IdentifierPrefixUnconfirmed)
	return []string{
		IdentifierPrefixAccepted + suffix,
		IdentifierPrefixRejected + suffix,
	}
}

// SchemaVersion is the `version` field of a stored document. Values that are
// not integral numbers decode as 0 so they fail the version gate instead of
// failing the decode.
type SchemaVersion int

func (v *SchemaVersion) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = 0
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	*v = SchemaVersion(f)
	return nil
}

// Document is a ticket as stored in QDN.
type Document struct {
	AppName          string        `json:"appname"`
	AppReferrer      string        `json:"app_referrer,omitempty"`
	TicketType       TicketType    `json:"ticket_type"`
	FirstSubmittedBy string        `json:"first_submitted_by,omitempty"`
	FirstSubmitted   int64         `json:"first_submitted,omitempty"`
	Subject          string        `json:"subject"`
	Description      string        `json:"description"`
	Version          SchemaVersion `json:"version"`
	Status           TicketStatus  `json:"status,omitempty"`

	// Deprecated aliases still present in early sample data.
	Submitted   int64  `json:"submitted,omitempty"`
	SubmittedBy string `json:"submitted_by,omitempty"`
}

// ResolvedTicket is the composite record built from the master document.
// QDNName and QDNIdentifier locate the document that won resolution.
type ResolvedTicket struct {
	AppName          string       `json:"appname"`
	AppReferrer      string       `json:"app_referrer"`
	TicketType       TicketType   `json:"ticket_type"`
	FirstSubmittedBy string       `json:"first_submitted_by"`
	FirstSubmitted   int64        `json:"first_submitted"`
	Subject          string       `json:"subject"`
	Description      string       `json:"description"`
	Version          int          `json:"version"`
	Status           TicketStatus `json:"status"`

	QDNName       string `json:"qdn_name"`
	QDNIdentifier string `json:"qdn_identifier"`
	QDNCreated    *int64 `json:"qdn_created,omitempty"`
	QDNUpdated    *int64 `json:"qdn_updated,omitempty"`
}
