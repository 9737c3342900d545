package domain

// Style carries the presentation hint for a ticket status badge.
type Style struct {
	BackgroundColor string `json:"background-color,omitempty"`
	Color           string `json:"color,omitempty"`
}

// IsZero reports whether no styling applies.
func (s Style) IsZero() bool {
	return s == Style{}
}

// StatusStyle maps the ticket status to its badge style. Unknown statuses and
// a nil ticket yield the zero Style.
func StatusStyle(ticket *ResolvedTicket) Style {
	if ticket == nil {
		return Style{}
	}
	switch ticket.Status {
	case TicketStatusAccepted:
		return Style{BackgroundColor: "green", Color: "white"}
	case TicketStatusClosed:
		return Style{BackgroundColor: "gray", Color: "white"}
	case TicketStatusRejected:
		return Style{BackgroundColor: "red"}
	default:
		return Style{}
	}
}
