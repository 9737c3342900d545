package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/domain"
	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
)

var (
	// ErrTicketNotFound means no usable original document exists at the
	// requested coordinates. Missing and unsupported documents look the same.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidCoordinates means the name or identifier was empty.
	ErrInvalidCoordinates = errors.New("ticket name and identifier required")
)

// TicketResolver builds the authoritative view of a ticket from the
// original submission and any owner confirmation stored next to it.
type TicketResolver struct {
	store      qdn.DocumentStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketResolverDependencies bundles collaborators for the resolver.
type TicketResolverDependencies struct {
	Store      qdn.DocumentStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketResolver constructs the resolver.
func NewTicketResolver(deps TicketResolverDependencies) *TicketResolver {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketResolver{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Resolve returns the master ticket for the document at (name, identifier).
//
// The original is fetched first. When identifier carries the unconfirmed
// prefix, the accepted and then the rejected confirmation are looked up
// under the original's appname and the first one found replaces the
// original. Store failures other than not-found abort resolution and are
// returned wrapped; absence of the original yields ErrTicketNotFound.
func (r *TicketResolver) Resolve(ctx context.Context, name, identifier string) (*domain.ResolvedTicket, error) {
	if name == "" || identifier == "" {
		return nil, ErrInvalidCoordinates
	}

	fetches := 1
	original, err := r.fetchTicket(ctx, name, identifier)
	if err != nil {
		return nil, fmt.Errorf("fetch ticket %s/%s: %w", name, identifier, err)
	}
	if original == nil {
		return nil, ErrTicketNotFound
	}

	master := original
	candidates := domain.ConfirmationIdentifiers(identifier)
	if len(candidates) > 0 && original.AppName == "" {
		r.logger.Debug("original has no appname; skipping confirmation lookup",
			zap.String("name", name), zap.String("identifier", identifier))
		candidates = nil
	}
	for _, candidate := range candidates {
		fetches++
		confirmed, err := r.fetchTicket(ctx, original.AppName, candidate)
		if err != nil {
			return nil, fmt.Errorf("fetch confirmation %s/%s: %w", original.AppName, candidate, err)
		}
		if confirmed != nil {
			master = confirmed
			break
		}
	}

	r.publishResolved(ctx, name, identifier, master, fetches)
	return master, nil
}

// fetchTicket fetches, validates and normalizes one document. A nil ticket
// with a nil error means the document is absent or unsupported.
func (r *TicketResolver) fetchTicket(ctx context.Context, name, identifier string) (*domain.ResolvedTicket, error) {
	res, err := r.store.FetchResourceObject(ctx, qdn.DocumentRef(name, identifier))
	if err != nil {
		if qdn.IsNotFound(err) {
			r.logger.Debug("ticket document not found", zap.String("name", name), zap.String("identifier", identifier))
			return nil, nil
		}
		return nil, err
	}

	if res.Document.Version != domain.SupportedSchemaVersion {
		r.logger.Debug("ignoring unsupported ticket document",
			zap.String("name", name),
			zap.String("identifier", identifier),
			zap.Int("version", int(res.Document.Version)))
		return nil, nil
	}

	if s := res.Document.Status; s != "" && !s.Valid() {
		r.logger.Debug("unknown ticket status; treating as unconfirmed",
			zap.String("identifier", identifier), zap.String("status", string(s)))
	}
	return normalizeTicket(res, name, identifier), nil
}

// normalizeTicket builds a new record from res without touching it: status
// defaults to unconfirmed and legacy submission fields fill empty canonical
// ones. The coordinates are the ones the document was actually fetched at.
func normalizeTicket(res *qdn.Resource, name, identifier string) *domain.ResolvedTicket {
	doc := res.Document
	ticket := &domain.ResolvedTicket{
		AppName:          doc.AppName,
		AppReferrer:      doc.AppReferrer,
		TicketType:       doc.TicketType,
		FirstSubmittedBy: doc.FirstSubmittedBy,
		FirstSubmitted:   doc.FirstSubmitted,
		Subject:          doc.Subject,
		Description:      doc.Description,
		Version:          int(doc.Version),
		Status:           doc.Status,
		QDNName:          name,
		QDNIdentifier:    identifier,
		QDNCreated:       copyTimestamp(res.Created),
		QDNUpdated:       copyTimestamp(res.Updated),
	}

	if !ticket.Status.Valid() {
		ticket.Status = domain.TicketStatusUnconfirmed
	}
	if ticket.FirstSubmitted == 0 && doc.Submitted != 0 {
		ticket.FirstSubmitted = doc.Submitted
	}
	if ticket.FirstSubmittedBy == "" && doc.SubmittedBy != "" {
		ticket.FirstSubmittedBy = doc.SubmittedBy
	}
	return ticket
}

func copyTimestamp(ts *int64) *int64 {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}

func (r *TicketResolver) publishResolved(ctx context.Context, name, identifier string, master *domain.ResolvedTicket, fetches int) {
	if r.dispatcher == nil {
		return
	}
	event := events.NewEvent(events.EventTicketResolved, name+"/"+identifier, events.TicketResolvedPayload{
		RequestedName:       name,
		RequestedIdentifier: identifier,
		MasterName:          master.QDNName,
		MasterIdentifier:    master.QDNIdentifier,
		Status:              master.Status,
		Confirmed:           master.QDNIdentifier != identifier,
		Fetches:             fetches,
	})
	if err := r.dispatcher.Publish(ctx, event); err != nil {
		r.logger.Warn("publish ticket_resolved failed", zap.String("subject", event.Subject), zap.Error(err))
	}
}
