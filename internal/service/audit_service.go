package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/observability"
)

// AuditService records resolution outcomes and setting changes.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketResolved, a.handleTicketResolved)
	a.dispatcher.Subscribe(events.EventSettingChanged, a.handleSettingChanged)
}

func (a *AuditService) handleTicketResolved(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok {
		a.logger.Warn("TicketResolved with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	outcome := "original"
	if payload.Confirmed {
		outcome = "confirmed"
	}
	a.metrics.RecordResolution(outcome, string(payload.Status))
	a.logger.Info("TicketResolved",
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
		zap.String("master", payload.MasterName+"/"+payload.MasterIdentifier),
		zap.String("status", string(payload.Status)),
		zap.Int("fetches", payload.Fetches))
	return nil
}

func (a *AuditService) handleSettingChanged(_ context.Context, event events.Event) error {
	a.logger.Info("SettingChanged", zap.String("event_id", event.ID), zap.String("key", event.Subject), zap.Any("payload", event.Payload))
	return nil
}
