package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qdn-tickets/ticket-service/internal/domain"
	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/observability"
	"github.com/qdn-tickets/ticket-service/internal/service"
)

func TestAuditService_RecordsResolutions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	service.NewAuditService(dispatcher, zap.New(core), metrics).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketResolved, "qwiki/APPQC_qwiki_1",
		events.TicketResolvedPayload{
			MasterName:       "qwiki",
			MasterIdentifier: "APPQCX_qwiki_1",
			Status:           domain.TicketStatusAccepted,
			Confirmed:        true,
			Fetches:          2,
		}))
	require.NoError(t, err)

	require.Equal(t, int64(1), metrics.Snapshot().Resolutions["confirmed|accepted"])
	entries := logs.FilterMessage("TicketResolved").All()
	require.Len(t, entries, 1)
	require.Equal(t, "qwiki/APPQCX_qwiki_1", entries[0].ContextMap()["master"])
}

func TestAuditService_LogsSettingChanges(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, zap.New(core), nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventSettingChanged, domain.SettingAlwaysAuthenticate,
		events.SettingChangedPayload{Key: domain.SettingAlwaysAuthenticate, OldValue: false, NewValue: true}))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("SettingChanged").Len())
}
