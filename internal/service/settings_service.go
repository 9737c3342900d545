package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/domain"
	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/repository"
)

// SettingsService reads and updates app settings.
type SettingsService struct {
	repo       repository.SettingsRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo repository.SettingsRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, dispatcher: dispatcher, logger: logger}
}

// Get returns the current settings, defaulted where nothing is stored.
func (s *SettingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	always, err := s.repo.GetAlwaysAuthenticate(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	return domain.AppSettings{AlwaysAuthenticate: always}, nil
}

// SetAlwaysAuthenticate stores the flag and announces the change.
func (s *SettingsService) SetAlwaysAuthenticate(ctx context.Context, value bool) (domain.AppSettings, error) {
	previous, err := s.repo.GetAlwaysAuthenticate(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	if err := s.repo.SetAlwaysAuthenticate(ctx, value); err != nil {
		return domain.AppSettings{}, err
	}

	if s.dispatcher != nil && previous != value {
		event := events.NewEvent(events.EventSettingChanged, domain.SettingAlwaysAuthenticate, events.SettingChangedPayload{
			Key:      domain.SettingAlwaysAuthenticate,
			OldValue: previous,
			NewValue: value,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish setting_changed failed", zap.Error(err))
		}
	}
	return domain.AppSettings{AlwaysAuthenticate: value}, nil
}
