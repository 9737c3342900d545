package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/service"
)

type settingsRepoMock struct {
	mock.Mock
}

func (m *settingsRepoMock) GetAlwaysAuthenticate(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *settingsRepoMock) SetAlwaysAuthenticate(ctx context.Context, value bool) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()
	repo := &settingsRepoMock{}
	repo.On("GetAlwaysAuthenticate", ctx).Return(true, nil)

	settings, err := service.NewSettingsService(repo, nil, nil).Get(ctx)
	require.NoError(t, err)
	require.True(t, settings.AlwaysAuthenticate)
}

func TestSettingsService_SetPublishesOnChange(t *testing.T) {
	ctx := context.Background()
	repo := &settingsRepoMock{}
	repo.On("GetAlwaysAuthenticate", ctx).Return(false, nil)
	repo.On("SetAlwaysAuthenticate", ctx, true).Return(nil)

	dispatcher := events.NewInMemoryDispatcher()
	var changes []events.SettingChangedPayload
	dispatcher.Subscribe(events.EventSettingChanged, func(_ context.Context, e events.Event) error {
		changes = append(changes, e.Payload.(events.SettingChangedPayload))
		return nil
	})

	settings, err := service.NewSettingsService(repo, dispatcher, nil).SetAlwaysAuthenticate(ctx, true)
	require.NoError(t, err)
	require.True(t, settings.AlwaysAuthenticate)
	require.Len(t, changes, 1)
	require.Equal(t, false, changes[0].OldValue)
	require.Equal(t, true, changes[0].NewValue)
	repo.AssertExpectations(t)
}

func TestSettingsService_SetUnchangedDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	repo := &settingsRepoMock{}
	repo.On("GetAlwaysAuthenticate", ctx).Return(true, nil)
	repo.On("SetAlwaysAuthenticate", ctx, true).Return(nil)

	dispatcher := events.NewInMemoryDispatcher()
	published := 0
	dispatcher.Subscribe(events.EventSettingChanged, func(context.Context, events.Event) error {
		published++
		return nil
	})

	_, err := service.NewSettingsService(repo, dispatcher, nil).SetAlwaysAuthenticate(ctx, true)
	require.NoError(t, err)
	require.Zero(t, published)
}

func TestSettingsService_SetStoreError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("redis down")
	repo := &settingsRepoMock{}
	repo.On("GetAlwaysAuthenticate", ctx).Return(false, nil)
	repo.On("SetAlwaysAuthenticate", ctx, true).Return(boom)

	_, err := service.NewSettingsService(repo, nil, nil).SetAlwaysAuthenticate(ctx, true)
	require.ErrorIs(t, err, boom)
}
