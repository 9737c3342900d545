package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/qdn-tickets/ticket-service/internal/domain"
)

type fakeKV struct {
	values map[string]string
	getErr error
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func TestRedisSettingsRepository_DefaultsToFalse(t *testing.T) {
	repo := NewRedisSettingsRepository(&fakeKV{values: map[string]string{}})

	value, err := repo.GetAlwaysAuthenticate(context.Background())
	require.NoError(t, err)
	require.False(t, value)
}

func TestRedisSettingsRepository_RoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}}
	repo := NewRedisSettingsRepository(kv)

	require.NoError(t, repo.SetAlwaysAuthenticate(context.Background(), true))
	require.Equal(t, "true", kv.values[domain.SettingAlwaysAuthenticate])

	value, err := repo.GetAlwaysAuthenticate(context.Background())
	require.NoError(t, err)
	require.True(t, value)
}

func TestRedisSettingsRepository_InvalidStoredValue(t *testing.T) {
	kv := &fakeKV{values: map[string]string{domain.SettingAlwaysAuthenticate: `"yes"`}}
	repo := NewRedisSettingsRepository(kv)

	_, err := repo.GetAlwaysAuthenticate(context.Background())
	require.ErrorIs(t, err, ErrInvalidSetting)
}

func TestRedisSettingsRepository_ClientError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	repo := NewRedisSettingsRepository(&fakeKV{getErr: boom})

	_, err := repo.GetAlwaysAuthenticate(context.Background())
	require.ErrorIs(t, err, boom)
}
