package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qdn-tickets/ticket-service/internal/domain"
)

// KeyValueClient is the subset of redis.Cmdable the settings store needs.
type KeyValueClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SettingsRepository persists app settings.
type SettingsRepository interface {
	GetAlwaysAuthenticate(ctx context.Context) (bool, error)
	SetAlwaysAuthenticate(ctx context.Context, value bool) error
}

type redisSettingsRepository struct {
	client KeyValueClient
}

// NewRedisSettingsRepository instantiates repository.
func NewRedisSettingsRepository(client KeyValueClient) SettingsRepository {
	return &redisSettingsRepository{client: client}
}

// GetAlwaysAuthenticate returns false when the setting was never stored.
func (r *redisSettingsRepository) GetAlwaysAuthenticate(ctx context.Context) (bool, error) {
	raw, err := r.client.Get(ctx, domain.SettingAlwaysAuthenticate).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	var value bool
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, domain.SettingAlwaysAuthenticate, err)
	}
	return value, nil
}

func (r *redisSettingsRepository) SetAlwaysAuthenticate(ctx context.Context, value bool) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, domain.SettingAlwaysAuthenticate, string(encoded), 0).Err()
}
