// Package rediscache is the fast middle tier of the settings configuration.
// A cache miss or a dead Redis never fails a request; callers fall back to
// the remote store or the compiled-in defaults.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

const (
	settingsKey    = "sitiket:settings"
	dropdownPrefix = "sitiket:dropdown:"
)

// SettingsCache stores the settings payload and dropdown sets in Redis with
// a TTL so stale entries age out even if invalidation is missed.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SettingsCache = (*SettingsCache)(nil)

// NewSettingsCache creates a cache backed by the given client. A zero ttl
// defaults to five minutes.
func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsCache{client: client, ttl: ttl}
}

// Get returns the cached settings. The second return reports presence; a
// missing key is not an error.
func (c *SettingsCache) Get(ctx context.Context) (domain.Settings, bool, error) {
	payload, err := c.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Settings{}, false, nil
		}
		return domain.Settings{}, false, err
	}

	var settings domain.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		// A corrupt entry behaves like a miss so callers can refill it.
		return domain.Settings{}, false, nil
	}
	return settings, true, nil
}

// Put writes the settings payload through with the configured TTL.
func (c *SettingsCache) Put(ctx context.Context, settings domain.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, settingsKey, payload, c.ttl).Err()
}

// GetDropdown returns one cached dropdown set by name.
func (c *SettingsCache) GetDropdown(ctx context.Context, name string) (domain.DropdownSet, bool, error) {
	payload, err := c.client.Get(ctx, dropdownPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DropdownSet{}, false, nil
		}
		return domain.DropdownSet{}, false, err
	}

	var set domain.DropdownSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return domain.DropdownSet{}, false, nil
	}
	return set, true, nil
}

// PutDropdown caches one dropdown set under its name.
func (c *SettingsCache) PutDropdown(ctx context.Context, set domain.DropdownSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dropdownPrefix+set.Name, payload, c.ttl).Err()
}

// Ping reports whether the Redis backend is reachable.
func (c *SettingsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
