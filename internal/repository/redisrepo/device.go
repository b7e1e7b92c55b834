// Package redisrepo implements the device registry on Redis.
//
// Push player IDs are written far more often than they are read (every app
// launch re-registers the device), so they live in Redis rather than the
// accounts database. One key per player ID gives the global-uniqueness
// invariant by construction.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

const keyPrefix = "accounts"

// deviceKey returns the Redis key for a DeviceRegistration.
func deviceKey(playerID string) string {
	return fmt.Sprintf("%s:device:%s", keyPrefix, playerID)
}

// DeviceStore is a Redis-backed implementation of
// repository.DeviceRepository.
type DeviceStore struct {
	client *redis.Client
}

var _ repository.DeviceRepository = (*DeviceStore)(nil)

// New connects to Redis at the given URL (e.g. redis://localhost:6379)
// and verifies the connection.
func New(url string) (*DeviceStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisrepo: parsing URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisrepo: pinging redis: %w", err)
	}

	return &DeviceStore{client: client}, nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client) *DeviceStore {
	return &DeviceStore{client: client}
}

// Close closes the Redis connection.
func (s *DeviceStore) Close() error {
	return s.client.Close()
}

// GetByPlayerID returns the registration for a player ID, regardless of
// which account owns it. Returns apperror.ErrNotFound when absent.
func (s *DeviceStore) GetByPlayerID(ctx context.Context, playerID string) (*model.DeviceRegistration, error) {
	data, err := s.client.Get(ctx, deviceKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NotFound("device registration", playerID)
		}
		return nil, fmt.Errorf("redisrepo: getting device %s: %w", playerID, err)
	}

	var reg model.DeviceRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("redisrepo: decoding device %s: %w", playerID, err)
	}

	return &reg, nil
}

// Save writes the registration, replacing any previous one for the same
// player ID.
func (s *DeviceStore) Save(ctx context.Context, reg *model.DeviceRegistration) error {
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}

	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("redisrepo: encoding device %s: %w", reg.PlayerID, err)
	}

	if err := s.client.Set(ctx, deviceKey(reg.PlayerID), data, 0).Err(); err != nil {
		return fmt.Errorf("redisrepo: saving device %s: %w", reg.PlayerID, err)
	}

	return nil
}

// DeleteByPlayerID removes the registration for a player ID.
// Deleting an absent registration is not an error.
func (s *DeviceStore) DeleteByPlayerID(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, deviceKey(playerID)).Err(); err != nil {
		return fmt.Errorf("redisrepo: deleting device %s: %w", playerID, err)
	}
	return nil
}
