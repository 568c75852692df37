package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// watermarkStoreKeyPrefix is the prefix for per-game watermark keys.
const watermarkStoreKeyPrefix = "playtime_recap:watermark:"

// RedisWatermarkStore implements playtime.WatermarkStore using Redis. One
// JSON blob per game, no TTL: the watermark must survive indefinitely or
// the next polling cycle would misread the whole counter as a fresh delta.
type RedisWatermarkStore struct {
	client *redis.Client
	cfg    RedisWatermarkStoreConfig
}

type RedisWatermarkStoreConfig struct{}

// NewRedisWatermarkStore creates a new Redis-backed watermark store.
func NewRedisWatermarkStore(
	client *redis.Client,
	cfg RedisWatermarkStoreConfig,
) *RedisWatermarkStore {
	return &RedisWatermarkStore{
		client: client,
		cfg:    cfg,
	}
}

func makeWatermarkKey(gameID string) string {
	return fmt.Sprintf("%s%s", watermarkStoreKeyPrefix, gameID)
}

// GetWatermark retrieves the watermark for a game. Returns nil (no error)
// for a game that has never been observed.
func (r *RedisWatermarkStore) GetWatermark(ctx context.Context, gameID string) (*playtime.Watermark, error) {
	key := makeWatermarkKey(gameID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logrus.Debugf("no watermark for game %s yet", gameID)
		return nil, nil
	}
	if err != nil {
		logrus.Errorf("failed to get watermark for game %s: %v", gameID, err)
		return nil, fmt.Errorf("failed to get watermark: %w", err)
	}

	var w playtime.Watermark
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		logrus.Errorf("failed to unmarshal watermark for game %s: %v", gameID, err)
		return nil, fmt.Errorf("failed to unmarshal watermark: %w", err)
	}

	return &w, nil
}

// PutWatermark overwrites the watermark for a game.
func (r *RedisWatermarkStore) PutWatermark(ctx context.Context, w playtime.Watermark) error {
	key := makeWatermarkKey(w.GameID)

	data, err := json.Marshal(w)
	if err != nil {
		logrus.Errorf("failed to marshal watermark for game %s: %v", w.GameID, err)
		return fmt.Errorf("failed to marshal watermark: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		logrus.Errorf("failed to set watermark for game %s: %v", w.GameID, err)
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	logrus.Debugf("updated watermark for game %s to %d minutes", w.GameID, w.CumulativeMinutes)
	return nil
}
