package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// probeStoreKeyPrefix is the prefix for per-window probe lists.
	probeStoreKeyPrefix = "playtime_recap:probes:"
	// probeStoreDefaultTTL keeps the raw probe log for 90 days. Probes are
	// only the segmenter's input; sessions are the durable record.
	probeStoreDefaultTTL = 90 * 24 * time.Hour
)

// RedisProbeStore implements playtime.ProbeStore using one Redis list per
// processing window. RPUSH preserves insertion order, which is the
// deterministic tie-break for probes with equal timestamps.
type RedisProbeStore struct {
	client *redis.Client
	cfg    RedisProbeStoreConfig
}

type RedisProbeStoreConfig struct{}

// NewRedisProbeStore creates a new Redis-backed probe store.
func NewRedisProbeStore(
	client *redis.Client,
	cfg RedisProbeStoreConfig,
) *RedisProbeStore {
	return &RedisProbeStore{
		client: client,
		cfg:    cfg,
	}
}

func makeProbeKey(windowID string) string {
	return fmt.Sprintf("%s%s", probeStoreKeyPrefix, windowID)
}

// AppendProbe appends one probe to the window's append-only log.
func (r *RedisProbeStore) AppendProbe(ctx context.Context, windowID string, probe playtime.Probe) error {
	key := makeProbeKey(windowID)

	data, err := json.Marshal(probe)
	if err != nil {
		logrus.Errorf("failed to marshal probe for game %s: %v", probe.GameID, err)
		return fmt.Errorf("failed to marshal probe: %w", err)
	}

	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		logrus.Errorf("failed to append probe for game %s: %v", probe.GameID, err)
		return fmt.Errorf("failed to append probe: %w", err)
	}

	if err := r.client.Expire(ctx, key, probeStoreDefaultTTL).Err(); err != nil {
		logrus.Warnf("failed to refresh TTL on probe log %s: %v", key, err)
	}

	return nil
}

// ListProbes returns the window's probes in insertion order. Missing key
// means an empty window, not an error.
func (r *RedisProbeStore) ListProbes(ctx context.Context, windowID string) ([]playtime.Probe, error) {
	key := makeProbeKey(windowID)

	entries, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logrus.Errorf("failed to list probes for window %s: %v", windowID, err)
		return nil, fmt.Errorf("failed to list probes: %w", err)
	}

	probes := make([]playtime.Probe, 0, len(entries))
	for _, entry := range entries {
		var p playtime.Probe
		if err := json.Unmarshal([]byte(entry), &p); err != nil {
			logrus.Errorf("failed to unmarshal probe in window %s: %v", windowID, err)
			return nil, fmt.Errorf("failed to unmarshal probe: %w", err)
		}
		probes = append(probes, p)
	}

	return probes, nil
}
