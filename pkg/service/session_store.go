package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// sessionStoreKeyPrefix is the prefix for session records. The rest of
	// the key is the session's deterministic identity windowID:gameID:ordinal.
	sessionStoreKeyPrefix = "playtime_recap:session:"
	// sessionStoreDateIndexPrefix is the prefix for the per-localDate sets
	// of session keys, the index the query surface reads.
	sessionStoreDateIndexPrefix = "playtime_recap:sessions_by_date:"
)

// RedisSessionStore implements playtime.SessionStore using Redis. One JSON
// blob per session plus a set per local date holding the session keys for
// that date. Session keys are deterministic, so writing a window twice is
// an upsert.
type RedisSessionStore struct {
	client *redis.Client
	cfg    RedisSessionStoreConfig
}

type RedisSessionStoreConfig struct{}

// NewRedisSessionStore creates a new Redis-backed session store.
func NewRedisSessionStore(
	client *redis.Client,
	cfg RedisSessionStoreConfig,
) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		cfg:    cfg,
	}
}

func makeSessionKey(sessionKey string) string {
	return fmt.Sprintf("%s%s", sessionStoreKeyPrefix, sessionKey)
}

func makeDateIndexKey(localDate string) string {
	return fmt.Sprintf("%s%s", sessionStoreDateIndexPrefix, localDate)
}

// ReplaceWindowSessions swaps a window's session set. Stale sessions from a
// previous run over the same window (different probe set, interrupted
// write) are removed together with their date-index members before the new
// set is written.
func (r *RedisSessionStore) ReplaceWindowSessions(ctx context.Context, windowID string, sessions []playtime.PlaySession) error {
	if err := r.deleteWindowSessions(ctx, windowID); err != nil {
		return err
	}

	for _, s := range sessions {
		data, err := json.Marshal(s)
		if err != nil {
			logrus.Errorf("failed to marshal session %s: %v", s.Key, err)
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		key := makeSessionKey(s.Key)
		if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
			logrus.Errorf("failed to set session %s: %v", s.Key, err)
			return fmt.Errorf("failed to set session: %w", err)
		}

		if err := r.client.SAdd(ctx, makeDateIndexKey(s.LocalDate), key).Err(); err != nil {
			logrus.Errorf("failed to index session %s by date %s: %v", s.Key, s.LocalDate, err)
			return fmt.Errorf("failed to index session: %w", err)
		}
	}

	logrus.Debugf("replaced session set for window %s with %d sessions", windowID, len(sessions))
	return nil
}

// ListSessionsByDate returns the sessions attributed to one local calendar
// date. Stale index members (pointing at since-replaced sessions) are
// dropped from the index as they are encountered.
func (r *RedisSessionStore) ListSessionsByDate(ctx context.Context, localDate string) ([]playtime.PlaySession, error) {
	indexKey := makeDateIndexKey(localDate)

	keys, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		logrus.Errorf("failed to read session index for %s: %v", localDate, err)
		return nil, fmt.Errorf("failed to read session index: %w", err)
	}

	sessions := make([]playtime.PlaySession, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Result()
		if err == redis.Nil {
			logrus.Debugf("dropping stale session index member %s for %s", key, localDate)
			r.client.SRem(ctx, indexKey, key)
			continue
		}
		if err != nil {
			logrus.Errorf("failed to get session %s: %v", key, err)
			return nil, fmt.Errorf("failed to get session: %w", err)
		}

		var s playtime.PlaySession
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			logrus.Errorf("failed to unmarshal session %s: %v", key, err)
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (r *RedisSessionStore) deleteWindowSessions(ctx context.Context, windowID string) error {
	pattern := fmt.Sprintf("%s%s:*", sessionStoreKeyPrefix, windowID)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.Errorf("failed to scan sessions for window %s: %v", windowID, err)
		return fmt.Errorf("failed to scan window sessions: %w", err)
	}

	for _, key := range keys {
		// Unindex before deleting so a crash in between leaves only a
		// stale index member, which ListSessionsByDate tolerates.
		if data, err := r.client.Get(ctx, key).Result(); err == nil {
			var old playtime.PlaySession
			if err := json.Unmarshal([]byte(data), &old); err == nil {
				r.client.SRem(ctx, makeDateIndexKey(old.LocalDate), key)
			}
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			logrus.Errorf("failed to delete stale session %s: %v", key, err)
			return fmt.Errorf("failed to delete stale session: %w", err)
		}
	}

	return nil
}
