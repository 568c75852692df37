// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestWatermarkStore_GetUnknownGame(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisWatermarkStore(client, RedisWatermarkStoreConfig{})

	w, err := store.GetWatermark(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("GetWatermark() error = %v", err)
	}
	if w != nil {
		t.Errorf("GetWatermark() = %+v, expected nil for an unobserved game", w)
	}
}

func TestWatermarkStore_PutAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisWatermarkStore(client, RedisWatermarkStoreConfig{})
	ctx := context.Background()

	in := playtime.Watermark{
		GameID:             "game-1",
		GameName:           "Game One",
		CumulativeMinutes:  480,
		LastCheckTimestamp: time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC),
	}

	if err := store.PutWatermark(ctx, in); err != nil {
		t.Fatalf("PutWatermark() error = %v", err)
	}

	out, err := store.GetWatermark(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetWatermark() error = %v", err)
	}
	if out == nil {
		t.Fatal("GetWatermark() returned nil after put")
	}
	if out.CumulativeMinutes != 480 {
		t.Errorf("CumulativeMinutes = %d, expected 480", out.CumulativeMinutes)
	}
	if !out.LastCheckTimestamp.Equal(in.LastCheckTimestamp) {
		t.Errorf("LastCheckTimestamp = %v, expected %v", out.LastCheckTimestamp, in.LastCheckTimestamp)
	}
}

func TestWatermarkStore_PutOverwrites(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisWatermarkStore(client, RedisWatermarkStoreConfig{})
	ctx := context.Background()

	first := playtime.Watermark{GameID: "game-1", CumulativeMinutes: 480}
	second := playtime.Watermark{GameID: "game-1", CumulativeMinutes: 505}

	if err := store.PutWatermark(ctx, first); err != nil {
		t.Fatalf("PutWatermark() error = %v", err)
	}
	if err := store.PutWatermark(ctx, second); err != nil {
		t.Fatalf("PutWatermark() error = %v", err)
	}

	out, _ := store.GetWatermark(ctx, "game-1")
	if out.CumulativeMinutes != 505 {
		t.Errorf("CumulativeMinutes = %d, expected 505 after overwrite", out.CumulativeMinutes)
	}
}

func TestProbeStore_PreservesInsertionOrder(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisProbeStore(client, RedisProbeStoreConfig{})
	ctx := context.Background()

	// Two probes share a timestamp; insertion order is the tie-break and
	// must survive the round trip.
	ts := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)
	probes := []playtime.Probe{
		{GameID: "game-1", CheckTimestamp: ts, DeltaMinutes: 10},
		{GameID: "game-2", CheckTimestamp: ts, DeltaMinutes: 20},
		{GameID: "game-1", CheckTimestamp: ts.Add(30 * time.Minute), DeltaMinutes: 30},
	}

	for _, p := range probes {
		if err := store.AppendProbe(ctx, "2026-07-10", p); err != nil {
			t.Fatalf("AppendProbe() error = %v", err)
		}
	}

	out, err := store.ListProbes(ctx, "2026-07-10")
	if err != nil {
		t.Fatalf("ListProbes() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("ListProbes() returned %d probes, expected 3", len(out))
	}

	for i, p := range out {
		if p.GameID != probes[i].GameID || p.DeltaMinutes != probes[i].DeltaMinutes {
			t.Errorf("probe %d = %+v, expected %+v", i, p, probes[i])
		}
	}
}

func TestProbeStore_EmptyWindow(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisProbeStore(client, RedisProbeStoreConfig{})

	out, err := store.ListProbes(context.Background(), "2026-01-01")
	if err != nil {
		t.Fatalf("ListProbes() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("ListProbes() returned %d probes for an empty window, expected 0", len(out))
	}
}

func TestProbeStore_SetsTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisProbeStore(client, RedisProbeStoreConfig{})

	probe := playtime.Probe{GameID: "game-1", CheckTimestamp: time.Now().UTC(), DeltaMinutes: 10}
	if err := store.AppendProbe(context.Background(), "2026-07-10", probe); err != nil {
		t.Fatalf("AppendProbe() error = %v", err)
	}

	ttl := mr.TTL("playtime_recap:probes:2026-07-10")
	if ttl <= 0 {
		t.Errorf("probe log TTL = %v, expected a positive TTL", ttl)
	}
}

func testSession(key, gameID, localDate string, start time.Time, minutes int) playtime.PlaySession {
	return playtime.PlaySession{
		Key:             key,
		GameID:          gameID,
		GameName:        gameID,
		LocalDate:       localDate,
		StartUTC:        start,
		EndUTC:          start.Add(time.Duration(minutes) * time.Minute),
		StartLocal:      start,
		EndLocal:        start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func TestSessionStore_ReplaceAndList(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisSessionStore(client, RedisSessionStoreConfig{})
	ctx := context.Background()

	start := time.Date(2026, 7, 10, 21, 30, 0, 0, time.UTC)
	sessions := []playtime.PlaySession{
		testSession("2026-07-10:game-1:0", "game-1", "2026-07-10", start, 90),
		testSession("2026-07-10:game-2:0", "game-2", "2026-07-10", start.Add(time.Hour), 30),
	}

	if err := store.ReplaceWindowSessions(ctx, "2026-07-10", sessions); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}

	out, err := store.ListSessionsByDate(ctx, "2026-07-10")
	if err != nil {
		t.Fatalf("ListSessionsByDate() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("ListSessionsByDate() returned %d sessions, expected 2", len(out))
	}
}

func TestSessionStore_ReplaceIsUpsert(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisSessionStore(client, RedisSessionStoreConfig{})
	ctx := context.Background()

	start := time.Date(2026, 7, 10, 21, 30, 0, 0, time.UTC)
	first := []playtime.PlaySession{
		testSession("2026-07-10:game-1:0", "game-1", "2026-07-10", start, 30),
		testSession("2026-07-10:game-1:1", "game-1", "2026-07-10", start.Add(3*time.Hour), 30),
	}

	if err := store.ReplaceWindowSessions(ctx, "2026-07-10", first); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}

	// A later run over the same window merges everything into one
	// session. The stale second session must disappear.
	second := []playtime.PlaySession{
		testSession("2026-07-10:game-1:0", "game-1", "2026-07-10", start, 90),
	}
	if err := store.ReplaceWindowSessions(ctx, "2026-07-10", second); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}

	out, err := store.ListSessionsByDate(ctx, "2026-07-10")
	if err != nil {
		t.Fatalf("ListSessionsByDate() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("ListSessionsByDate() returned %d sessions, expected 1 after replace", len(out))
	}
	if out[0].DurationMinutes != 90 {
		t.Errorf("DurationMinutes = %d, expected 90", out[0].DurationMinutes)
	}
}

func TestSessionStore_ReplaceLeavesOtherWindowsAlone(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisSessionStore(client, RedisSessionStoreConfig{})
	ctx := context.Background()

	day1 := time.Date(2026, 7, 10, 21, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 7, 11, 21, 30, 0, 0, time.UTC)

	if err := store.ReplaceWindowSessions(ctx, "2026-07-10", []playtime.PlaySession{
		testSession("2026-07-10:game-1:0", "game-1", "2026-07-10", day1, 30),
	}); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}
	if err := store.ReplaceWindowSessions(ctx, "2026-07-11", []playtime.PlaySession{
		testSession("2026-07-11:game-1:0", "game-1", "2026-07-11", day2, 60),
	}); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}

	out, err := store.ListSessionsByDate(ctx, "2026-07-10")
	if err != nil {
		t.Fatalf("ListSessionsByDate() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("replacing one window touched another: got %d sessions for 2026-07-10", len(out))
	}
}

func TestSessionStore_DropsStaleIndexMembers(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisSessionStore(client, RedisSessionStoreConfig{})
	ctx := context.Background()

	start := time.Date(2026, 7, 10, 21, 30, 0, 0, time.UTC)
	if err := store.ReplaceWindowSessions(ctx, "2026-07-10", []playtime.PlaySession{
		testSession("2026-07-10:game-1:0", "game-1", "2026-07-10", start, 30),
	}); err != nil {
		t.Fatalf("ReplaceWindowSessions() error = %v", err)
	}

	// Simulate a crash window: the session blob is gone but the index
	// member survived.
	mr.Del("playtime_recap:session:2026-07-10:game-1:0")

	out, err := store.ListSessionsByDate(ctx, "2026-07-10")
	if err != nil {
		t.Fatalf("ListSessionsByDate() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("ListSessionsByDate() returned %d sessions, expected stale member dropped", len(out))
	}
}
