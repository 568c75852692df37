// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// mapSessionStore is an in-memory SessionStore keyed by local date.
type mapSessionStore struct {
	byDate  map[string][]PlaySession
	listErr error
}

func (m *mapSessionStore) ReplaceWindowSessions(ctx context.Context, windowID string, sessions []PlaySession) error {
	return nil
}

func (m *mapSessionStore) ListSessionsByDate(ctx context.Context, localDate string) ([]PlaySession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byDate[localDate], nil
}

func sessionOn(t *testing.T, gameID, localDate, start string, minutes int) PlaySession {
	t.Helper()
	startUTC := mustTime(t, start)
	return PlaySession{
		Key:             fmt.Sprintf("%s:%s:0", localDate, gameID),
		GameID:          gameID,
		LocalDate:       localDate,
		StartUTC:        startUTC,
		EndUTC:          startUTC.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func TestAggregator_DailyTotal(t *testing.T) {
	store := &mapSessionStore{byDate: map[string][]PlaySession{
		"2026-07-10": {
			sessionOn(t, "game-2", "2026-07-10", "2026-07-10T20:00:00Z", 60),
			sessionOn(t, "game-1", "2026-07-10", "2026-07-10T09:30:00Z", 30),
		},
	}}
	agg := NewAggregator(store)

	rec, err := agg.DailyTotal(context.Background(), "2026-07-10")
	if err != nil {
		t.Fatalf("DailyTotal() error = %v", err)
	}

	if rec.TotalMinutes != 90 {
		t.Errorf("TotalMinutes = %d, expected 90", rec.TotalMinutes)
	}
	if rec.SessionCount != 2 {
		t.Errorf("SessionCount = %d, expected 2", rec.SessionCount)
	}
	// Sessions come back ordered by start time regardless of store order.
	if rec.Sessions[0].GameID != "game-1" {
		t.Errorf("first session = %s, expected game-1", rec.Sessions[0].GameID)
	}
}

func TestAggregator_DailyTotal_EmptyDay(t *testing.T) {
	agg := NewAggregator(&mapSessionStore{byDate: map[string][]PlaySession{}})

	rec, err := agg.DailyTotal(context.Background(), "2026-07-10")
	if err != nil {
		t.Fatalf("DailyTotal() error = %v", err)
	}

	if rec.TotalMinutes != 0 || rec.SessionCount != 0 {
		t.Errorf("empty day recap = %+v, expected zero totals", rec)
	}
	if rec.Sessions == nil {
		t.Error("Sessions is nil, expected empty slice")
	}
}

func TestAggregator_DailyTotal_MalformedDate(t *testing.T) {
	store := &mapSessionStore{byDate: map[string][]PlaySession{}}
	agg := NewAggregator(store)

	for _, date := range []string{"not-a-date", "2026-13-40", ""} {
		rec, err := agg.DailyTotal(context.Background(), date)
		if err != nil {
			t.Fatalf("DailyTotal(%q) error = %v, expected empty recap", date, err)
		}
		if rec.SessionCount != 0 {
			t.Errorf("DailyTotal(%q) SessionCount = %d, expected 0", date, rec.SessionCount)
		}
	}
}

func TestAggregator_RangeTotal(t *testing.T) {
	store := &mapSessionStore{byDate: map[string][]PlaySession{
		"2026-07-10": {sessionOn(t, "game-1", "2026-07-10", "2026-07-10T09:30:00Z", 30)},
		"2026-07-11": {sessionOn(t, "game-1", "2026-07-11", "2026-07-11T20:00:00Z", 60)},
		"2026-07-13": {sessionOn(t, "game-1", "2026-07-13", "2026-07-13T20:00:00Z", 90)},
	}}
	agg := NewAggregator(store)

	tests := []struct {
		name         string
		start, end   string
		wantMinutes  int
		wantSessions int
	}{
		{name: "inclusive range", start: "2026-07-10", end: "2026-07-13", wantMinutes: 180, wantSessions: 3},
		{name: "single day range", start: "2026-07-11", end: "2026-07-11", wantMinutes: 60, wantSessions: 1},
		{name: "range with empty days", start: "2026-07-12", end: "2026-07-12", wantMinutes: 0, wantSessions: 0},
		{name: "inverted range is empty", start: "2026-07-13", end: "2026-07-10", wantMinutes: 0, wantSessions: 0},
		{name: "malformed start is empty", start: "garbage", end: "2026-07-13", wantMinutes: 0, wantSessions: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := agg.RangeTotal(context.Background(), tt.start, tt.end)
			if err != nil {
				t.Fatalf("RangeTotal() error = %v", err)
			}
			if rec.TotalMinutes != tt.wantMinutes {
				t.Errorf("TotalMinutes = %d, expected %d", rec.TotalMinutes, tt.wantMinutes)
			}
			if rec.SessionCount != tt.wantSessions {
				t.Errorf("SessionCount = %d, expected %d", rec.SessionCount, tt.wantSessions)
			}
		})
	}
}

func TestAggregator_DailyTotal_StoreError(t *testing.T) {
	agg := NewAggregator(&mapSessionStore{listErr: fmt.Errorf("redis down")})

	if _, err := agg.DailyTotal(context.Background(), "2026-07-10"); err == nil {
		t.Error("DailyTotal() expected error when the store fails")
	}
}
