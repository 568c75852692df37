// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"fmt"
	"time"
)

const (
	// BlockLength is the canonical probe bucket size. A polling cycle run at
	// time T reports on the half-hour window that ends at the next :00/:30
	// boundary at or after T.
	BlockLength = 30 * time.Minute

	// BlockMinutes is BlockLength expressed in minutes, used for durations.
	BlockMinutes = 30

	// GapTolerance is the largest gap between a session's end and the next
	// block's start that still counts as the same session. It tolerates one
	// or two missed polling cycles without fragmenting a continuous play
	// session.
	GapTolerance = 90 * time.Minute

	// DateLayout is the calendar date format used for local dates and
	// processing window IDs.
	DateLayout = "2006-01-02"
)

// Observation is one raw reading of the upstream cumulative playtime
// counter for a game. The counter is assumed monotonically non-decreasing.
type Observation struct {
	GameID            string
	GameName          string
	CumulativeMinutes int
}

// Probe is one incremental playtime observation: the minutes accrued for a
// game since the previous probe. Probes are append-only and immutable once
// written; a zero delta is never materialized as a probe.
type Probe struct {
	GameID         string    `json:"gameId"`
	GameName       string    `json:"gameName"`
	CheckTimestamp time.Time `json:"checkTimestamp"`
	DeltaMinutes   int       `json:"deltaMinutes"`
}

// Watermark is the per-game cumulative-counter pointer used to compute
// deltas. One mutable record per game, overwritten every polling cycle.
type Watermark struct {
	GameID             string    `json:"gameId"`
	GameName           string    `json:"gameName"`
	CumulativeMinutes  int       `json:"cumulativeMinutes"`
	LastCheckTimestamp time.Time `json:"lastCheckTimestamp"`
}

// Block is the canonical 30-minute bucket a probe snaps into. Derived,
// never persisted.
type Block struct {
	Start time.Time
	End   time.Time
}

// PlaySession is one merged run of blocks representing a continuous play
// period for a game. Sessions for the same game never overlap.
type PlaySession struct {
	Key             string    `json:"key"`
	GameID          string    `json:"gameId"`
	GameName        string    `json:"gameName"`
	LocalDate       string    `json:"localDate"`
	StartUTC        time.Time `json:"startUtc"`
	EndUTC          time.Time `json:"endUtc"`
	StartLocal      time.Time `json:"startLocal"`
	EndLocal        time.Time `json:"endLocal"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Recap is the aggregate shape served by the query surface.
type Recap struct {
	TotalMinutes int           `json:"totalMinutes"`
	SessionCount int           `json:"sessionCount"`
	Sessions     []PlaySession `json:"sessions"`
}

// WindowID returns the processing window an instant belongs to. Windows are
// UTC calendar days: probes are generated, measured, and stored in UTC, so
// the window boundary must not move with the recap timezone.
func WindowID(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SessionKey builds the deterministic identity of a session. Re-running
// segmentation over an unchanged probe set reproduces identical keys, which
// is what makes persisting a window an upsert instead of an insert.
func SessionKey(windowID, gameID string, ordinal int) string {
	return fmt.Sprintf("%s:%s:%d", windowID, gameID, ordinal)
}
