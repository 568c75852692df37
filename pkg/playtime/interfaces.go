package playtime

import (
	"context"
)

// Interfaces for the external collaborators the playtime engine depends on.
// The engine itself never talks to Redis or the AGS APIs directly; it only
// sees these narrow surfaces, which keeps the segmentation and delta logic
// pure and makes the collaborators easy to mock in unit tests.

// Source reads the upstream cumulative playtime counters, one observation
// per tracked game. No assumption is made about polling-interval regularity.
type Source interface {
	ListGamePlaytime(ctx context.Context) ([]Observation, error)
}

// WatermarkStore persists the per-game cumulative-counter watermarks.
type WatermarkStore interface {
	// GetWatermark returns the stored watermark for a game, or nil if the
	// game has never been observed.
	GetWatermark(ctx context.Context, gameID string) (*Watermark, error)
	PutWatermark(ctx context.Context, w Watermark) error
}

// ProbeStore persists the append-only probe log, grouped by processing
// window. Insertion order must be preserved: it is the deterministic
// tie-break for probes with equal timestamps.
type ProbeStore interface {
	AppendProbe(ctx context.Context, windowID string, probe Probe) error
	ListProbes(ctx context.Context, windowID string) ([]Probe, error)
}

// SessionStore persists finalized play sessions and serves them back by
// local calendar date.
type SessionStore interface {
	// ReplaceWindowSessions atomically-enough swaps a window's session set:
	// stale sessions from a previous run over the same window are removed
	// before the new set is written, so an interrupted run followed by a
	// re-run never leaves duplicates.
	ReplaceWindowSessions(ctx context.Context, windowID string, sessions []PlaySession) error
	ListSessionsByDate(ctx context.Context, localDate string) ([]PlaySession, error)
}
