package mock

import (
	"context"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"
)

// PlaytimeSource is a mock implementation of playtime.Source for testing
type PlaytimeSource struct {
	// ListGamePlaytimeFunc is called when ListGamePlaytime is invoked
	ListGamePlaytimeFunc func(ctx context.Context) ([]playtime.Observation, error)

	// Default data returned when no custom function is provided
	DefaultObservations []playtime.Observation
	DefaultError        error

	// Call tracking
	ListGamePlaytimeCalls int
}

// NewPlaytimeSource creates a new mock PlaytimeSource with defaults
func NewPlaytimeSource() *PlaytimeSource {
	return &PlaytimeSource{
		DefaultObservations: []playtime.Observation{
			{GameID: "game-1", GameName: "Game One", CumulativeMinutes: 120},
			{GameID: "game-2", GameName: "Game Two", CumulativeMinutes: 45},
		},
	}
}

// ListGamePlaytime returns the configured observations
func (m *PlaytimeSource) ListGamePlaytime(ctx context.Context) ([]playtime.Observation, error) {
	m.ListGamePlaytimeCalls++

	if m.ListGamePlaytimeFunc != nil {
		return m.ListGamePlaytimeFunc(ctx)
	}

	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	return m.DefaultObservations, nil
}
