package recap

import (
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"
)

func TestBuildPrompt(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	start := time.Date(2026, 7, 10, 21, 30, 0, 0, time.UTC)
	rec := &playtime.Recap{
		TotalMinutes: 90,
		SessionCount: 1,
		Sessions: []playtime.PlaySession{
			{
				GameID:          "game-1",
				GameName:        "Rocket Rally",
				StartLocal:      start.In(loc),
				EndLocal:        start.Add(90 * time.Minute).In(loc),
				DurationMinutes: 90,
			},
		},
	}

	prompt := buildPrompt("2026-07-10", rec)

	for _, want := range []string{
		"Date: 2026-07-10",
		"Total minutes played: 90",
		"Session count: 1",
		"Rocket Rally",
		"17:30 to 19:00",
		"(90 minutes)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("buildPrompt() missing %q in:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_EmptyDay(t *testing.T) {
	prompt := buildPrompt("2026-07-10", &playtime.Recap{Sessions: []playtime.PlaySession{}})

	if !strings.Contains(prompt, "No play sessions recorded.") {
		t.Errorf("buildPrompt() for an empty day missing the no-sessions line:\n%s", prompt)
	}
	if strings.Contains(prompt, "Sessions:") {
		t.Errorf("buildPrompt() for an empty day should not list sessions:\n%s", prompt)
	}
}
