package recap

import (
	"context"
	"fmt"
	"strings"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/anthropics/anthropic-sdk-go"
)

const narratorSystemPrompt = "You are a friendly personal gaming journal. " +
	"Given one day's play sessions, write a 2-3 sentence recap in plain prose. " +
	"Mention the games by name, the total time played, and anything notable " +
	"about the shape of the day (a long evening session, lots of short bursts). " +
	"Do not invent sessions or games that are not in the data."

// Narrator renders a daily recap into a short narrative via the Anthropic
// Messages API. It is decorative: callers must treat a narration failure as
// a degraded response, never as a failed recap query.
type Narrator struct {
	model string
}

// NewNarrator creates a narrator using the given Anthropic model
// identifier. The API key is read from the environment by the SDK.
func NewNarrator(model string) *Narrator {
	return &Narrator{model: model}
}

// Narrate produces a narrative for one local date's recap.
func (n *Narrator) Narrate(ctx context.Context, localDate string, rec *playtime.Recap) (string, error) {
	client := anthropic.NewClient()

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.model),
		MaxTokens: 300,
		System: []anthropic.TextBlockParam{
			{Text: narratorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(localDate, rec))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text block in response")
}

// buildPrompt renders the recap into the plain-text session log the model
// summarizes. Kept separate from the API call so it can be unit tested.
func buildPrompt(localDate string, rec *playtime.Recap) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s\n", localDate)
	fmt.Fprintf(&b, "Total minutes played: %d\n", rec.TotalMinutes)
	fmt.Fprintf(&b, "Session count: %d\n", rec.SessionCount)

	if rec.SessionCount == 0 {
		b.WriteString("No play sessions recorded.\n")
		return b.String()
	}

	b.WriteString("Sessions:\n")
	for _, s := range rec.Sessions {
		fmt.Fprintf(&b, "- %s: %s to %s (%d minutes)\n",
			s.GameName,
			s.StartLocal.Format("15:04"),
			s.EndLocal.Format("15:04"),
			s.DurationMinutes)
	}

	return b.String()
}
