// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Aggregator serves day and date-range totals over already-segmented
// sessions. Totals are pure sums; no segmentation logic runs at query time.
type Aggregator struct {
	sessions SessionStore
}

// NewAggregator creates an aggregator over the session store.
func NewAggregator(sessions SessionStore) *Aggregator {
	return &Aggregator{sessions: sessions}
}

// DailyTotal returns the recap for one local calendar date. A malformed
// date yields an empty recap, not an error: the reporting surface stays
// resilient to bad query parameters.
func (a *Aggregator) DailyTotal(ctx context.Context, localDate string) (*Recap, error) {
	if _, err := time.Parse(DateLayout, localDate); err != nil {
		logrus.Debugf("ignoring malformed recap date %q: %v", localDate, err)
		return emptyRecap(), nil
	}

	sessions, err := a.sessions.ListSessionsByDate(ctx, localDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for %s: %w", localDate, err)
	}

	return buildRecap(sessions), nil
}

// RangeTotal returns the recap aggregated over an inclusive local-date
// range. Malformed or inverted ranges yield an empty recap.
func (a *Aggregator) RangeTotal(ctx context.Context, startDate, endDate string) (*Recap, error) {
	start, errStart := time.Parse(DateLayout, startDate)
	end, errEnd := time.Parse(DateLayout, endDate)
	if errStart != nil || errEnd != nil || end.Before(start) {
		logrus.Debugf("ignoring malformed recap range %q..%q", startDate, endDate)
		return emptyRecap(), nil
	}

	var all []PlaySession
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		localDate := d.Format(DateLayout)
		sessions, err := a.sessions.ListSessionsByDate(ctx, localDate)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions for %s: %w", localDate, err)
		}
		all = append(all, sessions...)
	}

	return buildRecap(all), nil
}

func buildRecap(sessions []PlaySession) *Recap {
	if sessions == nil {
		sessions = []PlaySession{}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartUTC.Before(sessions[j].StartUTC)
	})

	total := 0
	for _, s := range sessions {
		total += s.DurationMinutes
	}

	return &Recap{
		TotalMinutes: total,
		SessionCount: len(sessions),
		Sessions:     sessions,
	}
}

func emptyRecap() *Recap {
	return &Recap{Sessions: []PlaySession{}}
}
