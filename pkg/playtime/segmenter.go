// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"context"
	"fmt"
	"sort"

	"github.com/AccelByte/extend-playtime-recap/pkg/common"
	"github.com/AccelByte/extend-playtime-recap/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Segmenter converts the probes of one processing window into the window's
// finalized, non-overlapping session set. Segmentation is a pure function
// of its probe input (see SegmentProbes); the Segmenter adds the two I/O
// boundaries around it: reading the window's probes and persisting the
// session set. Both must succeed for the run to count, and a failed run is
// retried wholesale because the merge rule needs the complete probe set.
type Segmenter struct {
	probes    ProbeStore
	sessions  SessionStore
	localizer *Localizer
}

// NewSegmenter creates a segmenter. The localizer must already be resolved;
// timezone failures are startup configuration errors, not run errors.
func NewSegmenter(probes ProbeStore, sessions SessionStore, localizer *Localizer) *Segmenter {
	return &Segmenter{
		probes:    probes,
		sessions:  sessions,
		localizer: localizer,
	}
}

// SegmentWindow runs segmentation for one processing window. Idempotent:
// re-running over an unchanged probe set reproduces the identical session
// set, and persisting replaces the window's prior sessions rather than
// duplicating them.
func (s *Segmenter) SegmentWindow(ctx context.Context, windowID string) ([]PlaySession, error) {
	scope := common.GetScopeFromContext(ctx, "Segmenter.SegmentWindow")
	defer scope.Finish()
	scope.AddBaggage("windowId", windowID)

	probes, err := s.probes.ListProbes(scope.Ctx, windowID)
	if err != nil {
		metrics.SegmenterRunsTotal.WithLabelValues("error").Inc()
		scope.TraceError(err)
		return nil, fmt.Errorf("failed to read probes for window %s: %w", windowID, err)
	}

	sessions := SegmentProbes(windowID, probes, s.localizer)

	if err := s.sessions.ReplaceWindowSessions(scope.Ctx, windowID, sessions); err != nil {
		metrics.SegmenterRunsTotal.WithLabelValues("error").Inc()
		scope.TraceError(err)
		return nil, fmt.Errorf("failed to persist sessions for window %s: %w", windowID, err)
	}

	metrics.SegmenterRunsTotal.WithLabelValues("ok").Inc()
	for _, sess := range sessions {
		metrics.SessionsWrittenTotal.WithLabelValues(sess.GameID).Inc()
	}

	logrus.Infof("segmented window %s: %d probes into %d sessions",
		windowID, len(probes), len(sessions))

	return sessions, nil
}

// SegmentProbes is the pure segmentation core: group probes by game, sort
// chronologically (ties keep insertion order), snap to canonical blocks,
// deduplicate blocks, merge under the gap tolerance, and attribute each
// session to the local calendar date of its START instant. Deterministic
// for a given input, including session key assignment.
func SegmentProbes(windowID string, probes []Probe, localizer *Localizer) []PlaySession {
	byGame := make(map[string][]Probe)
	names := make(map[string]string)
	var gameIDs []string

	for _, p := range probes {
		// A zero or negative delta carries no play signal. The prober never
		// emits one, but segmentation stays correct on a dirty probe log.
		if p.DeltaMinutes <= 0 {
			continue
		}
		if _, ok := byGame[p.GameID]; !ok {
			gameIDs = append(gameIDs, p.GameID)
			names[p.GameID] = p.GameName
		}
		byGame[p.GameID] = append(byGame[p.GameID], p)
	}

	// Per-game streams are independent; game order only affects output
	// ordering, which is kept deterministic by sorting the IDs.
	sort.Strings(gameIDs)

	sessions := make([]PlaySession, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		gameProbes := byGame[gameID]

		sort.SliceStable(gameProbes, func(i, j int) bool {
			return gameProbes[i].CheckTimestamp.Before(gameProbes[j].CheckTimestamp)
		})

		blocks := make([]Block, 0, len(gameProbes))
		for _, p := range gameProbes {
			blocks = append(blocks, SnapToBlock(p.CheckTimestamp))
		}
		blocks = DedupeBlocks(blocks)

		for ordinal, run := range mergeBlocks(blocks, GapTolerance) {
			sessions = append(sessions, PlaySession{
				Key:             SessionKey(windowID, gameID, ordinal),
				GameID:          gameID,
				GameName:        names[gameID],
				LocalDate:       localizer.LocalDate(run.start),
				StartUTC:        run.start,
				EndUTC:          run.end,
				StartLocal:      localizer.ToLocal(run.start),
				EndLocal:        localizer.ToLocal(run.end),
				DurationMinutes: run.blockCount * BlockMinutes,
			})
		}
	}

	return sessions
}
