// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-playtime-recap/pkg/common"
	"github.com/AccelByte/extend-playtime-recap/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Prober turns the absolute, monotonic upstream counters into incremental
// probes, logging a probe only when there is new play activity. The delta
// math itself lives in AdvanceWatermark; the Prober owns the I/O around it.
type Prober struct {
	source     Source
	watermarks WatermarkStore
	probes     ProbeStore
}

// NewProber creates a prober over the given upstream source and stores.
func NewProber(source Source, watermarks WatermarkStore, probes ProbeStore) *Prober {
	return &Prober{
		source:     source,
		watermarks: watermarks,
		probes:     probes,
	}
}

// RunCycle polls the upstream counters once. An upstream read failure skips
// the whole cycle with every watermark untouched. Per-game faults after the
// read are logged and isolated: they never abort the cycle for other games.
func (p *Prober) RunCycle(ctx context.Context, now time.Time) error {
	scope := common.GetScopeFromContext(ctx, "Prober.RunCycle")
	defer scope.Finish()

	observations, err := p.source.ListGamePlaytime(scope.Ctx)
	if err != nil {
		metrics.ProbeCycleErrorsTotal.Inc()
		scope.TraceError(err)
		return fmt.Errorf("failed to read upstream playtime counters: %w", err)
	}

	windowID := WindowID(now)
	scope.AddBaggage("windowId", windowID)

	for _, obs := range observations {
		if err := p.processObservation(scope.Ctx, windowID, obs, now); err != nil {
			logrus.Errorf("probe cycle failed for game %s: %v", obs.GameID, err)
			metrics.ProbeGameErrorsTotal.WithLabelValues(obs.GameID).Inc()
		}
	}

	return nil
}

func (p *Prober) processObservation(ctx context.Context, windowID string, obs Observation, now time.Time) error {
	prev, err := p.watermarks.GetWatermark(ctx, obs.GameID)
	if err != nil {
		return fmt.Errorf("failed to get watermark for game %s: %w", obs.GameID, err)
	}

	if prev == nil {
		logrus.Infof("first observation for game %s: initializing watermark at %d minutes",
			obs.GameID, obs.CumulativeMinutes)
		return p.watermarks.PutWatermark(ctx, NewWatermark(obs, now))
	}

	next, probe := AdvanceWatermark(*prev, obs, now)

	if probe != nil {
		// The probe is logged before the watermark advances. If the append
		// fails, the old watermark stays in place and the delta is simply
		// re-observed on the next cycle.
		if err := p.probes.AppendProbe(ctx, windowID, *probe); err != nil {
			return fmt.Errorf("failed to append probe for game %s: %w", obs.GameID, err)
		}
		metrics.ProbesEmittedTotal.WithLabelValues(obs.GameID).Inc()
		logrus.Infof("emitted probe for game %s: +%d minutes (cumulative %d)",
			obs.GameID, probe.DeltaMinutes, next.CumulativeMinutes)
	} else {
		logrus.Debugf("no new playtime for game %s (observed %d, watermark %d)",
			obs.GameID, obs.CumulativeMinutes, prev.CumulativeMinutes)
	}

	if err := p.watermarks.PutWatermark(ctx, next); err != nil {
		return fmt.Errorf("failed to update watermark for game %s: %w", obs.GameID, err)
	}

	return nil
}
