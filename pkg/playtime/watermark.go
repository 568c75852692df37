// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"time"
)

// NewWatermark initializes the watermark for a game's first observation.
// No probe is emitted on the first observation: without a previous counter
// value, no delta is knowable yet.
func NewWatermark(obs Observation, now time.Time) Watermark {
	return Watermark{
		GameID:             obs.GameID,
		GameName:           obs.GameName,
		CumulativeMinutes:  obs.CumulativeMinutes,
		LastCheckTimestamp: now,
	}
}

// AdvanceWatermark folds one upstream observation into a game's watermark.
// It returns the updated watermark and, when new playtime accrued, the
// probe to log. The watermark never decreases: an observed value below the
// stored one (a transient upstream regression) is treated as a zero delta
// and the max value seen is kept.
func AdvanceWatermark(prev Watermark, obs Observation, now time.Time) (Watermark, *Probe) {
	next := prev
	next.GameName = obs.GameName
	next.LastCheckTimestamp = now

	delta := obs.CumulativeMinutes - prev.CumulativeMinutes
	if delta <= 0 {
		return next, nil
	}

	next.CumulativeMinutes = obs.CumulativeMinutes

	return next, &Probe{
		GameID:         obs.GameID,
		GameName:       obs.GameName,
		CheckTimestamp: now,
		DeltaMinutes:   delta,
	}
}
