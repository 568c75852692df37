// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"sort"
	"time"
)

// SnapToBlock maps a probe timestamp to its canonical 30-minute block. The
// block end is the timestamp rounded UP to the nearest :00/:30 boundary; a
// timestamp exactly on a boundary IS the block end, not the start of the
// next one. This models a poller reporting "what happened in the half-hour
// ending now".
func SnapToBlock(t time.Time) Block {
	end := t.UTC().Truncate(BlockLength)
	if end.Before(t.UTC()) {
		end = end.Add(BlockLength)
	}

	return Block{
		Start: end.Add(-BlockLength),
		End:   end,
	}
}

// DedupeBlocks returns the distinct blocks sorted ascending by end time.
// Two probes landing in the same half-hour window (out-of-order delivery,
// duplicate polls) collapse into one block, so duration accounting is
// driven by distinct block count and never double-counts.
func DedupeBlocks(blocks []Block) []Block {
	seen := make(map[int64]struct{}, len(blocks))
	out := make([]Block, 0, len(blocks))

	for _, b := range blocks {
		key := b.End.Unix()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].End.Before(out[j].End)
	})

	return out
}

// blockRun is an open or closed run of merged blocks while walking a game's
// block sequence. It carries the distinct block count because duration is
// blockCount * BlockMinutes, not the span between start and end.
type blockRun struct {
	start      time.Time
	end        time.Time
	blockCount int
}

// mergeBlocks folds a game's distinct, end-ordered blocks into session
// runs. A block whose start is within gapTolerance of the open run's end
// extends the run; anything further closes the run and opens a new one.
// Implemented as an explicit fold so the merge rule is testable on its own.
func mergeBlocks(blocks []Block, gapTolerance time.Duration) []blockRun {
	var runs []blockRun
	var open *blockRun

	for _, b := range blocks {
		if open == nil {
			open = &blockRun{start: b.Start, end: b.End, blockCount: 1}
			continue
		}

		gap := b.Start.Sub(open.end)
		if gap <= gapTolerance {
			open.end = b.End
			open.blockCount++
			continue
		}

		runs = append(runs, *open)
		open = &blockRun{start: b.Start, end: b.End, blockCount: 1}
	}

	if open != nil {
		runs = append(runs, *open)
	}

	return runs
}
