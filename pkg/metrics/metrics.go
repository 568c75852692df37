// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Application metrics. Defined here and registered by the metrics server
// (internal/server/metrics.go); incremented at the call sites.
var (
	// ProbesEmittedTotal counts probes logged by the prober, per game.
	ProbesEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playtime_recap_probes_emitted_total",
			Help: "Total number of playtime probes emitted",
		},
		[]string{"game_id"},
	)

	// ProbeCycleErrorsTotal counts polling cycles that failed wholesale
	// (upstream read failure before any per-game processing).
	ProbeCycleErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "playtime_recap_probe_cycle_errors_total",
			Help: "Total number of polling cycles aborted by an upstream read failure",
		},
	)

	// ProbeGameErrorsTotal counts per-game faults inside a polling cycle.
	ProbeGameErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playtime_recap_probe_game_errors_total",
			Help: "Total number of per-game probe processing failures",
		},
		[]string{"game_id"},
	)

	// SegmenterRunsTotal counts segmentation runs by result ("ok"/"error").
	SegmenterRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playtime_recap_segmenter_runs_total",
			Help: "Total number of segmentation runs",
		},
		[]string{"result"},
	)

	// SessionsWrittenTotal counts sessions persisted by the segmenter.
	SessionsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playtime_recap_sessions_written_total",
			Help: "Total number of play sessions written",
		},
		[]string{"game_id"},
	)

	// RecapQueriesTotal counts recap API requests by endpoint.
	RecapQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playtime_recap_queries_total",
			Help: "Total number of recap queries served",
		},
		[]string{"endpoint"},
	)
)

// Register registers all application metrics on the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		ProbesEmittedTotal,
		ProbeCycleErrorsTotal,
		ProbeGameErrorsTotal,
		SegmenterRunsTotal,
		SessionsWrittenTotal,
		RecapQueriesTotal,
	)
}
