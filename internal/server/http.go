// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AccelByte/extend-playtime-recap/pkg/common"
	"github.com/AccelByte/extend-playtime-recap/pkg/metrics"
	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"
	"github.com/AccelByte/extend-playtime-recap/pkg/recap"
	"github.com/AccelByte/extend-playtime-recap/pkg/service"

	"github.com/sirupsen/logrus"
)

// HTTPServer serves the recap query API and the health endpoint.
type HTTPServer struct {
	server     *http.Server
	port       int
	aggregator *playtime.Aggregator
	narrator   *recap.Narrator // nil when narrative recaps are disabled
	health     *service.HealthChecker
}

// NewHTTPServer creates a new query API server instance.
func NewHTTPServer(
	port int,
	aggregator *playtime.Aggregator,
	narrator *recap.Narrator,
	health *service.HealthChecker,
) *HTTPServer {
	return &HTTPServer{
		port:       port,
		aggregator: aggregator,
		narrator:   narrator,
		health:     health,
	}
}

// recapResponse is the wire shape for both daily and range recaps.
type recapResponse struct {
	Date         string                 `json:"date,omitempty"`
	StartDate    string                 `json:"startDate,omitempty"`
	EndDate      string                 `json:"endDate,omitempty"`
	TotalMinutes int                    `json:"totalMinutes"`
	SessionCount int                    `json:"sessionCount"`
	Sessions     []playtime.PlaySession `json:"sessions"`
	Narrative    string                 `json:"narrative,omitempty"`
}

// Setup configures the HTTP routes.
func (s *HTTPServer) Setup() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/recap/daily", s.handleDaily)
	mux.HandleFunc("/v1/recap/range", s.handleRange)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	return nil
}

// Start begins serving the query API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("query API server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("query API server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the query API server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down query API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("query API server stopped")
	return nil
}

func (s *HTTPServer) handleDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	scope := common.GetScopeFromContext(r.Context(), "HTTP.RecapDaily")
	defer scope.Finish()
	metrics.RecapQueriesTotal.WithLabelValues("daily").Inc()

	date := r.URL.Query().Get("date")
	scope.AddBaggage("localDate", date)

	rec, err := s.aggregator.DailyTotal(scope.Ctx, date)
	if err != nil {
		scope.TraceError(err)
		logrus.Errorf("daily recap query failed for %s: %v", date, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build recap"})
		return
	}

	resp := recapResponse{
		Date:         date,
		TotalMinutes: rec.TotalMinutes,
		SessionCount: rec.SessionCount,
		Sessions:     rec.Sessions,
	}

	if s.narrator != nil && r.URL.Query().Get("narrative") == "true" {
		narrative, err := s.narrator.Narrate(scope.Ctx, date, rec)
		if err != nil {
			// The narrative is decorative; degrade to the plain recap.
			logrus.Warnf("narrative generation failed for %s: %v", date, err)
		} else {
			resp.Narrative = narrative
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	scope := common.GetScopeFromContext(r.Context(), "HTTP.RecapRange")
	defer scope.Finish()
	metrics.RecapQueriesTotal.WithLabelValues("range").Inc()

	startDate := r.URL.Query().Get("start")
	endDate := r.URL.Query().Get("end")

	rec, err := s.aggregator.RangeTotal(scope.Ctx, startDate, endDate)
	if err != nil {
		scope.TraceError(err)
		logrus.Errorf("range recap query failed for %s..%s: %v", startDate, endDate, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build recap"})
		return
	}

	writeJSON(w, http.StatusOK, recapResponse{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalMinutes: rec.TotalMinutes,
		SessionCount: rec.SessionCount,
		Sessions:     rec.Sessions,
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health.IsHealthy(r.Context()) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}
