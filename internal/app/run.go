// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/sirupsen/logrus"
)

// Run starts the servers and the polling/segmentation loops and blocks
// until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(ctx); err != nil {
		return err
	}
	if err := a.metricsServer.Start(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.pollLoop(ctx)
	go a.segmentLoop(ctx)

	logrus.Info("application started successfully")

	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// pollLoop drives the prober on the configured cadence. A failed cycle is
// logged and the loop moves on; the watermarks were left untouched so the
// next cycle observes the same deltas.
func (a *App) pollLoop(ctx context.Context) {
	logrus.Infof("starting probe loop (every %v)", a.cfg.PollInterval)

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("probe loop stopped")
			return
		case now := <-ticker.C:
			if err := a.prober.RunCycle(ctx, now.UTC()); err != nil {
				logrus.Errorf("probe cycle failed: %v", err)
			}
		}
	}
}

// segmentLoop re-segments the recent processing windows on the configured
// cadence. Segmentation is idempotent, so re-running over a window that
// gained no probes is a no-op apart from the write.
func (a *App) segmentLoop(ctx context.Context) {
	logrus.Infof("starting segmentation loop (every %v)", a.cfg.SegmentInterval)

	ticker := time.NewTicker(a.cfg.SegmentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("segmentation loop stopped")
			return
		case now := <-ticker.C:
			a.segmentRecentWindows(ctx, now.UTC())
		}
	}
}

// segmentRecentWindows segments the previous and current UTC-day windows.
// The previous window is included so probes that landed just before the
// day rollover are still finalized after it.
func (a *App) segmentRecentWindows(ctx context.Context, now time.Time) {
	windows := []string{
		playtime.WindowID(now.AddDate(0, 0, -1)),
		playtime.WindowID(now),
	}

	for _, windowID := range windows {
		if _, err := a.segmenter.SegmentWindow(ctx, windowID); err != nil {
			logrus.Errorf("segmentation failed for window %s: %v", windowID, err)
		}
	}
}

// Shutdown gracefully shuts down all application components in reverse
// dependency order: servers first, then external connections, then
// telemetry. Shutdown errors are logged but don't stop the sequence.
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("query API server shutdown error: %v", err)
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
