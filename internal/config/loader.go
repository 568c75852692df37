// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables. It attempts to load
// from a .env file first (for local development), then parses environment
// variables into the Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.ABNamespace == "" {
		return fmt.Errorf("AB_NAMESPACE is required")
	}

	// A broken timezone must fail startup: every localDate the service ever
	// writes depends on it, and a silent UTC fallback would be wrong data.
	// time.LoadLocation("") resolves to UTC, so the empty string needs its
	// own check.
	if c.RecapTimezone == "" {
		return fmt.Errorf("RECAP_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.RecapTimezone); err != nil {
		return fmt.Errorf("invalid RECAP_TIMEZONE %q: %w", c.RecapTimezone, err)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if c.SegmentInterval <= 0 {
		return fmt.Errorf("SEGMENT_INTERVAL must be positive")
	}

	return nil
}
