// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment
// variables, parsed with github.com/caarlos0/env struct tags.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"PlaytimeRecapService"`

	// AccelByte configuration (REQUIRED)
	ABNamespace    string `env:"AB_NAMESPACE,required"`
	ABBaseURL      string `env:"AB_BASE_URL,required"`
	ABClientID     string `env:"AB_CLIENT_ID,required"`
	ABClientSecret string `env:"AB_CLIENT_SECRET,required"`

	// Redis configuration
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Tracker configuration
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/recap.yaml"`

	// Recap configuration. The timezone is the single IANA zone every
	// localDate is attributed in; there is no per-user zone.
	RecapTimezone   string        `env:"RECAP_TIMEZONE,required"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"5m"`
	SegmentInterval time.Duration `env:"SEGMENT_INTERVAL" envDefault:"30m"`

	// Narrative recap configuration. When enabled, the Anthropic API key is
	// read from ANTHROPIC_API_KEY by the SDK.
	NarrativeEnabled bool   `env:"NARRATIVE_ENABLED" envDefault:"false"`
	NarrativeModel   string `env:"NARRATIVE_MODEL" envDefault:"claude-3-5-haiku-latest"`
}
