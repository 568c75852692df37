package playtime

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrackerConfig is the tracked-games configuration loaded from YAML. It
// names the player whose counters are polled and the games (with their AGS
// stat codes) to track.
type TrackerConfig struct {
	Player PlayerConfig `yaml:"player"`
	Games  []GameConfig `yaml:"games"`
}

// PlayerConfig identifies the AGS user whose playtime is aggregated.
type PlayerConfig struct {
	UserID string `yaml:"user_id"`
}

// GameConfig is one tracked game entry.
type GameConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	StatCode string `yaml:"stat_code"`
	Enabled  bool   `yaml:"enabled"`
}

// LoadTrackerConfig loads the tracker configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or
// ${VAR_NAME:default}.
func LoadTrackerConfig(path string) (*TrackerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var config TrackerConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *TrackerConfig) Validate() error {
	if c.Player.UserID == "" {
		return fmt.Errorf("player user_id is required")
	}

	if len(c.Games) == 0 {
		return fmt.Errorf("at least one game must be configured")
	}

	gameIDs := make(map[string]bool)
	statCodes := make(map[string]bool)
	for _, game := range c.Games {
		if game.ID == "" {
			return fmt.Errorf("game with empty ID found")
		}
		if gameIDs[game.ID] {
			return fmt.Errorf("duplicate game ID: %s", game.ID)
		}
		gameIDs[game.ID] = true

		if game.StatCode == "" {
			return fmt.Errorf("game %s has empty stat_code", game.ID)
		}
		if statCodes[game.StatCode] {
			return fmt.Errorf("duplicate stat_code: %s", game.StatCode)
		}
		statCodes[game.StatCode] = true
	}

	return nil
}

// EnabledGames returns the games with tracking enabled.
func (c *TrackerConfig) EnabledGames() []GameConfig {
	out := make([]GameConfig, 0, len(c.Games))
	for _, game := range c.Games {
		if game.Enabled {
			out = append(out, game)
		}
	}
	return out
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
