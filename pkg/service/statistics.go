package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclient/user_statistic"
	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"

	"github.com/sirupsen/logrus"
)

// PlaytimeStatisticsSource reads per-game cumulative playtime counters for
// one player from the AGS social statistics service. Each tracked game maps
// to a stat code whose value is total minutes played; AGS stat items are
// monotonically non-decreasing under normal operation.
type PlaytimeStatisticsSource struct {
	statisticsService *social.UserStatisticService
	cfg               PlaytimeStatisticsSourceConfig
}

type PlaytimeStatisticsSourceConfig struct {
	Namespace string
	UserID    string
	Games     []playtime.GameConfig
}

// NewPlaytimeStatisticsSource creates a playtime source over the AGS social
// statistics client.
func NewPlaytimeStatisticsSource(
	statisticsService *social.UserStatisticService,
	cfg PlaytimeStatisticsSourceConfig,
) *PlaytimeStatisticsSource {
	return &PlaytimeStatisticsSource{
		statisticsService: statisticsService,
		cfg:               cfg,
	}
}

// ListGamePlaytime fetches the stat items for all tracked games in one
// call and maps them back to observations. A game whose stat item does not
// exist yet is simply absent from the result.
func (s *PlaytimeStatisticsSource) ListGamePlaytime(ctx context.Context) ([]playtime.Observation, error) {
	statCodes := make([]string, 0, len(s.cfg.Games))
	byStatCode := make(map[string]playtime.GameConfig, len(s.cfg.Games))
	for _, game := range s.cfg.Games {
		statCodes = append(statCodes, game.StatCode)
		byStatCode[game.StatCode] = game
	}

	codes := strings.Join(statCodes, ",")
	input := &user_statistic.GetUserStatItemsParams{
		Namespace: s.cfg.Namespace,
		UserID:    s.cfg.UserID,
		StatCodes: &codes,
	}

	stats, err := s.statisticsService.GetUserStatItemsShort(input)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playtime stat items for user %s: %w", s.cfg.UserID, err)
	}

	var observations []playtime.Observation
	if stats != nil && stats.Data != nil {
		for _, item := range stats.Data {
			if item.StatCode == nil || item.Value == nil {
				continue
			}
			game, ok := byStatCode[*item.StatCode]
			if !ok {
				logrus.Debugf("ignoring untracked stat code: %s", *item.StatCode)
				continue
			}
			observations = append(observations, playtime.Observation{
				GameID:            game.ID,
				GameName:          game.Name,
				CumulativeMinutes: int(*item.Value),
			})
		}
	}

	return observations, nil
}
