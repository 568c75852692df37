// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-playtime-recap/internal/config"
	"github.com/AccelByte/extend-playtime-recap/internal/server"
	"github.com/AccelByte/extend-playtime-recap/pkg/playtime"
	"github.com/AccelByte/extend-playtime-recap/pkg/recap"
	"github.com/AccelByte/extend-playtime-recap/pkg/service"

	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/factory"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/iam"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	sdkAuth "github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/utils/auth"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application
// lifecycle. Components are initialized in dependency order: AccelByte SDK
// auth, Redis, tracker config, timezone, stores and upstream source, the
// prober/segmenter/aggregator trio, servers, telemetry.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	prober            *playtime.Prober
	segmenter         *playtime.Segmenter
	shutdownTelemetry func(context.Context) error

	// AccelByte SDK repositories (shared across all services)
	configRepo *sdkAuth.ConfigRepositoryImpl
	tokenRepo  *sdkAuth.TokenRepositoryImpl
}

// New creates and initializes a new application instance.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	if err := app.initAccelByteSDKAuth(); err != nil {
		return nil, fmt.Errorf("failed to init AccelByte SDK: %w", err)
	}

	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	trackerConfig, err := playtime.LoadTrackerConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker config from %s: %w", cfg.ConfigPath, err)
	}
	games := trackerConfig.EnabledGames()
	logrus.Infof("loaded tracker configuration from %s: %d games enabled", cfg.ConfigPath, len(games))

	// The localizer drives every localDate the service writes. A broken
	// timezone fails startup here rather than corrupting session records.
	localizer, err := playtime.NewLocalizer(cfg.RecapTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to init timezone: %w", err)
	}
	logrus.Infof("recap timezone: %s", localizer.Name())

	watermarkStore := service.NewRedisWatermarkStore(app.redisClient, service.RedisWatermarkStoreConfig{})
	probeStore := service.NewRedisProbeStore(app.redisClient, service.RedisProbeStoreConfig{})
	sessionStore := service.NewRedisSessionStore(app.redisClient, service.RedisSessionStoreConfig{})

	source := app.initPlaytimeSource(trackerConfig.Player.UserID, games)

	app.prober = playtime.NewProber(source, watermarkStore, probeStore)
	app.segmenter = playtime.NewSegmenter(probeStore, sessionStore, localizer)
	aggregator := playtime.NewAggregator(sessionStore)

	var narrator *recap.Narrator
	if cfg.NarrativeEnabled {
		narrator = recap.NewNarrator(cfg.NarrativeModel)
		logrus.Infof("narrative recaps enabled with model %s", cfg.NarrativeModel)
	}

	healthChecker := service.NewHealthChecker(app.redisClient)

	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, aggregator, narrator, healthChecker)
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup query API server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initAccelByteSDKAuth initializes the AccelByte SDK auth by performing
// client login. The configRepo and tokenRepo are stored in the App struct
// and reused by all AccelByte services to share authentication.
func (a *App) initAccelByteSDKAuth() error {
	a.configRepo = sdkAuth.DefaultConfigRepositoryImpl()
	a.tokenRepo = sdkAuth.DefaultTokenRepositoryImpl()
	refreshRepo := &sdkAuth.RefreshTokenImpl{AutoRefresh: true, RefreshRate: 0.8}

	oauthService := iam.OAuth20Service{
		Client:                 factory.NewIamClient(a.configRepo),
		ConfigRepository:       a.configRepo,
		TokenRepository:        a.tokenRepo,
		RefreshTokenRepository: refreshRepo,
	}

	clientID := a.configRepo.GetClientId()
	clientSecret := a.configRepo.GetClientSecret()

	if err := oauthService.LoginClient(&clientID, &clientSecret); err != nil {
		return fmt.Errorf("unable to login using clientId and clientSecret: %w", err)
	}

	logrus.Info("AccelByte SDK initialized and authenticated")
	return nil
}

// initRedis initializes the Redis client with connection retry.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, 5)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initPlaytimeSource creates the AGS statistics source for the tracked
// player. Reuses a.configRepo and a.tokenRepo to share the authenticated
// session from initAccelByteSDKAuth.
func (a *App) initPlaytimeSource(userID string, games []playtime.GameConfig) playtime.Source {
	statisticsService := &social.UserStatisticService{
		Client:           factory.NewSocialClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}

	return service.NewPlaytimeStatisticsSource(statisticsService,
		service.PlaytimeStatisticsSourceConfig{
			Namespace: a.cfg.ABNamespace,
			UserID:    userID,
			Games:     games,
		})
}
