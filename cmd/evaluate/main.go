package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fleetmatch/loadrec-eval/internal/adapters/cache"
	"github.com/fleetmatch/loadrec-eval/internal/adapters/catalog"
	"github.com/fleetmatch/loadrec-eval/internal/adapters/database"
	"github.com/fleetmatch/loadrec-eval/internal/adapters/eventlog"
	"github.com/fleetmatch/loadrec-eval/internal/adapters/recommender"
	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/evaluation"
	redisclient "github.com/fleetmatch/loadrec-eval/internal/infrastructure/clients/redis"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/observability"
	"github.com/fleetmatch/loadrec-eval/pkg/config"
)

// coordinates the demo scenarios cycle through when simulating a driver's
// current position
var demoCities = []entities.Location{
	{Latitude: 39.7392, Longitude: -104.9903}, // Denver
	{Latitude: 40.7128, Longitude: -74.0060},  // New York
	{Latitude: 29.7604, Longitude: -95.3698},  // Houston
	{Latitude: 41.8781, Longitude: -87.6298},  // Chicago
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()
	ctx := context.Background()

	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to set up tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("tracer shutdown failed")
			}
		}()
	}

	events, err := eventlog.NewCSVRepository(cfg.Data.ClickstreamPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Data.ClickstreamPath).Msg("failed to load clickstream")
	}

	loads, err := catalog.NewJSONCatalog(cfg.Data.LoadsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Data.LoadsPath).Msg("failed to load catalog")
	}
	logger.Info().Int("loads", loads.Len()).Msg("load catalog ready")

	var loadRepo repositories.LoadRepository = loads
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()
		loadRepo = database.NewCachedLoadAdapter(loads, cache.NewRedisAdapter(redisClient))
	}

	var engine providers.RecommendationProvider
	switch cfg.Engine.Provider {
	case "http":
		engine = recommender.NewHTTPProvider(cfg.Engine.BaseURL)
	case "mock":
		engine = recommender.NewMockProvider(loadRepo)
	default:
		logger.Fatal().Str("provider", cfg.Engine.Provider).Msg("unknown engine provider")
	}

	allEvents, err := events.ListAll(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read event log")
	}

	runner := evaluation.NewRunner(allEvents, loadRepo, engine)
	runner.SetTopK(cfg.Engine.TopK)

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Warn().Err(err).Msg("metrics unavailable, continuing without")
	} else {
		runner.SetMetrics(metrics)
	}

	userIDs, err := events.TopUsers(ctx, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to rank users")
	}
	if len(userIDs) == 0 {
		logger.Fatal().Msg("event log contains no users")
	}

	report := evaluation.NewReportWriter(loadRepo, os.Stdout)

	runScenario := func(title string, users []int64, filter func(i int) evaluation.FilterConfig) {
		fmt.Printf("\n\n%s\n", title)
		for i, userID := range users {
			result := runner.RunTest(ctx, userID, filter(i))
			if result == nil {
				continue
			}
			if err := report.WriteReport(ctx, result); err != nil {
				logger.Error().Err(err).Int64("user_id", userID).Msg("failed to render report")
			}
		}
	}

	sample := userIDs
	if len(sample) > 3 {
		sample = sample[:3]
	}

	runScenario("SCENARIO 1: History-based matching (no filters)", sample,
		func(int) evaluation.FilterConfig { return evaluation.FilterConfig{} })

	runScenario("SCENARIO 2: Pickup datetime filter", sample,
		func(int) evaluation.FilterConfig {
			return evaluation.FilterConfig{DesiredDate: "Mar 10 2026", DesiredTime: "9:00 AM"}
		})

	distance := 300.0
	runScenario("SCENARIO 3: Proximity filter (300 miles)", sample,
		func(i int) evaluation.FilterConfig {
			city := demoCities[i%len(demoCities)]
			return evaluation.FilterConfig{CurrentLocation: &city, DistanceRange: &distance}
		})

	both := 250.0
	runScenario("SCENARIO 4: Proximity and datetime filters combined", sample,
		func(i int) evaluation.FilterConfig {
			city := demoCities[i%len(demoCities)]
			return evaluation.FilterConfig{
				CurrentLocation: &city,
				DistanceRange:   &both,
				DesiredDate:     "Mar 10 2026",
				DesiredTime:     "9:00 AM",
			}
		})

	report.WriteSummary(runner.Summarize())
}
