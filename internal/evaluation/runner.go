package evaluation

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/observability"
)

// defaultTopK is how many ranked candidates a test scores when the caller
// does not override it.
const defaultTopK = 5

// Runner orchestrates per-user evaluation tests and accumulates their
// results. Each Runner owns its result list; construct one per evaluation
// run. Not safe for concurrent use.
type Runner struct {
	events  []entities.SearchEvent
	engine  providers.RecommendationProvider
	scorer  *Scorer
	topK    int
	results []*TestResult
	metrics *observability.Metrics
}

// NewRunner creates a runner over the full event log, the load catalog and
// the recommendation engine under evaluation.
func NewRunner(events []entities.SearchEvent, loads repositories.LoadRepository, engine providers.RecommendationProvider) *Runner {
	return &Runner{
		events: events,
		engine: engine,
		scorer: NewScorer(loads),
		topK:   defaultTopK,
	}
}

// SetTopK overrides how many ranked candidates are scored per test.
func (r *Runner) SetTopK(k int) {
	if k > 0 {
		r.topK = k
	}
}

// SetMetrics attaches harness metrics counters.
func (r *Runner) SetMetrics(m *observability.Metrics) {
	r.metrics = m
}

// RunTest evaluates the engine's recommendations for one user under one
// filter configuration. An unknown user, an engine failure or a scoring
// failure is logged and yields nil without appending a result; the caller
// checks for nil and skips reporting.
func (r *Runner) RunTest(ctx context.Context, userID int64, filter FilterConfig) *TestResult {
	logger := observability.LoggerFromContext(ctx)

	profile, err := BuildProfile(userID, r.events)
	if err != nil {
		logger.Warn().
			Int64("user_id", userID).
			Msg("user not found in event log, skipping test")
		return nil
	}

	recs, err := r.engine.GetRecommendations(ctx, userID, filter.RecommendationFilter())
	if err != nil {
		logger.Error().
			Err(err).
			Int64("user_id", userID).
			Str("mode", filter.Mode().String()).
			Msg("recommendation engine call failed")
		if r.metrics != nil {
			r.metrics.EngineFailures.Add(ctx, 1)
		}
		return nil
	}
	if len(recs) > r.topK {
		recs = recs[:r.topK]
	}

	outcome, err := r.scorer.Score(ctx, recs, profile, filter)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to score recommendations")
		return nil
	}

	result := &TestResult{
		ID:              uuid.New().String(),
		UserID:          userID,
		Profile:         profile,
		Recommendations: recs,
		Match:           outcome,
		CurrentLocation: filter.CurrentLocation,
		DistanceFilter:  filter.DistanceFilter(),
		DatetimeFilter:  filter.DatetimeFilter(),
	}

	r.results = append(r.results, result)
	if r.metrics != nil {
		r.metrics.TestsRun.Add(ctx, 1)
	}
	return result
}

// Results returns the accumulated test results in run order.
func (r *Runner) Results() []*TestResult {
	return r.results
}

// Summarize folds the accumulated results into summary statistics.
func (r *Runner) Summarize() SummaryStats {
	return Summarize(r.results)
}
