package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
)

// engineStub is a canned RecommendationProvider for orchestrator tests.
type engineStub struct {
	recs       []entities.RecommendedLoad
	err        error
	calls      int
	lastFilter providers.RecommendationFilter
}

func (e *engineStub) GetRecommendations(ctx context.Context, userID int64, filter providers.RecommendationFilter) ([]entities.RecommendedLoad, error) {
	e.calls++
	e.lastFilter = filter
	return e.recs, e.err
}

func denverEvents() []entities.SearchEvent {
	return eventsFor(7,
		"DENVER,CO", "DENVER,CO", "DENVER,CO", "DENVER,CO", "DENVER,CO", "DENVER,CO",
		"AUSTIN,TX", "AUSTIN,TX", "AUSTIN,TX", "AUSTIN,TX")
}

func TestRunTest_HistoryModeEndToEnd(t *testing.T) {
	catalog := newCatalogStub(
		laneLoad(1, "Denver", "CO", "Seattle", "WA"),
		laneLoad(2, "Denver", "CO", "Portland", "OR"),
		laneLoad(3, "Denver", "CO", "Boise", "ID"),
		laneLoad(4, "Seattle", "WA", "Portland", "OR"),
		laneLoad(5, "Seattle", "WA", "Spokane", "WA"),
	)
	engine := &engineStub{recs: recsForLoads(1, 2, 3, 4, 5)}
	runner := NewRunner(denverEvents(), catalog, engine)

	result := runner.RunTest(context.Background(), 7, FilterConfig{})
	if result == nil {
		t.Fatal("expected a test result")
	}

	if result.Match.HistoryMatches != 3 || result.Match.NoMatches != 2 {
		t.Errorf("unexpected outcome: %+v", result.Match)
	}
	if !almostEqual(result.Match.AccuracyScore, 0.6) {
		t.Errorf("expected accuracy 0.6, got %f", result.Match.AccuracyScore)
	}
	if result.ID == "" {
		t.Error("expected a generated result id")
	}
	if result.DistanceFilter != nil || result.DatetimeFilter != nil || result.CurrentLocation != nil {
		t.Error("filter blocks must be absent when no filters were supplied")
	}
	if len(runner.Results()) != 1 {
		t.Errorf("expected 1 accumulated result, got %d", len(runner.Results()))
	}
}

func TestRunTest_UnknownUserReturnsNilWithoutAppending(t *testing.T) {
	engine := &engineStub{recs: recsForLoads(1)}
	runner := NewRunner(denverEvents(), newCatalogStub(), engine)

	result := runner.RunTest(context.Background(), 404, FilterConfig{})
	if result != nil {
		t.Error("expected nil result for unknown user")
	}
	if engine.calls != 0 {
		t.Error("engine must not be called for an unknown user")
	}
	if len(runner.Results()) != 0 {
		t.Errorf("expected no accumulated results, got %d", len(runner.Results()))
	}
}

func TestRunTest_EngineFailureReturnsNilWithoutAppending(t *testing.T) {
	engine := &engineStub{err: errors.New("engine exploded")}
	runner := NewRunner(denverEvents(), newCatalogStub(), engine)

	result := runner.RunTest(context.Background(), 7, FilterConfig{})
	if result != nil {
		t.Error("expected nil result on engine failure")
	}
	if len(runner.Results()) != 0 {
		t.Errorf("expected no accumulated results, got %d", len(runner.Results()))
	}
}

func TestRunTest_ScoringFailureReturnsNilWithoutAppending(t *testing.T) {
	// engine recommends a load the catalog does not know
	engine := &engineStub{recs: recsForLoads(42)}
	runner := NewRunner(denverEvents(), newCatalogStub(), engine)

	result := runner.RunTest(context.Background(), 7, FilterConfig{})
	if result != nil {
		t.Error("expected nil result when scoring fails")
	}
	if len(runner.Results()) != 0 {
		t.Errorf("expected no accumulated results, got %d", len(runner.Results()))
	}
}

func TestRunTest_ForwardsFiltersToEngine(t *testing.T) {
	catalog := newCatalogStub(laneLoad(1, "Denver", "CO", "Seattle", "WA"))
	engine := &engineStub{recs: recsForLoads(1)}
	runner := NewRunner(denverEvents(), catalog, engine)

	current := entities.Location{Latitude: 39.7, Longitude: -104.9}
	rangeMiles := 300.0
	filter := FilterConfig{
		CurrentLocation: &current,
		DistanceRange:   &rangeMiles,
		DesiredDate:     "Mar 05 2026",
		DesiredTime:     "10:00 AM",
	}

	result := runner.RunTest(context.Background(), 7, filter)
	if result == nil {
		t.Fatal("expected a test result")
	}

	if engine.lastFilter.CurrentLocation == nil || *engine.lastFilter.CurrentLocation != current {
		t.Error("current location not forwarded to engine")
	}
	if engine.lastFilter.DistanceRange == nil || *engine.lastFilter.DistanceRange != rangeMiles {
		t.Error("distance range not forwarded to engine")
	}
	if engine.lastFilter.DesiredDate != "Mar 05 2026" || engine.lastFilter.DesiredTime != "10:00 AM" {
		t.Error("datetime not forwarded to engine")
	}

	if result.DistanceFilter == nil || result.DistanceFilter.DistanceRange != rangeMiles {
		t.Error("expected normalized distance filter block on the result")
	}
	if result.DatetimeFilter == nil || result.DatetimeFilter.DesiredDate != "Mar 05 2026" {
		t.Error("expected normalized datetime filter block on the result")
	}
}

func TestRunTest_DatetimeBlockRequiresBothFields(t *testing.T) {
	catalog := newCatalogStub(laneLoad(1, "Denver", "CO", "Seattle", "WA"))
	engine := &engineStub{recs: recsForLoads(1)}
	runner := NewRunner(denverEvents(), catalog, engine)

	result := runner.RunTest(context.Background(), 7, FilterConfig{DesiredDate: "Mar 05 2026"})
	if result == nil {
		t.Fatal("expected a test result")
	}
	if result.DatetimeFilter != nil {
		t.Error("datetime block must be absent when only the date is set")
	}
}

func TestRunTest_TruncatesToTopK(t *testing.T) {
	catalog := newCatalogStub(
		laneLoad(1, "Denver", "CO", "Seattle", "WA"),
		laneLoad(2, "Denver", "CO", "Seattle", "WA"),
		laneLoad(3, "Denver", "CO", "Seattle", "WA"),
	)
	engine := &engineStub{recs: recsForLoads(1, 2, 3)}
	runner := NewRunner(denverEvents(), catalog, engine)
	runner.SetTopK(2)

	result := runner.RunTest(context.Background(), 7, FilterConfig{})
	if result == nil {
		t.Fatal("expected a test result")
	}
	if len(result.Recommendations) != 2 {
		t.Errorf("expected 2 scored candidates, got %d", len(result.Recommendations))
	}
}

func TestRunner_SummarizeAccumulatedResults(t *testing.T) {
	catalog := newCatalogStub(
		laneLoad(1, "Denver", "CO", "Seattle", "WA"),
		laneLoad(2, "Miami", "FL", "Tampa", "FL"),
	)
	engine := &engineStub{recs: recsForLoads(1, 2)}
	runner := NewRunner(denverEvents(), catalog, engine)

	if runner.RunTest(context.Background(), 7, FilterConfig{}) == nil {
		t.Fatal("expected a test result")
	}
	runner.RunTest(context.Background(), 404, FilterConfig{})

	stats := runner.Summarize()
	if stats.TestsRun != 1 {
		t.Errorf("expected 1 test run, got %d", stats.TestsRun)
	}
	if stats.TotalMatches != 1 || stats.TotalNoMatches != 1 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if !almostEqual(stats.AvgAccuracy, 0.5) {
		t.Errorf("expected avg accuracy 0.5, got %f", stats.AvgAccuracy)
	}
}
