package evaluation

import (
	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
)

// MatchMode is the evaluation strategy chosen from which optional filters are
// supplied. Exactly one mode is in effect for a scoring run.
type MatchMode int

const (
	// ModeHistory matches candidates against the user's historical
	// top locations, falling back to state-level matching
	ModeHistory MatchMode = iota

	// ModeLocationOnly is in effect when a current location is supplied
	// without a distance range; every candidate counts as a match
	ModeLocationOnly

	// ModeProximity matches candidates whose pickup lies within the
	// distance range of the current location
	ModeProximity
)

func (m MatchMode) String() string {
	switch m {
	case ModeHistory:
		return "history"
	case ModeLocationOnly:
		return "location_only"
	case ModeProximity:
		return "proximity"
	}
	return "unknown"
}

// DistanceFilter is the normalized distance constraint recorded on a test
// result. Present only when both a current location and a range were supplied.
type DistanceFilter struct {
	DistanceRange float64 `json:"distance_range"`
}

// DatetimeFilter is the normalized pickup-window constraint recorded on a
// test result. Present only when both a date and a time were supplied.
type DatetimeFilter struct {
	DesiredDate string `json:"desired_date"`
	DesiredTime string `json:"desired_time"`
}

// FilterConfig holds the optional filter inputs for one evaluation run. The
// mode is derived once from which fields are set and dispatched exhaustively,
// so a distance range without a current location is ignored.
type FilterConfig struct {
	CurrentLocation *entities.Location
	DistanceRange   *float64
	DesiredDate     string
	DesiredTime     string
}

// Mode returns the match mode in effect for this filter configuration.
func (f FilterConfig) Mode() MatchMode {
	if f.CurrentLocation != nil {
		if f.DistanceRange != nil {
			return ModeProximity
		}
		return ModeLocationOnly
	}
	return ModeHistory
}

// DistanceFilter returns the normalized distance-filter block, or nil when
// the configuration does not pin both a location and a range.
func (f FilterConfig) DistanceFilter() *DistanceFilter {
	if f.CurrentLocation != nil && f.DistanceRange != nil {
		return &DistanceFilter{DistanceRange: *f.DistanceRange}
	}
	return nil
}

// DatetimeFilter returns the normalized datetime-filter block, or nil unless
// both date and time are set.
func (f FilterConfig) DatetimeFilter() *DatetimeFilter {
	if f.DesiredDate != "" && f.DesiredTime != "" {
		return &DatetimeFilter{DesiredDate: f.DesiredDate, DesiredTime: f.DesiredTime}
	}
	return nil
}

// RecommendationFilter converts the configuration into the engine's filter
// argument, forwarding the optional fields positionally unchanged.
func (f FilterConfig) RecommendationFilter() providers.RecommendationFilter {
	return providers.RecommendationFilter{
		CurrentLocation: f.CurrentLocation,
		DistanceRange:   f.DistanceRange,
		DesiredDate:     f.DesiredDate,
		DesiredTime:     f.DesiredTime,
	}
}

// MatchOutcome holds the per-run scoring counters. Only the counter selected
// by the run's mode is ever incremented; the other two stay zero, so the
// active counter plus NoMatches always equals the number of candidates.
type MatchOutcome struct {
	LocationMatches     int     `json:"location_matches"`
	DistanceWithinRange int     `json:"distance_within_range"`
	HistoryMatches      int     `json:"history_matches"`
	NoMatches           int     `json:"no_matches"`
	AccuracyScore       float64 `json:"accuracy_score"`
	MatchedLoadIDs      []int64 `json:"matched_load_ids"`
	UnmatchedLoadIDs    []int64 `json:"unmatched_load_ids"`
	TopUserLocations    []string `json:"top_user_locations"`
}

// Matched reports whether the load id was counted as a match in this run.
func (m *MatchOutcome) Matched(loadID int64) bool {
	for _, id := range m.MatchedLoadIDs {
		if id == loadID {
			return true
		}
	}
	return false
}

// TestResult aggregates everything observed during one per-user test run.
// Never mutated after RunTest returns it.
type TestResult struct {
	ID              string                     `json:"id"`
	UserID          int64                      `json:"user_id"`
	Profile         *UserHistoryProfile        `json:"user_history"`
	Recommendations []entities.RecommendedLoad `json:"recommendations"`
	Match           *MatchOutcome              `json:"match_analysis"`
	CurrentLocation *entities.Location         `json:"current_location,omitempty"`
	DistanceFilter  *DistanceFilter            `json:"distance_filter,omitempty"`
	DatetimeFilter  *DatetimeFilter            `json:"datetime_filter,omitempty"`
}

// SummaryStats holds aggregate statistics across all accumulated test runs.
type SummaryStats struct {
	TestsRun       int     `json:"tests_run"`
	AvgAccuracy    float64 `json:"avg_accuracy"`
	TotalMatches   int     `json:"total_matches"`
	TotalNoMatches int     `json:"total_no_matches"`
}
