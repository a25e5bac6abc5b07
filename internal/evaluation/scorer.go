package evaluation

import (
	"context"
	"strings"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/geo"
)

// topLocationLimit caps how many of the user's highest-frequency geo cities
// participate in matching.
const topLocationLimit = 5

// Scorer classifies ranked candidates as matched or unmatched against a
// user's history profile and the active filter configuration.
type Scorer struct {
	loads    repositories.LoadRepository
	distance func(a, b entities.Location) float64
}

// NewScorer creates a scorer over the given load catalog.
func NewScorer(loads repositories.LoadRepository) *Scorer {
	return &Scorer{
		loads:    loads,
		distance: geo.Miles,
	}
}

// Score evaluates one ranked candidate list. Returns (nil, nil) when there is
// nothing to score. A candidate whose load id is missing from the catalog
// fails the whole call with the catalog's not-found error.
//
// Pure with respect to its inputs: identical candidates, profile and catalog
// contents yield an identical outcome.
func (s *Scorer) Score(ctx context.Context, recs []entities.RecommendedLoad, profile *UserHistoryProfile, filter FilterConfig) (*MatchOutcome, error) {
	if len(recs) == 0 || profile == nil {
		return nil, nil
	}

	topLocations := profile.GeoCities.Top(topLocationLimit)
	topStates := make(map[string]struct{})
	for _, loc := range topLocations {
		if state, ok := parseState(loc); ok {
			topStates[state] = struct{}{}
		}
	}

	outcome := &MatchOutcome{
		MatchedLoadIDs:   make([]int64, 0, len(recs)),
		UnmatchedLoadIDs: make([]int64, 0),
		TopUserLocations: topLocations,
	}

	mode := filter.Mode()

	for _, rec := range recs {
		load, err := s.loads.GetByID(ctx, rec.LoadID)
		if err != nil {
			return nil, err
		}

		pickupLoc := load.Pickup.FormattedLocation()
		deliveryLoc := load.Delivery.FormattedLocation()

		matched := false
		switch mode {
		case ModeProximity:
			d := s.distance(*filter.CurrentLocation, load.PickupCoord)
			if d <= *filter.DistanceRange {
				outcome.DistanceWithinRange++
				matched = true
			}
		case ModeLocationOnly:
			// A bare current location counts every candidate; kept as-is
			// so historical accuracy numbers remain comparable.
			outcome.LocationMatches++
			matched = true
		case ModeHistory:
			if containsString(topLocations, pickupLoc) || containsString(topLocations, deliveryLoc) {
				outcome.HistoryMatches++
				matched = true
			} else if stateInSet(topStates, pickupLoc) || stateInSet(topStates, deliveryLoc) {
				outcome.HistoryMatches++
				matched = true
			}
		}

		if matched {
			outcome.MatchedLoadIDs = append(outcome.MatchedLoadIDs, rec.LoadID)
		} else {
			outcome.NoMatches++
			outcome.UnmatchedLoadIDs = append(outcome.UnmatchedLoadIDs, rec.LoadID)
		}
	}

	total := len(recs)
	switch mode {
	case ModeProximity:
		outcome.AccuracyScore = float64(outcome.DistanceWithinRange) / float64(total)
	case ModeLocationOnly:
		outcome.AccuracyScore = float64(outcome.LocationMatches) / float64(total)
	case ModeHistory:
		outcome.AccuracyScore = float64(outcome.HistoryMatches) / float64(total)
	}

	return outcome, nil
}

// parseState extracts the state code from a "CITY,STATE" location.
func parseState(location string) (string, bool) {
	if i := strings.Index(location, ","); i >= 0 {
		return strings.TrimSpace(location[i+1:]), true
	}
	return "", false
}

func stateInSet(states map[string]struct{}, location string) bool {
	state, ok := parseState(location)
	if !ok {
		return false
	}
	_, in := states[state]
	return in
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
