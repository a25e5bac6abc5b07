package recommender

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/geo"
)

const (
	pickupDateLayout = "Jan 02 2006"
	pickupTimeLayout = "3:04 PM"
)

// MockProvider is a deterministic in-process recommendation engine backed by
// the load catalog. It ranks every catalog entry that survives the filter,
// so harness runs are reproducible without a live engine.
type MockProvider struct {
	loads repositories.LoadRepository
	limit int
}

// NewMockProvider creates a mock recommendation provider over a load catalog
func NewMockProvider(loads repositories.LoadRepository) providers.RecommendationProvider {
	return &MockProvider{
		loads: loads,
		limit: 200,
	}
}

// GetRecommendations returns ranked candidate loads for a user
func (m *MockProvider) GetRecommendations(ctx context.Context, userID int64, filter providers.RecommendationFilter) ([]entities.RecommendedLoad, error) {
	catalog, err := m.loads.List(ctx, repositories.LoadFilter{Limit: m.limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate loads: %w", err)
	}

	var out []entities.RecommendedLoad
	for _, load := range catalog {
		if filter.CurrentLocation != nil && filter.DistanceRange != nil {
			if geo.Miles(*filter.CurrentLocation, load.PickupCoord) > *filter.DistanceRange {
				continue
			}
		}
		if filter.DesiredDate != "" && filter.DesiredTime != "" {
			keep, err := pickupAtOrAfter(load.Pickup, filter.DesiredDate, filter.DesiredTime)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		out = append(out, entities.RecommendedLoad{
			LoadID: load.ID,
			Score:  mockScore(userID, load.ID),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// pickupAtOrAfter reports whether the load picks up at or after the desired
// moment. Loads with unparseable schedules are kept rather than silently
// dropped from the candidate set.
func pickupAtOrAfter(pickup entities.Stop, desiredDate, desiredTime string) (bool, error) {
	want, err := time.Parse(pickupDateLayout+" "+pickupTimeLayout, desiredDate+" "+desiredTime)
	if err != nil {
		return false, fmt.Errorf("invalid desired pickup datetime: %w", err)
	}
	have, err := time.Parse(pickupDateLayout+" "+pickupTimeLayout, pickup.Date+" "+pickup.Time)
	if err != nil {
		return true, nil
	}
	return !have.Before(want), nil
}

// mockScore derives a stable pseudo-relevance score in [0.5, 1) from the user
// and load ids. Not meaningful, just deterministic and distinct per pair.
func mockScore(userID, loadID int64) float64 {
	h := uint64(userID)*2654435761 + uint64(loadID)*40503
	h ^= h >> 16
	return 0.5 + float64(h%5000)/10000.0
}
