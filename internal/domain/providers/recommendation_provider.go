package providers

import (
	"context"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
)

// RecommendationFilter carries the optional constraints forwarded to the
// recommendation engine. Nil pointer fields mean the constraint is unset.
type RecommendationFilter struct {
	CurrentLocation *entities.Location
	DistanceRange   *float64 // statute miles from CurrentLocation
	DesiredDate     string   // "Jan 02 2006"
	DesiredTime     string   // "3:04 PM"
}

// RecommendationProvider defines the interface to the external load
// recommendation engine. The engine is a black box; any failure it signals
// must be handled by the caller, never assumed away.
type RecommendationProvider interface {
	// GetRecommendations returns ranked candidate loads for a user
	GetRecommendations(ctx context.Context, userID int64, filter RecommendationFilter) ([]entities.RecommendedLoad, error)
}
