package geo

import (
	"math"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
)

const earthRadiusMiles = 3956.0

// Miles returns the great-circle distance between two points in statute
// miles using the haversine formula.
func Miles(a, b entities.Location) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
