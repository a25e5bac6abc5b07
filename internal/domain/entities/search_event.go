package entities

import (
	"time"
)

// SearchEvent represents a single row of historical search activity from the
// clickstream log. GeoCity, Origin and Destination are standardized to the
// "CITY,STATE" form before the event reaches the core.
type SearchEvent struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Timestamp   time.Time `json:"event_timestamp" db:"event_timestamp"`
	GeoCity     string    `json:"geo_city" db:"geo_city"`
	Origin      string    `json:"event_origin" db:"event_origin"`
	Destination string    `json:"event_destination" db:"event_destination"`
}
