package entities

import (
	"fmt"
	"strings"
)

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Stop is one end of a load's lane. Date and Time are the scheduled pickup or
// delivery window start, formatted "Jan 02 2006" and "3:04 PM".
type Stop struct {
	City  string `json:"city" db:"city"`
	State string `json:"state" db:"state"`
	Date  string `json:"date,omitempty" db:"date"`
	Time  string `json:"time,omitempty" db:"time"`
}

// FormattedLocation returns the stop as "CITY,STATE", uppercased. This is the
// canonical form matched against a user's history profile.
func (s Stop) FormattedLocation() string {
	return fmt.Sprintf("%s,%s", strings.ToUpper(s.City), strings.ToUpper(s.State))
}

// Load represents one catalog entry a recommendation can refer to.
type Load struct {
	ID          int64    `json:"id" db:"id"`
	Pickup      Stop     `json:"pickup" db:"-"`
	Delivery    Stop     `json:"delivery" db:"-"`
	PickupCoord Location `json:"pickup_coord" db:"-"`
	Equipment   string   `json:"equipment,omitempty" db:"equipment"`
	WeightLbs   int      `json:"weight_lbs,omitempty" db:"weight_lbs"`
	RateUSD     float64  `json:"rate_usd,omitempty" db:"rate_usd"`
}
