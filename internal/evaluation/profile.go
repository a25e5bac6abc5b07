package evaluation

import (
	"fmt"
	"sort"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// FrequencyEntry is one value with its occurrence count.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable maps values to occurrence counts, readable in descending
// count order. Ties keep first-seen order.
type FrequencyTable struct {
	entries []FrequencyEntry
}

func tabulate(values []string) FrequencyTable {
	index := make(map[string]int)
	var entries []FrequencyEntry
	for _, v := range values {
		if i, ok := index[v]; ok {
			entries[i].Count++
			continue
		}
		index[v] = len(entries)
		entries = append(entries, FrequencyEntry{Value: v, Count: 1})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return FrequencyTable{entries: entries}
}

// Len returns the number of distinct values.
func (t FrequencyTable) Len() int {
	return len(t.entries)
}

// Get returns the occurrence count for a value, 0 when absent.
func (t FrequencyTable) Get(value string) int {
	for _, e := range t.entries {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// Top returns up to n values in descending count order.
func (t FrequencyTable) Top(n int) []string {
	if n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.entries[i].Value
	}
	return out
}

// TopCount returns the occurrence count of the single most frequent value,
// 0 when the table is empty.
func (t FrequencyTable) TopCount() int {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[0].Count
}

// Entries returns the table contents in descending count order.
func (t FrequencyTable) Entries() []FrequencyEntry {
	return t.entries
}

// Total returns the sum of all occurrence counts.
func (t FrequencyTable) Total() int {
	sum := 0
	for _, e := range t.entries {
		sum += e.Count
	}
	return sum
}

// UserHistoryProfile is the derived per-user summary of historical search
// frequency by location, origin and destination.
//
// TopGeoCity, TopOrigin and TopDestination carry the occurrence COUNT of the
// most frequent value, not the value itself; downstream reports depend on
// that shape.
type UserHistoryProfile struct {
	UserID         int64          `json:"user_id"`
	TotalSearches  int            `json:"total_searches"`
	GeoCities      FrequencyTable `json:"-"`
	Origins        FrequencyTable `json:"-"`
	Destinations   FrequencyTable `json:"-"`
	TopGeoCity     int            `json:"top_geo_city"`
	TopOrigin      int            `json:"top_origin"`
	TopDestination int            `json:"top_destination"`
}

// BuildProfile derives a user's history profile from the full event log. The
// log is filtered to the user here; a user with no matching rows yields a
// typed not-found error, never an empty profile.
func BuildProfile(userID int64, events []entities.SearchEvent) (*UserHistoryProfile, error) {
	var geoCities, origins, destinations []string
	for _, e := range events {
		if e.UserID != userID {
			continue
		}
		geoCities = append(geoCities, e.GeoCity)
		origins = append(origins, e.Origin)
		destinations = append(destinations, e.Destination)
	}

	if len(geoCities) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %d not found in event log", userID))
	}

	profile := &UserHistoryProfile{
		UserID:        userID,
		TotalSearches: len(geoCities),
		GeoCities:     tabulate(geoCities),
		Origins:       tabulate(origins),
		Destinations:  tabulate(destinations),
	}
	profile.TopGeoCity = profile.GeoCities.TopCount()
	profile.TopOrigin = profile.Origins.TopCount()
	profile.TopDestination = profile.Destinations.TopCount()

	return profile, nil
}
