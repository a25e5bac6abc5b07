package eventlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// expected clickstream header columns, in any order
const (
	colUserID      = "USER_PSEUDO_ID"
	colTimestamp   = "EVENT_TIMESTAMP"
	colGeoCity     = "GEO_CITY_STANDARDIZED"
	colOrigin      = "EVENT_ORIGIN"
	colDestination = "EVENT_DESTINATION"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CSVRepository is a file-backed, in-memory SearchEventRepository over a
// clickstream export. Rows are normalized on load: user ids parsed to
// integers, locations uppercased and trimmed, events sorted by user then
// timestamp.
type CSVRepository struct {
	events []entities.SearchEvent
}

// NewCSVRepository reads and normalizes a clickstream CSV file.
func NewCSVRepository(path string) (*CSVRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open clickstream file: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

// NewInMemoryRepository builds a repository from already-normalized events.
func NewInMemoryRepository(events []entities.SearchEvent) *CSVRepository {
	sorted := make([]entities.SearchEvent, len(events))
	copy(sorted, events)
	sortEvents(sorted)
	return &CSVRepository{events: sorted}
}

func parseCSV(r io.Reader) (*CSVRepository, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read clickstream header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colUserID, colTimestamp, colGeoCity, colOrigin, colDestination} {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("clickstream is missing column %s", required))
		}
	}

	var events []entities.SearchEvent
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read clickstream row %d: %w", line, err)
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(record[cols[colUserID]]), 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d: invalid user id %q", line, record[cols[colUserID]]))
		}

		ts, err := parseTimestamp(strings.TrimSpace(record[cols[colTimestamp]]))
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d: invalid timestamp %q", line, record[cols[colTimestamp]]))
		}

		events = append(events, entities.SearchEvent{
			UserID:      userID,
			Timestamp:   ts,
			GeoCity:     normalizeLocation(record[cols[colGeoCity]]),
			Origin:      normalizeLocation(record[cols[colOrigin]]),
			Destination: normalizeLocation(record[cols[colDestination]]),
		})
	}

	sortEvents(events)
	return &CSVRepository{events: events}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	// epoch microseconds, as exported by the analytics pipeline
	if micros, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMicro(micros).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// normalizeLocation standardizes a "City, ST" value to "CITY,ST".
func normalizeLocation(raw string) string {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(raw)), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

func sortEvents(events []entities.SearchEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].UserID != events[j].UserID {
			return events[i].UserID < events[j].UserID
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

// ListAll returns the full event log ordered by user then timestamp
func (r *CSVRepository) ListAll(ctx context.Context) ([]entities.SearchEvent, error) {
	return r.events, nil
}

// ListByUser returns all events recorded for a single user
func (r *CSVRepository) ListByUser(ctx context.Context, userID int64) ([]entities.SearchEvent, error) {
	var out []entities.SearchEvent
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// TopUsers returns the n user ids with the most recorded events
func (r *CSVRepository) TopUsers(ctx context.Context, n int) ([]int64, error) {
	counts := make(map[int64]int)
	var order []int64
	for _, e := range r.events {
		if _, seen := counts[e.UserID]; !seen {
			order = append(order, e.UserID)
		}
		counts[e.UserID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n < len(order) {
		order = order[:n]
	}
	return order, nil
}
