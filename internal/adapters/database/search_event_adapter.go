package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/clients/postgres"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// SearchEventAdapter reads the clickstream log from Postgres. It satisfies
// repositories.SearchEventRepository; Insert exists only for seeding and is
// not part of the read-only interface the core sees.
type SearchEventAdapter struct {
	client *postgres.Client
	db     *sqlx.DB
	sq     *goqu.Database
}

// NewSearchEventAdapter creates a new search event adapter
func NewSearchEventAdapter(client *postgres.Client) *SearchEventAdapter {
	return &SearchEventAdapter{
		client: client,
		db:     sqlx.NewDb(client.DB(), "postgres"),
		sq:     goqu.New("postgres", client.DB()),
	}
}

const searchEventColumns = `user_id, event_timestamp, geo_city, event_origin, event_destination`

// ListAll returns the full event log ordered by user then timestamp
func (a *SearchEventAdapter) ListAll(ctx context.Context) ([]entities.SearchEvent, error) {
	var events []entities.SearchEvent
	query := `SELECT ` + searchEventColumns + `
		FROM search_events
		ORDER BY user_id, event_timestamp`

	if err := a.db.SelectContext(ctx, &events, query); err != nil {
		return nil, apperrors.NewInternalError("failed to list search events", err)
	}
	return events, nil
}

// ListByUser returns all events recorded for a single user
func (a *SearchEventAdapter) ListByUser(ctx context.Context, userID int64) ([]entities.SearchEvent, error) {
	var events []entities.SearchEvent
	query := `SELECT ` + searchEventColumns + `
		FROM search_events
		WHERE user_id = $1
		ORDER BY event_timestamp`

	if err := a.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, apperrors.NewInternalError("failed to list search events by user", err)
	}
	return events, nil
}

// TopUsers returns the n user ids with the most recorded events
func (a *SearchEventAdapter) TopUsers(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		n = 10
	}

	var userIDs []int64
	query := `SELECT user_id
		FROM search_events
		GROUP BY user_id
		ORDER BY COUNT(*) DESC, user_id
		LIMIT $1`

	if err := a.db.SelectContext(ctx, &userIDs, query, n); err != nil {
		return nil, apperrors.NewInternalError("failed to query top users", err)
	}
	return userIDs, nil
}

// Insert appends events to the log. Used by the seeder.
func (a *SearchEventAdapter) Insert(ctx context.Context, events []entities.SearchEvent) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]interface{}, len(events))
	for i, e := range events {
		records[i] = goqu.Record{
			"user_id":           e.UserID,
			"event_timestamp":   e.Timestamp,
			"geo_city":          e.GeoCity,
			"event_origin":      e.Origin,
			"event_destination": e.Destination,
		}
	}

	query, args, err := a.sq.Insert("search_events").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert search events", err)
	}
	return nil
}
