package repositories

import (
	"context"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
)

// SearchEventRepository defines the interface for reading the historical
// clickstream log. The log is read-only to the evaluation core.
type SearchEventRepository interface {
	// ListAll returns the full event log ordered by user then timestamp
	ListAll(ctx context.Context) ([]entities.SearchEvent, error)

	// ListByUser returns all events recorded for a single user
	ListByUser(ctx context.Context, userID int64) ([]entities.SearchEvent, error)

	// TopUsers returns the n user ids with the most recorded events,
	// most active first
	TopUsers(ctx context.Context, n int) ([]int64, error)
}
