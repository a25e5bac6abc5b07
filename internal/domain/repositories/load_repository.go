package repositories

import (
	"context"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
)

// LoadRepository defines the interface for load catalog lookups
type LoadRepository interface {
	// Create adds a load to the catalog
	Create(ctx context.Context, load *entities.Load) error

	// GetByID retrieves a load by ID
	GetByID(ctx context.Context, id int64) (*entities.Load, error)

	// GetByIDs retrieves multiple loads by their IDs
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Load, error)

	// List retrieves loads with a limit/offset window
	List(ctx context.Context, filter LoadFilter) ([]*entities.Load, error)
}

// LoadFilter defines filters for listing loads
type LoadFilter struct {
	Equipment string
	Limit     int
	Offset    int
}
