package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// JSONCatalog is a file-backed, in-memory LoadRepository. It serves the mock
// load fixtures the demo harness evaluates against.
type JSONCatalog struct {
	loads map[int64]*entities.Load
	order []int64
}

// NewJSONCatalog reads and parses a load catalog from a JSON file.
func NewJSONCatalog(path string) (*JSONCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read loads file: %w", err)
	}

	var loads []*entities.Load
	if err := json.Unmarshal(data, &loads); err != nil {
		return nil, fmt.Errorf("failed to parse loads file: %w", err)
	}

	return NewInMemoryCatalog(loads)
}

// NewInMemoryCatalog builds a catalog from already-parsed loads.
func NewInMemoryCatalog(loads []*entities.Load) (*JSONCatalog, error) {
	c := &JSONCatalog{loads: make(map[int64]*entities.Load, len(loads))}
	for i, load := range loads {
		if load.ID == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("load at index %d: missing id", i))
		}
		if _, dup := c.loads[load.ID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("load at index %d: duplicate id %d", i, load.ID))
		}
		c.loads[load.ID] = load
		c.order = append(c.order, load.ID)
	}
	return c, nil
}

// Create adds a load to the catalog
func (c *JSONCatalog) Create(ctx context.Context, load *entities.Load) error {
	if load.ID == 0 {
		return apperrors.NewValidationError("load is missing an id")
	}
	if _, dup := c.loads[load.ID]; dup {
		return apperrors.NewValidationError(fmt.Sprintf("load %d already exists", load.ID))
	}
	c.loads[load.ID] = load
	c.order = append(c.order, load.ID)
	return nil
}

// GetByID retrieves a load by ID
func (c *JSONCatalog) GetByID(ctx context.Context, id int64) (*entities.Load, error) {
	if load, ok := c.loads[id]; ok {
		return load, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("load with id %d not found", id))
}

// GetByIDs retrieves multiple loads by their IDs, skipping unknown ids
func (c *JSONCatalog) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Load, error) {
	out := make([]*entities.Load, 0, len(ids))
	for _, id := range ids {
		if load, ok := c.loads[id]; ok {
			out = append(out, load)
		}
	}
	return out, nil
}

// List retrieves loads in file order with a limit/offset window
func (c *JSONCatalog) List(ctx context.Context, filter repositories.LoadFilter) ([]*entities.Load, error) {
	var out []*entities.Load
	skipped := 0
	for _, id := range c.order {
		load := c.loads[id]
		if filter.Equipment != "" && load.Equipment != filter.Equipment {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, load)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Len returns the number of catalog entries.
func (c *JSONCatalog) Len() int {
	return len(c.loads)
}
