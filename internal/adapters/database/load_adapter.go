package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/clients/postgres"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// LoadAdapter implements the LoadRepository interface over Postgres
type LoadAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLoadAdapter creates a new load adapter
func NewLoadAdapter(client *postgres.Client) repositories.LoadRepository {
	return &LoadAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var loadColumns = []interface{}{
	"id", "pickup_city", "pickup_state", "pickup_date", "pickup_time",
	"delivery_city", "delivery_state", "pickup_lat", "pickup_lon",
	"equipment", "weight_lbs", "rate_usd",
}

// Create creates a new load
func (a *LoadAdapter) Create(ctx context.Context, load *entities.Load) error {
	record := goqu.Record{
		"id":             load.ID,
		"pickup_city":    load.Pickup.City,
		"pickup_state":   load.Pickup.State,
		"pickup_date":    load.Pickup.Date,
		"pickup_time":    load.Pickup.Time,
		"delivery_city":  load.Delivery.City,
		"delivery_state": load.Delivery.State,
		"pickup_lat":     load.PickupCoord.Latitude,
		"pickup_lon":     load.PickupCoord.Longitude,
		"equipment":      load.Equipment,
		"weight_lbs":     load.WeightLbs,
		"rate_usd":       load.RateUSD,
	}

	query, args, err := a.db.Insert("loads").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create load", err)
	}

	return nil
}

// GetByID retrieves a load by ID
func (a *LoadAdapter) GetByID(ctx context.Context, id int64) (*entities.Load, error) {
	query, args, err := a.db.Select(loadColumns...).
		From("loads").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	load, err := scanLoad(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("load with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get load", err)
	}

	return load, nil
}

// GetByIDs retrieves multiple loads by their IDs
func (a *LoadAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Load, error) {
	if len(ids) == 0 {
		return []*entities.Load{}, nil
	}

	query, args, err := a.db.Select(loadColumns...).
		From("loads").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryLoads(ctx, query, args...)
}

// List retrieves loads with a limit/offset window
func (a *LoadAdapter) List(ctx context.Context, filter repositories.LoadFilter) ([]*entities.Load, error) {
	ds := a.db.Select(loadColumns...).From("loads").Order(goqu.I("id").Asc())
	if filter.Equipment != "" {
		ds = ds.Where(goqu.Ex{"equipment": filter.Equipment})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryLoads(ctx, query, args...)
}

func (a *LoadAdapter) queryLoads(ctx context.Context, query string, args ...interface{}) ([]*entities.Load, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query loads", err)
	}
	defer rows.Close()

	var loads []*entities.Load
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan load", err)
		}
		loads = append(loads, load)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate loads", err)
	}

	return loads, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoad(row rowScanner) (*entities.Load, error) {
	load := &entities.Load{}
	err := row.Scan(
		&load.ID,
		&load.Pickup.City,
		&load.Pickup.State,
		&load.Pickup.Date,
		&load.Pickup.Time,
		&load.Delivery.City,
		&load.Delivery.State,
		&load.PickupCoord.Latitude,
		&load.PickupCoord.Longitude,
		&load.Equipment,
		&load.WeightLbs,
		&load.RateUSD,
	)
	if err != nil {
		return nil, err
	}
	return load, nil
}
