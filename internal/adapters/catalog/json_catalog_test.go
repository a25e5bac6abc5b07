package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loads.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewJSONCatalog_ValidFile(t *testing.T) {
	path := writeTempCatalog(t, `[
		{"id": 101, "pickup": {"city": "Denver", "state": "CO", "date": "Mar 05 2026", "time": "10:00 AM"},
		 "delivery": {"city": "Austin", "state": "TX"},
		 "pickup_coord": {"latitude": 39.7392, "longitude": -104.9903},
		 "equipment": "van", "weight_lbs": 24000, "rate_usd": 1850.5},
		{"id": 102, "pickup": {"city": "Chicago", "state": "IL"},
		 "delivery": {"city": "Houston", "state": "TX"},
		 "pickup_coord": {"latitude": 41.8781, "longitude": -87.6298}}
	]`)

	c, err := NewJSONCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	load, err := c.GetByID(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "Denver", load.Pickup.City)
	assert.Equal(t, "DENVER,CO", load.Pickup.FormattedLocation())
	assert.Equal(t, 39.7392, load.PickupCoord.Latitude)
	assert.Equal(t, 1850.5, load.RateUSD)
}

func TestNewJSONCatalog_MissingFile(t *testing.T) {
	_, err := NewJSONCatalog("/nonexistent/loads.json")
	assert.Error(t, err)
}

func TestNewJSONCatalog_InvalidJSON(t *testing.T) {
	path := writeTempCatalog(t, `not json`)
	_, err := NewJSONCatalog(path)
	assert.Error(t, err)
}

func TestNewInMemoryCatalog_DuplicateID(t *testing.T) {
	_, err := NewInMemoryCatalog([]*entities.Load{{ID: 1}, {ID: 1}})
	assert.Error(t, err)
}

func TestGetByID_UnknownIDReturnsNotFound(t *testing.T) {
	c, err := NewInMemoryCatalog(nil)
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), 42)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetByIDs_SkipsUnknownIDs(t *testing.T) {
	c, err := NewInMemoryCatalog([]*entities.Load{{ID: 1}, {ID: 2}})
	require.NoError(t, err)

	loads, err := c.GetByIDs(context.Background(), []int64{2, 99, 1})
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, int64(2), loads[0].ID)
	assert.Equal(t, int64(1), loads[1].ID)
}

func TestList_WindowAndEquipmentFilter(t *testing.T) {
	c, err := NewInMemoryCatalog([]*entities.Load{
		{ID: 1, Equipment: "van"},
		{ID: 2, Equipment: "reefer"},
		{ID: 3, Equipment: "van"},
		{ID: 4, Equipment: "van"},
	})
	require.NoError(t, err)

	loads, err := c.List(context.Background(), repositories.LoadFilter{Equipment: "van", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, int64(3), loads[0].ID)
	assert.Equal(t, int64(4), loads[1].ID)
}

func TestCreate_RejectsDuplicate(t *testing.T) {
	c, err := NewInMemoryCatalog([]*entities.Load{{ID: 1}})
	require.NoError(t, err)

	err = c.Create(context.Background(), &entities.Load{ID: 1})
	assert.Error(t, err)
}
