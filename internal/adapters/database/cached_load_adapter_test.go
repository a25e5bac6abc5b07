package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetmatch/loadrec-eval/internal/adapters/catalog"
	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
)

type fakeCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, assert.AnError
}

func (c *fakeCache) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	out := map[string][]byte{}
	for _, k := range keys {
		if v, ok := c.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

type countingCatalog struct {
	repositories.LoadRepository
	getByIDCalls  int
	getByIDsCalls int
}

func (c *countingCatalog) GetByID(ctx context.Context, id int64) (*entities.Load, error) {
	c.getByIDCalls++
	return c.LoadRepository.GetByID(ctx, id)
}

func (c *countingCatalog) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Load, error) {
	c.getByIDsCalls++
	return c.LoadRepository.GetByIDs(ctx, ids)
}

func testLoads() []*entities.Load {
	return []*entities.Load{
		{ID: 1, Pickup: entities.Stop{City: "Denver", State: "CO"}, Equipment: "Van"},
		{ID: 2, Pickup: entities.Stop{City: "Houston", State: "TX"}, Equipment: "Reefer"},
		{ID: 3, Pickup: entities.Stop{City: "Chicago", State: "IL"}, Equipment: "Flatbed"},
	}
}

func newCachedFixture(t *testing.T) (*CachedLoadAdapter, *countingCatalog, *fakeCache) {
	t.Helper()
	inner, err := catalog.NewInMemoryCatalog(testLoads())
	require.NoError(t, err)
	counting := &countingCatalog{LoadRepository: inner}
	cache := newFakeCache()
	return NewCachedLoadAdapter(counting, cache), counting, cache
}

func TestCachedLoadAdapterGetByIDCachesSecondRead(t *testing.T) {
	adapter, counting, cache := newCachedFixture(t)
	ctx := context.Background()

	first, err := adapter.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Denver", first.Pickup.City)
	assert.Equal(t, 1, counting.getByIDCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := adapter.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, counting.getByIDCalls, "second read should be served from cache")
}

func TestCachedLoadAdapterGetByIDNotFound(t *testing.T) {
	adapter, _, cache := newCachedFixture(t)

	_, err := adapter.GetByID(context.Background(), 99)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.sets)
}

func TestCachedLoadAdapterGetByIDsMixedHitMiss(t *testing.T) {
	adapter, counting, _ := newCachedFixture(t)
	ctx := context.Background()

	// warm one entry
	_, err := adapter.GetByID(ctx, 2)
	require.NoError(t, err)

	loads, err := adapter.GetByIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, loads, 3)
	// request order preserved
	assert.Equal(t, int64(1), loads[0].ID)
	assert.Equal(t, int64(2), loads[1].ID)
	assert.Equal(t, int64(3), loads[2].ID)
	assert.Equal(t, 1, counting.getByIDsCalls)

	// everything is now cached
	again, err := adapter.GetByIDs(ctx, []int64{3, 1})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, int64(3), again[0].ID)
	assert.Equal(t, 1, counting.getByIDsCalls, "fully cached batch should not hit the repository")
}

func TestCachedLoadAdapterGetByIDsSkipsUnknown(t *testing.T) {
	adapter, _, _ := newCachedFixture(t)

	loads, err := adapter.GetByIDs(context.Background(), []int64{1, 99})
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, int64(1), loads[0].ID)
}

func TestCachedLoadAdapterGetByIDsEmpty(t *testing.T) {
	adapter, counting, _ := newCachedFixture(t)

	loads, err := adapter.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, loads)
	assert.Equal(t, 0, counting.getByIDsCalls)
}

func TestCachedLoadAdapterCreateInvalidatesEntry(t *testing.T) {
	adapter, _, cache := newCachedFixture(t)
	ctx := context.Background()

	// stale entry under the key a new load will take
	require.NoError(t, cache.Set(ctx, loadCacheKey(4), []byte(`{"id":4}`), 60))

	err := adapter.Create(ctx, &entities.Load{ID: 4, Pickup: entities.Stop{City: "Atlanta", State: "GA"}})
	require.NoError(t, err)

	exists, err := cache.Exists(ctx, loadCacheKey(4))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCachedLoadAdapterCreateDuplicateKeepsCache(t *testing.T) {
	adapter, _, cache := newCachedFixture(t)
	ctx := context.Background()

	_, err := adapter.GetByID(ctx, 1)
	require.NoError(t, err)

	err = adapter.Create(ctx, &entities.Load{ID: 1, Pickup: entities.Stop{City: "Denver", State: "CO"}})
	assert.Error(t, err)

	exists, err := cache.Exists(ctx, loadCacheKey(1))
	require.NoError(t, err)
	assert.True(t, exists, "failed create should not invalidate")
}
