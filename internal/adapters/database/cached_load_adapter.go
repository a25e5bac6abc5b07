package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/observability"
)

// CachedLoadAdapter wraps a LoadRepository with caching. Catalog entries are
// immutable for the lifetime of an evaluation run, so a short TTL is enough.
type CachedLoadAdapter struct {
	adapter repositories.LoadRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedLoadAdapter creates a new cached load adapter
func NewCachedLoadAdapter(adapter repositories.LoadRepository, cache providers.CacheProvider) *CachedLoadAdapter {
	return &CachedLoadAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// SetMetrics attaches cache hit/miss counters.
func (a *CachedLoadAdapter) SetMetrics(m *observability.Metrics) {
	a.metrics = m
}

// cache TTL in seconds
const loadByIDTTL = 300

func loadCacheKey(id int64) string {
	return fmt.Sprintf("load:%d", id)
}

// Create passes through to the underlying repository
func (a *CachedLoadAdapter) Create(ctx context.Context, load *entities.Load) error {
	if err := a.adapter.Create(ctx, load); err != nil {
		return err
	}
	// drop any stale entry for the id
	if err := a.cache.Delete(ctx, loadCacheKey(load.ID)); err != nil {
		log.Printf("Failed to invalidate cached load %d: %v", load.ID, err)
	}
	return nil
}

// GetByID retrieves a load by ID with caching
func (a *CachedLoadAdapter) GetByID(ctx context.Context, id int64) (*entities.Load, error) {
	cacheKey := loadCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var load entities.Load
		if err := json.Unmarshal(cached, &load); err == nil {
			a.countHit(ctx)
			return &load, nil
		}
		log.Printf("Failed to unmarshal cached load %d: %v", id, err)
	}
	a.countMiss(ctx)

	load, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(load); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, loadByIDTTL); err != nil {
			log.Printf("Failed to cache load %d: %v", id, err)
		}
	}

	return load, nil
}

// GetByIDs retrieves multiple loads by IDs with batch caching
func (a *CachedLoadAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Load, error) {
	if len(ids) == 0 {
		return []*entities.Load{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = loadCacheKey(id)
	}

	cached, _ := a.cache.GetMulti(ctx, cacheKeys)

	byID := make(map[int64]*entities.Load, len(ids))
	var missingIDs []int64
	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var load entities.Load
			if err := json.Unmarshal(data, &load); err == nil {
				a.countHit(ctx)
				byID[id] = &load
				continue
			}
		}
		a.countMiss(ctx)
		missingIDs = append(missingIDs, id)
	}

	if len(missingIDs) > 0 {
		fetched, err := a.adapter.GetByIDs(ctx, missingIDs)
		if err != nil {
			return nil, err
		}
		for _, load := range fetched {
			byID[load.ID] = load
			if data, err := json.Marshal(load); err == nil {
				if err := a.cache.Set(ctx, loadCacheKey(load.ID), data, loadByIDTTL); err != nil {
					log.Printf("Failed to cache load %d: %v", load.ID, err)
				}
			}
		}
	}

	// preserve request order, skipping ids that are unknown everywhere
	out := make([]*entities.Load, 0, len(ids))
	for _, id := range ids {
		if load, ok := byID[id]; ok {
			out = append(out, load)
		}
	}
	return out, nil
}

// List passes through to the underlying repository; list windows are not cached
func (a *CachedLoadAdapter) List(ctx context.Context, filter repositories.LoadFilter) ([]*entities.Load, error) {
	return a.adapter.List(ctx, filter)
}

func (a *CachedLoadAdapter) countHit(ctx context.Context) {
	if a.metrics != nil {
		a.metrics.CacheHitCount.Add(ctx, 1)
	}
}

func (a *CachedLoadAdapter) countMiss(ctx context.Context) {
	if a.metrics != nil {
		a.metrics.CacheMissCount.Add(ctx, 1)
	}
}
