// Package aggregator is the engine core: it fans out to every usable
// provider concurrently, collects whatever settles, and runs the merged
// set through the filter/dedupe/sort pipeline.
package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/XavierBriggs/Beacon/internal/cache"
	"github.com/XavierBriggs/Beacon/internal/health"
	"github.com/XavierBriggs/Beacon/internal/logx"
	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// ErrSkipped marks a provider the health gate excluded; it lands in
// sourceStats like any other per-provider error.
var ErrSkipped = errors.New("provider disabled by health check")

const defaultCallTimeout = 10 * time.Second

// Engine owns the provider set and the shared state (cache, health). All
// per-request processing after collection is single-threaded; the only
// cross-request shared state is behind the cache and health manager locks.
type Engine struct {
	adapters    []contracts.SourceAdapter
	health      *health.Manager
	cache       contracts.ResultCache
	callTimeout time.Duration
	now         func() time.Time
}

// New builds an Engine. Every adapter is registered with the health
// manager as Valid; boot code may disable unconfigured ones afterwards.
func New(adapters []contracts.SourceAdapter, hm *health.Manager, rc contracts.ResultCache, callTimeout time.Duration) *Engine {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	for _, a := range adapters {
		hm.Register(a.Name())
	}
	return &Engine{
		adapters:    adapters,
		health:      hm,
		cache:       rc,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Search runs the full request pipeline: cache lookup, concurrent fan-out,
// merge/dedupe/filter/sort, stats, cache write, pagination. Per-provider
// failures are contained in sourceStats; the error return only fires when
// the parent context is cancelled.
func (e *Engine) Search(ctx context.Context, params models.SearchParams) (models.SearchResult, error) {
	started := e.now()
	key := cache.Key(params)

	if params.UseCache {
		if cached, ok := e.cache.Get(ctx, key); ok {
			return e.replay(cached, params, started), nil
		}
	}

	results := e.fanOut(ctx, params)
	if ctx.Err() != nil {
		// Cancelled mid-flight: discard partial results rather than
		// returning a half-gathered response.
		return models.SearchResult{}, ctx.Err()
	}

	merged := flatten(results)
	processed := Process(merged, params, e.now())

	stats := sourceStats(results)
	full := models.SearchResult{
		Events:      processed,
		SourceStats: stats,
	}

	if params.UseCache {
		if err := e.cache.Set(ctx, key, full); err != nil {
			logx.Error("cache write failed", err, "key", key)
		}
	}

	return e.paginate(full, params, started, false), nil
}

// fanOut dispatches all usable providers concurrently and waits for every
// call to settle. Each goroutine owns exactly one result slot, so no lock
// is needed during collection.
func (e *Engine) fanOut(ctx context.Context, params models.SearchParams) []models.SourceResult {
	results := make([]models.SourceResult, len(e.adapters))

	var wg sync.WaitGroup
	for i, adapter := range e.adapters {
		name := adapter.Name()
		if !e.health.Usable(name) {
			results[i] = models.SourceResult{Source: name, Err: ErrSkipped}
			continue
		}

		wg.Add(1)
		go func(slot int, a contracts.SourceAdapter) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
			defer cancel()

			// Clamp the radius to what this provider can serve.
			callParams := params
			if maxRadius := a.MaxRadiusMiles(); maxRadius > 0 && callParams.Radius > maxRadius {
				callParams.Radius = maxRadius
			}

			events, err := a.FetchEvents(callCtx, callParams)
			results[slot] = models.SourceResult{Source: a.Name(), Events: events, Err: err}

			if err != nil {
				e.health.ReportFailure(a.Name(), err)
				logx.Error("provider fetch failed", err, "provider", a.Name())
			} else {
				e.health.ReportSuccess(a.Name())
				logx.Debug("provider fetch ok", "provider", a.Name(), "events", len(events))
			}
		}(i, adapter)
	}
	wg.Wait()

	return results
}

// flatten concatenates normalized events from every source that returned
// any, preserving adapter registration order so later stable sorts keep
// source-arrival order on ties.
func flatten(results []models.SourceResult) []models.Event {
	total := 0
	for _, r := range results {
		total += len(r.Events)
	}
	merged := make([]models.Event, 0, total)
	for _, r := range results {
		merged = append(merged, r.Events...)
	}
	return merged
}

// sourceStats computes per-provider diagnostics from the pre-merge
// outcomes, so a provider's count reflects what it actually returned even
// if dedup later collapsed its events away. The key set always covers
// every registered provider.
func sourceStats(results []models.SourceResult) map[string]models.SourceStat {
	stats := make(map[string]models.SourceStat, len(results))
	for _, r := range results {
		stat := models.SourceStat{Count: len(r.Events)}
		if r.Err != nil {
			msg := r.Err.Error()
			stat.Error = &msg
		}
		stats[r.Source] = stat
	}
	return stats
}

// replay serves a cache hit: the stored entry holds the full processed set,
// so only pagination and fresh meta are applied.
func (e *Engine) replay(cached models.SearchResult, params models.SearchParams, started time.Time) models.SearchResult {
	return e.paginate(cached, params, started, true)
}

// paginate slices the processed set by offset/limit and fills response meta.
func (e *Engine) paginate(full models.SearchResult, params models.SearchParams, started time.Time, cacheHit bool) models.SearchResult {
	total := len(full.Events)
	withCoords := 0
	for _, evt := range full.Events {
		if evt.Coords != nil {
			withCoords++
		}
	}

	offset, limit := params.Offset, params.Limit
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	page := []models.Event{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = full.Events[offset:end]
	}

	return models.SearchResult{
		Events:      page,
		SourceStats: full.SourceStats,
		Meta: models.Meta{
			ExecutionTimeMS: e.now().Sub(started).Milliseconds(),
			TotalEvents:     total,
			WithCoordinates: withCoords,
			Timestamp:       e.now().UTC(),
			Offset:          offset,
			Limit:           limit,
			HasMore:         offset+limit < total,
			CacheHit:        cacheHit,
			RequestID:       params.RequestID,
		},
	}
}

// Providers exposes the adapter names in registration order, for the
// diagnostics endpoint and tests.
func (e *Engine) Providers() []string {
	names := make([]string, len(e.adapters))
	for i, a := range e.adapters {
		names[i] = a.Name()
	}
	return names
}
