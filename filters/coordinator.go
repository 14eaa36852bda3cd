package filters

import (
	"context"
	"fmt"
	"sync"

	"github.com/filterkit/filterkit/observe"
	"github.com/filterkit/filterkit/querycache"
	"github.com/filterkit/filterkit/urlstate"
)

// filtersTag marks the reader's entries under the coordinator key.
const filtersTag = "filters"

// variantsTag marks the variants entry under the coordinator key.
const variantsTag = "variants"

// Coordinator synchronizes one filter/data group: it resolves filters from
// the URL or an external accessor, fetches the derived dataset keyed on
// filter content, and writes filter updates through to persistence, the
// cache, and the URL.
//
// Contract:
// - Concurrency: safe for concurrent use; writes are not coalesced, the
//   last write to complete owns invalidation and URL reflection.
// - Reactivity: the applied count and data fetches follow cache events;
//   they settle after the filters entry does, not synchronously with it.
type Coordinator[F, D, V any] struct {
	cfg    Config[F, D, V]
	client *querycache.Client
	router urlstate.Router
	logger observe.Logger

	initialHash string

	ctx    context.Context
	cancel context.CancelFunc

	cancelCacheSub func()
	cancelRouteSub func()

	setMut   *querycache.Mutation[F, F]
	resetMut *querycache.Mutation[F, F]

	mu           sync.RWMutex
	appliedCount int
	dataHash     string
}

// New creates a coordinator and subscribes it to cache and router events.
// Nothing is fetched until the router reports ready or Refresh is called.
// Callers must Close the coordinator when done with it.
func New[F, D, V any](client *querycache.Client, router urlstate.Router, cfg Config[F, D, V]) (*Coordinator[F, D, V], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if router == nil {
		return nil, ErrNilRouter
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	initialHash, err := querycache.HashValue(cfg.InitialFilters)
	if err != nil {
		return nil, fmt.Errorf("filters: hash initial filters: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator[F, D, V]{
		cfg:         cfg,
		client:      client,
		router:      router,
		logger:      cfg.logger(),
		initialHash: initialHash,
		ctx:         ctx,
		cancel:      cancel,
	}

	onStored := querycache.MutationOptions[F]{OnSuccess: c.afterWrite}
	c.setMut = querycache.NewMutation(client, cfg.SetFiltersValues, onStored)
	c.resetMut = querycache.NewMutation(client, cfg.SetFiltersValues, onStored)

	c.cancelCacheSub = client.Subscribe(cfg.Key, c.onCacheEvent)
	c.cancelRouteSub = router.Subscribe(c.onRouteChange)
	return c, nil
}

// Close cancels the coordinator's subscriptions and pending work.
func (c *Coordinator[F, D, V]) Close() {
	c.cancelCacheSub()
	c.cancelRouteSub()
	c.cancel()
}

// InitialFilters echoes the configured initial filter value.
func (c *Coordinator[F, D, V]) InitialFilters() F {
	return c.cfg.InitialFilters
}

// Refresh resolves filters and fetches data and variants inline. Router
// and cache events drive the same work reactively; Refresh is for callers
// wanting a deterministic first load.
func (c *Coordinator[F, D, V]) Refresh(ctx context.Context) {
	c.sync(ctx)
}

func (c *Coordinator[F, D, V]) sync(ctx context.Context) {
	res := c.resolveFilters(ctx)

	// The data fetch never waits on resolution: until the reader settles
	// it runs against the initial filters.
	filters := c.cfg.InitialFilters
	if res.Status == querycache.StatusSuccess {
		filters = res.Value
	}
	c.fetchData(ctx, filters)
	c.fetchVariants(ctx)
}

// filtersKey builds the reader's cache key: namespace, filters tag,
// readiness flag, initial-filters identity.
func (c *Coordinator[F, D, V]) filtersKey(ready bool) querycache.Key {
	return c.cfg.Key.Append(filtersTag, fmt.Sprintf("ready=%t", ready), c.initialHash)
}

// resolveFilters runs the filter state reader. It is pending until the
// router is ready; once ready, the URL query (or the initial filters when
// the query is empty) seeds the entry while the external accessor runs.
func (c *Coordinator[F, D, V]) resolveFilters(ctx context.Context) querycache.Result[F] {
	if !c.router.Ready() {
		return querycache.Result[F]{}
	}

	seed := c.seedFilters()
	return querycache.Fetch(ctx, c.client, c.filtersKey(true), func(ctx context.Context) (F, error) {
		value, ok, err := c.cfg.GetFiltersValues(ctx)
		if err != nil {
			var zero F
			return zero, err
		}
		if !ok {
			return seed, nil
		}
		return value, nil
	}, querycache.Options{InitialValue: seed})
}

func (c *Coordinator[F, D, V]) seedFilters() F {
	query := c.router.Location().Query()
	if len(query) == 0 {
		return c.cfg.InitialFilters
	}
	return c.cfg.ParseQuery(query)
}

// Filters returns the reader's current state: pending until the router is
// ready and the first resolution settles.
func (c *Coordinator[F, D, V]) Filters() querycache.Result[F] {
	if !c.router.Ready() {
		return querycache.Result[F]{}
	}
	return querycache.Lookup[F](c.client, c.filtersKey(true))
}

// fetchData fetches the dataset derived from the given filters, keyed on
// the filter content so equal filters share one entry.
func (c *Coordinator[F, D, V]) fetchData(ctx context.Context, filters F) {
	hash, err := querycache.HashValue(filters)
	if err != nil {
		c.logger.Warn(ctx, "filters not hashable, skipping data fetch", observe.F("error", err.Error()))
		return
	}

	c.mu.Lock()
	c.dataHash = hash
	c.mu.Unlock()

	querycache.Fetch(ctx, c.client, c.cfg.Key.Append(hash), func(ctx context.Context) (D, error) {
		return c.cfg.GetData(ctx, filters)
	}, c.cfg.FetchOptions)
}

// Data returns the state of the dataset for the most recently resolved
// filters. Pending until the first fetch has been keyed.
func (c *Coordinator[F, D, V]) Data() querycache.Result[D] {
	c.mu.RLock()
	hash := c.dataHash
	c.mu.RUnlock()

	if hash == "" {
		return querycache.Result[D]{}
	}
	return querycache.Lookup[D](c.client, c.cfg.Key.Append(hash))
}

func (c *Coordinator[F, D, V]) fetchVariants(ctx context.Context) {
	if c.cfg.GetVariants == nil {
		return
	}
	querycache.Fetch(ctx, c.client, c.cfg.Key.Append(variantsTag), func(ctx context.Context) (V, error) {
		return c.cfg.GetVariants(ctx)
	}, querycache.Options{})
}

// Variants returns the variants state, or an empty pending result when no
// variants fetcher is configured.
func (c *Coordinator[F, D, V]) Variants() querycache.Result[V] {
	if c.cfg.GetVariants == nil {
		return querycache.Result[V]{}
	}
	return querycache.Lookup[V](c.client, c.cfg.Key.Append(variantsTag))
}

// AppliedCount returns the derived count of active filters.
func (c *Coordinator[F, D, V]) AppliedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appliedCount
}

// SetFilters persists a full replacement filter value. On success the
// reader's cache entries are invalidated and the stored value is
// reflected into the URL; on failure only the write handle's error state
// changes.
func (c *Coordinator[F, D, V]) SetFilters(ctx context.Context, next F) (F, error) {
	return c.setMut.Run(ctx, next)
}

// ResetFilters persists the initial filters, or transform(initialFilters)
// when a transform is supplied, with the same success and failure handling
// as SetFilters.
func (c *Coordinator[F, D, V]) ResetFilters(ctx context.Context, transform func(F) F) (F, error) {
	target := c.cfg.InitialFilters
	if transform != nil {
		target = transform(c.cfg.InitialFilters)
	}
	return c.resetMut.Run(ctx, target)
}

// SetMutation exposes the write handle for state inspection.
func (c *Coordinator[F, D, V]) SetMutation() *querycache.Mutation[F, F] {
	return c.setMut
}

// ResetMutation exposes the reset handle for state inspection.
func (c *Coordinator[F, D, V]) ResetMutation() *querycache.Mutation[F, F] {
	return c.resetMut
}

// afterWrite is the shared success hook for SetFilters and ResetFilters:
// invalidate the reader's entries, then reflect the stored value into the
// URL.
func (c *Coordinator[F, D, V]) afterWrite(ctx context.Context, stored F) {
	if err := c.client.Invalidate(ctx, c.cfg.Key.Append(filtersTag)); err != nil {
		c.logger.Warn(ctx, "invalidate after write failed", observe.F("error", err.Error()))
	}
	c.reflectQuery(ctx, stored)
}

func (c *Coordinator[F, D, V]) onCacheEvent(ev querycache.Event) {
	filtersPrefix := c.cfg.Key.Append(filtersTag)

	switch ev.Type {
	case querycache.EventInvalidated:
		if ev.Key.Overlaps(filtersPrefix) {
			c.sync(c.ctx)
		}
	case querycache.EventUpdated:
		if ev.Key.HasPrefix(filtersPrefix) {
			c.afterFiltersSettled(c.ctx)
		}
	}
}

// afterFiltersSettled reacts to a settled filters entry: recompute the
// applied count and key the data fetch on the new value.
func (c *Coordinator[F, D, V]) afterFiltersSettled(ctx context.Context) {
	res := c.Filters()
	if res.Status != querycache.StatusSuccess {
		return
	}

	count := 0
	if c.cfg.AppliedCount != nil {
		count = c.cfg.AppliedCount(res.Value)
	}
	c.mu.Lock()
	c.appliedCount = count
	c.mu.Unlock()

	c.fetchData(ctx, res.Value)
}

func (c *Coordinator[F, D, V]) onRouteChange(urlstate.Location) {
	select {
	case <-c.ctx.Done():
		return
	default:
	}
	c.sync(c.ctx)
}
