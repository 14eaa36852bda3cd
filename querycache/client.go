package querycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/filterkit/filterkit/observe"
)

// EventType classifies client notifications.
type EventType int

const (
	// EventUpdated fires after a fetch settles an entry.
	EventUpdated EventType = iota
	// EventInvalidated fires after a prefix invalidation.
	EventInvalidated
)

// Event describes a change to cached state.
type Event struct {
	Type EventType
	Key  Key
}

type subscription struct {
	prefix Key
	fn     func(Event)
}

// Client is a shared request cache.
//
// Contract:
// - Concurrency: safe for concurrent use; concurrent fetches of one key
//   are deduplicated.
// - Errors: fetch failures surface on the entry's Result, never panics.
// - Sharing: multiple coordinators may share one Client as long as their
//   keys are namespaced.
type Client struct {
	cfg     ClientConfig
	store   Store
	logger  observe.Logger
	metrics *clientMetrics

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*entry
	subs    map[int]subscription
	nextSub int
}

// NewClient creates a client. The zero ClientConfig gives an in-memory
// store with default TTLs and no telemetry.
func NewClient(cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:     cfg,
		store:   cfg.Store,
		logger:  cfg.Logger.WithComponent("querycache"),
		metrics: newClientMetrics(cfg.Meter),
		entries: make(map[string]*entry),
		subs:    make(map[int]subscription),
	}
}

// FetchFunc produces the value for a cache entry.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Fetch returns the cached value under key, fetching it first when the
// entry is missing, stale, or older than the options' stale window.
// Concurrent fetches of one key share a single flight. Fetch errors are
// recorded on the returned Result; the previous value, if any, is kept.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn FetchFunc[T], opts Options) Result[T] {
	if c == nil {
		return Result[T]{Status: StatusError, Err: ErrNilClient}
	}
	if err := ValidateKey(key); err != nil {
		return Result[T]{Status: StatusError, Err: err}
	}

	ks := key.String()

	c.mu.RLock()
	e, ok := c.entries[ks]
	fresh := ok && e.status == StatusSuccess && !e.stale && withinStaleWindow(e.updatedAt, opts.StaleTime)
	c.mu.RUnlock()

	if opts.Disabled {
		return seededLookup[T](c, key, opts)
	}

	if fresh {
		c.metrics.recordHit(ctx, key)
		return Lookup[T](c, key)
	}
	c.metrics.recordMiss(ctx, key)

	e = c.ensureEntry(key, opts)

	c.group.Do(ks, func() (any, error) {
		if warmStart[T](ctx, c, e, ks) {
			return nil, nil
		}

		var value T
		err := opts.Retry.run(ctx, func(ctx context.Context) error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			value = v
			return nil
		})
		if err != nil {
			c.settle(e, nil, false, err)
			return nil, nil
		}

		c.settle(e, value, true, nil)
		c.persist(ctx, ks, value, opts)
		return nil, nil
	})

	return Lookup[T](c, key)
}

// warmStart settles a never-fetched entry from the persisted store copy.
func warmStart[T any](ctx context.Context, c *Client, e *entry, ks string) bool {
	c.mu.RLock()
	cold := e.status == StatusPending && !e.stale
	c.mu.RUnlock()
	if !cold {
		return false
	}

	data, ok := c.store.Get(ctx, ks)
	if !ok {
		return false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}
	c.settle(e, value, true, nil)
	return true
}

// Lookup returns the current snapshot under key without fetching.
func Lookup[T any](c *Client, key Key) Result[T] {
	if c == nil {
		return Result[T]{Status: StatusError, Err: ErrNilClient}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Result[T]{}
	}
	return resultOf[T](e)
}

func seededLookup[T any](c *Client, key Key, opts Options) Result[T] {
	r := Lookup[T](c, key)
	if r.Status == StatusPending && opts.InitialValue != nil {
		if v, ok := opts.InitialValue.(T); ok {
			r.Value = v
		}
	}
	return r
}

func (c *Client) ensureEntry(key Key, opts Options) *entry {
	ks := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ks]
	if !ok {
		e = &entry{key: key, status: StatusPending}
		if opts.InitialValue != nil {
			e.value = opts.InitialValue
			e.hasValue = true
		}
		c.entries[ks] = e
	}
	return e
}

func withinStaleWindow(updatedAt time.Time, staleTime time.Duration) bool {
	if staleTime < 0 {
		return false
	}
	if staleTime == 0 {
		return true
	}
	return time.Since(updatedAt) < staleTime
}

// Invalidate marks every entry under prefix stale, drops the persisted
// values, and notifies subscribers. Stale entries refetch on next read.
func (c *Client) Invalidate(ctx context.Context, prefix Key) error {
	if err := ValidateKey(prefix); err != nil {
		return err
	}

	c.mu.Lock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
		}
	}
	c.mu.Unlock()

	if err := c.store.DeletePrefix(ctx, prefix.String()); err != nil {
		return err
	}

	c.metrics.recordInvalidation(ctx, prefix)
	c.logger.Debug(ctx, "invalidated prefix", observe.F("prefix", prefix.String()))
	c.notify(Event{Type: EventInvalidated, Key: prefix})
	return nil
}

// Subscribe registers a callback for events whose key overlaps prefix.
// The returned function cancels the subscription.
func (c *Client) Subscribe(prefix Key, fn func(Event)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = subscription{prefix: prefix, fn: fn}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) notify(ev Event) {
	c.mu.RLock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, sub := range c.subs {
		if ev.Key.Overlaps(sub.prefix) {
			fns = append(fns, sub.fn)
		}
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// settle records a fetch outcome on an entry and notifies subscribers.
// On error the previous value and staleness are preserved.
func (c *Client) settle(e *entry, value any, hasValue bool, err error) {
	c.mu.Lock()
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.err = nil
		e.stale = false
		if hasValue {
			e.value = value
			e.hasValue = true
		}
	}
	e.updatedAt = time.Now()
	key := e.key
	c.mu.Unlock()

	c.notify(Event{Type: EventUpdated, Key: key})
}

func (c *Client) persist(ctx context.Context, ks string, value any, opts Options) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug(ctx, "skip persist, value not serializable", observe.F("key", ks))
		return
	}
	if err := c.store.Set(ctx, ks, data, c.cfg.effectiveTTL(opts.TTL)); err != nil {
		c.logger.Warn(ctx, "store set failed", observe.F("key", ks), observe.F("error", err.Error()))
	}
}
