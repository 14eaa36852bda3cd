package querycache

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/filterkit/filterkit/observe"
)

// Options is the per-query passthrough configuration. Callers of higher
// layers hand it through verbatim; the client applies it to one fetch.
type Options struct {
	// TTL overrides the client's default store persistence TTL.
	TTL time.Duration

	// StaleTime bounds how long a fetched value counts as fresh.
	// Zero means fresh until invalidated; negative means always refetch.
	StaleTime time.Duration

	// Disabled suppresses fetching; reads return the current snapshot
	// (seeded from InitialValue when nothing is cached yet).
	Disabled bool

	// InitialValue seeds the entry while no fetched value exists.
	InitialValue any

	// Retry is the retry policy for the fetch. Zero value: one attempt.
	Retry RetryConfig
}

// ClientConfig configures a Client. The zero value is usable: memory
// store, five minute default TTL, no-op telemetry.
type ClientConfig struct {
	// Store is the persistence backend. Default: NewMemoryStore().
	Store Store

	// DefaultTTL is the store TTL used when Options.TTL is zero.
	// Default: 5 minutes.
	DefaultTTL time.Duration

	// MaxTTL caps any TTL. Default: 1 hour.
	MaxTTL time.Duration

	// Meter receives cache hit/miss/invalidation counters.
	// Default: no-op meter.
	Meter metric.Meter

	// Logger receives debug-level diagnostics. Default: no-op logger.
	Logger observe.Logger
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.Store == nil {
		c.Store = NewMemoryStore()
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 5 * time.Minute
	}
	if c.MaxTTL <= 0 {
		c.MaxTTL = 1 * time.Hour
	}
	if c.Meter == nil {
		c.Meter = noop.NewMeterProvider().Meter("filterkit/querycache")
	}
	if c.Logger == nil {
		c.Logger = observe.NopLogger()
	}
	return c
}

// effectiveTTL returns the TTL to use, applying the default and clamping
// to the maximum.
func (c ClientConfig) effectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = c.DefaultTTL
	}
	if c.MaxTTL > 0 && ttl > c.MaxTTL {
		ttl = c.MaxTTL
	}
	return ttl
}
