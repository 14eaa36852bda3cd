package filters

import (
	"context"
	"net/url"

	"github.com/filterkit/filterkit/observe"
	"github.com/filterkit/filterkit/querycache"
)

// Config wires one coordinator. F is the filter value, D the derived data,
// V the optional variants value.
//
// InitialFilters is part of the reader's cache key: give the same logical
// coordinator the same initial value, or reads will re-resolve under a new
// key on every change.
type Config[F, D, V any] struct {
	// Key namespaces every cache entry of this coordinator. Two
	// coordinators sharing a client must not share a key.
	Key querycache.Key

	// InitialFilters is the fallback filter value used before resolution
	// and whenever URL and external store are both empty.
	InitialFilters F

	// GetData fetches the dataset derived from the current filters.
	GetData func(ctx context.Context, filters F) (D, error)

	// ParseQuery converts the current URL query into a filter value,
	// filling unspecified fields from defaults as the caller sees fit.
	ParseQuery func(query url.Values) F

	// GetFiltersValues reads externally persisted filters. ok=false
	// means nothing is persisted yet.
	GetFiltersValues func(ctx context.Context) (filters F, ok bool, err error)

	// SetFiltersValues persists a replacement filter value and returns
	// the stored result (echoed or normalized by the backend).
	SetFiltersValues func(ctx context.Context, filters F) (F, error)

	// TransformQuery converts filters into the field map encoded into
	// the URL. Default: the filters' JSON field representation.
	TransformQuery func(filters F) map[string]any

	// AppliedCount derives the number of active filters. Without it the
	// coordinator's applied count is always zero.
	AppliedCount func(filters F) int

	// GetVariants fetches selectable filter option values, once per key
	// namespace, independent of filter state.
	GetVariants func(ctx context.Context) (V, error)

	// FetchOptions is forwarded verbatim to the derived-data fetch.
	FetchOptions querycache.Options

	// SetQuery replaces the built-in URL reflection with a caller
	// supplied query setter. The encoded query string is passed as-is.
	SetQuery func(query string)

	// Scroll controls whether URL reflection requests a scroll to top.
	// Default: true.
	Scroll *bool

	// Logger receives debug diagnostics. Default: no-op.
	Logger observe.Logger
}

// Validate checks the required fields.
func (c *Config[F, D, V]) Validate() error {
	if err := querycache.ValidateKey(c.Key); err != nil {
		return err
	}
	if c.GetData == nil {
		return ErrMissingGetData
	}
	if c.ParseQuery == nil {
		return ErrMissingParseQuery
	}
	if c.GetFiltersValues == nil {
		return ErrMissingReadAccessor
	}
	if c.SetFiltersValues == nil {
		return ErrMissingWriteAccess
	}
	return nil
}

func (c *Config[F, D, V]) scroll() bool {
	if c.Scroll == nil {
		return true
	}
	return *c.Scroll
}

func (c *Config[F, D, V]) logger() observe.Logger {
	if c.Logger == nil {
		return observe.NopLogger()
	}
	return c.Logger.WithComponent("filters")
}
