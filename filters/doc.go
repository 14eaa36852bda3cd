// Package filters coordinates a filter state value, its URL query
// reflection, and the cached data derived from it.
//
// A Coordinator resolves current filters from the URL or an external
// accessor, fetches filter-dependent data through a shared querycache
// client, persists filter updates, and reflects them back into the
// navigable location. All read and write outcomes surface on cache and
// mutation state; the coordinator itself never renders errors.
package filters
