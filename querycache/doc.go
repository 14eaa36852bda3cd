// Package querycache provides a shared request-caching client for
// filter-dependent reads and writes.
//
// A Client deduplicates concurrent fetches, tracks per-key read state
// (pending/success/error plus staleness), persists values through a
// pluggable Store, and notifies subscribers when entries change or a key
// prefix is invalidated. Mutations run external writes and expose their
// outcome without touching the cache; invalidation is the caller's success
// hook.
package querycache
