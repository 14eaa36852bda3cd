package querycache

import "context"

// Context keys for cache-related values.
type contextKey int

const clientKey contextKey = iota

// WithClient returns a new context carrying the given client, so nested
// components share one cache without explicit plumbing.
func WithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFromContext retrieves the client from the context.
// Returns nil if no client is present.
func ClientFromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientKey).(*Client)
	return c
}
