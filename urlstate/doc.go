// Package urlstate models the navigable location a filter coordinator
// reflects its state into.
//
// It defines the Router contract (readiness, current location, in-place
// replace) and an in-memory implementation suitable for servers, tools and
// tests, where the "URL" is application state rather than a browser bar.
package urlstate
