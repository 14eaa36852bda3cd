package urlstate

import "net/url"

// Location is a navigable path plus raw query component.
type Location struct {
	Path     string
	RawQuery string
}

// Query parses the raw query component. Malformed components yield an
// empty set rather than an error; the raw text is still preserved.
func (l Location) Query() url.Values {
	vals, err := url.ParseQuery(l.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return vals
}

// String renders the location as path?query.
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// ReplaceOptions controls side effects of an in-place navigation.
type ReplaceOptions struct {
	// Scroll requests a scroll-to-top after the location changes.
	Scroll bool
}

// Router exposes the current navigable location and in-place updates to it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Readiness: Location is only meaningful once Ready reports true.
// - History: Replace must not grow navigation history.
type Router interface {
	// Ready reports whether the router has finished initializing.
	Ready() bool

	// Location returns the current location.
	Location() Location

	// Replace swaps the current location in place without adding a
	// history entry and without reloading anything.
	Replace(loc Location, opts ReplaceOptions)

	// Subscribe registers a callback invoked after every location or
	// readiness change. The returned function cancels the subscription.
	Subscribe(fn func(Location)) (cancel func())
}
