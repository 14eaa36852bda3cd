package urlstate

import "sync"

// MemoryRouter is an in-process Router backed by a history slice.
//
// It starts not ready; SetReady flips the readiness latch and notifies
// subscribers. Push adds a history entry, Replace overwrites the current
// one, so push and replace navigations stay distinguishable.
type MemoryRouter struct {
	mu       sync.RWMutex
	ready    bool
	history  []Location
	scrollFn func()
	subs     map[int]func(Location)
	nextSub  int
}

// NewMemoryRouter creates a router positioned at the given location.
func NewMemoryRouter(initial Location) *MemoryRouter {
	return &MemoryRouter{
		history: []Location{initial},
		subs:    make(map[int]func(Location)),
	}
}

// SetReady flips the readiness latch.
func (r *MemoryRouter) SetReady(ready bool) {
	r.mu.Lock()
	changed := r.ready != ready
	r.ready = ready
	loc := r.history[len(r.history)-1]
	r.mu.Unlock()

	if changed {
		r.notify(loc)
	}
}

// Ready reports whether the router has finished initializing.
func (r *MemoryRouter) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Location returns the current location.
func (r *MemoryRouter) Location() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history[len(r.history)-1]
}

// Push navigates to a new location, adding a history entry.
func (r *MemoryRouter) Push(loc Location) {
	r.mu.Lock()
	r.history = append(r.history, loc)
	r.mu.Unlock()

	r.notify(loc)
}

// Replace swaps the current location without growing history. When the
// options request it and a scroll hook is installed, the hook runs after
// the swap.
func (r *MemoryRouter) Replace(loc Location, opts ReplaceOptions) {
	r.mu.Lock()
	r.history[len(r.history)-1] = loc
	scrollFn := r.scrollFn
	r.mu.Unlock()

	if opts.Scroll && scrollFn != nil {
		scrollFn()
	}
	r.notify(loc)
}

// OnScroll installs the hook invoked when a Replace requests scrolling.
func (r *MemoryRouter) OnScroll(fn func()) {
	r.mu.Lock()
	r.scrollFn = fn
	r.mu.Unlock()
}

// Subscribe registers a location-change callback.
func (r *MemoryRouter) Subscribe(fn func(Location)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// History returns a copy of the navigation history, oldest first.
func (r *MemoryRouter) History() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Location(nil), r.history...)
}

func (r *MemoryRouter) notify(loc Location) {
	r.mu.RLock()
	fns := make([]func(Location), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(loc)
	}
}

// Ensure MemoryRouter implements Router
var _ Router = (*MemoryRouter)(nil)
