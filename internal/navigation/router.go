package navigation

import (
	"context"
	"fmt"
	"sync"

	"hotelguru/internal/domain"
)

// Hook runs before a transition commits. A non-nil location redirects the
// navigation there; an error aborts it.
type Hook func(ctx context.Context, to, from Resolved) (*Location, error)

const (
	maxRedirects = 10
	// HistoryLimit bounds the kept history; older entries are dropped first
	HistoryLimit = 100
)

// Router resolves navigation targets, runs the before-each hooks and keeps
// the current location with its history
type Router struct {
	table *Table

	mu      sync.RWMutex
	hooks   []Hook
	current Resolved
	history []Resolved
}

// NewRouter starts at "/" with nothing committed yet
func NewRouter(table *Table) *Router {
	return &Router{
		table:   table,
		current: Resolved{Location: Location{Path: "/"}},
	}
}

// Table returns the route table
func (r *Router) Table() *Table {
	return r.table
}

// BeforeEach registers a hook run on every navigation, in registration order
func (r *Router) BeforeEach(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Resolve matches loc without navigating
func (r *Router) Resolve(loc Location) (Resolved, error) {
	return r.table.Resolve(loc)
}

// Push navigates to loc and returns where navigation ended after any
// redirects. Unknown paths are not committed.
func (r *Router) Push(ctx context.Context, loc Location) (Resolved, error) {
	r.mu.RLock()
	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	from := r.current
	r.mu.RUnlock()

	target := loc
	for range maxRedirects {
		to, err := r.table.Resolve(target)
		if err != nil {
			return Resolved{}, err
		}
		if !to.Found() {
			return to, fmt.Errorf("%w: %s", domain.ErrRouteNotFound, to.FullPath())
		}

		redirect, err := runHooks(ctx, hooks, to, from)
		if err != nil {
			return from, err
		}
		if redirect != nil {
			target = *redirect
			continue
		}

		r.mu.Lock()
		if len(r.history) == HistoryLimit {
			copy(r.history, r.history[1:])
			r.history = r.history[:HistoryLimit-1]
		}
		r.history = append(r.history, to)
		r.current = to
		r.mu.Unlock()
		return to, nil
	}
	return from, fmt.Errorf("navigation to %s: too many redirects", loc.FullPath())
}

func runHooks(ctx context.Context, hooks []Hook, to, from Resolved) (*Location, error) {
	for _, h := range hooks {
		redirect, err := h(ctx, to, from)
		if err != nil || redirect != nil {
			return redirect, err
		}
	}
	return nil, nil
}

// Current returns the last committed location
func (r *Router) Current() Resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns the last HistoryLimit committed locations, oldest first
func (r *Router) History() []Resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resolved, len(r.history))
	copy(out, r.history)
	return out
}
