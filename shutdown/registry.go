package shutdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"zimage_power/core"
)

// Hook priorities used by main. Lower runs first.
const (
	PriorityHTTP     = 10
	PriorityWorkers  = 20
	PriorityDatabase = 30
	PriorityLogger   = 90
)

type hook struct {
	name     string
	priority int
	seq      int
	fn       core.ShutdownFunc
}

// Registry is an ordered set of cleanup hooks. Hooks with the same
// priority run in registration order.
type Registry struct {
	mu     sync.Mutex
	hooks  []hook
	closed bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. Registration after Run is ignored.
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || fn == nil {
		return
	}
	r.hooks = append(r.hooks, hook{name: name, priority: priority, seq: len(r.hooks), fn: fn})
}

func (r *Registry) sorted() []hook {
	out := make([]hook, len(r.hooks))
	copy(out, r.hooks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority < out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Run executes every hook once, in priority order, and returns the errors
// of those that failed. Every hook runs even after a failure.
func (r *Registry) Run(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	hooks := r.sorted()
	r.mu.Unlock()

	var errs []error
	for _, h := range hooks {
		if err := h.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errs
}

// Names returns hook names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	hooks := r.sorted()
	names := make([]string, len(hooks))
	for i, h := range hooks {
		names[i] = h.name
	}
	return names
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}
