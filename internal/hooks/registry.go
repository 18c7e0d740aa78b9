// ABOUTME: In-process callback registry for lifecycle hooks
// ABOUTME: Callbacks run sequentially in registration order; any false return cancels the chain

package hooks

import (
	"time"

	"github.com/fresheditor/fresh/internal/elog"
)

// Callback is invoked with a lifecycle event's typed arguments. Returning
// false cancels the in-flight operation and stops the remaining callbacks in
// the chain from running.
type Callback func(args HookArgs) bool

// Registry holds callbacks keyed by hook name, in registration order.
type Registry struct {
	callbacks map[string][]Callback
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[string][]Callback)}
}

// AddHook appends callback to name's chain.
func (r *Registry) AddHook(name string, callback Callback) {
	r.callbacks[name] = append(r.callbacks[name], callback)
}

// RemoveHooks clears every callback registered for name.
func (r *Registry) RemoveHooks(name string) {
	delete(r.callbacks, name)
}

// RunHooks invokes every callback registered for name, in order, passing
// args to each. It returns false as soon as a callback returns false,
// without running any callback after it.
func (r *Registry) RunHooks(name string, args HookArgs) bool {
	for _, cb := range r.callbacks[name] {
		if !cb(args) {
			return false
		}
	}
	return true
}

// RunHooksWithTimeout behaves like RunHooks but stops running further
// callbacks once timeout elapses since the call began, logging a warning
// and letting the operation continue (returns true) rather than blocking it.
func (r *Registry) RunHooksWithTimeout(name string, args HookArgs, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for _, cb := range r.callbacks[name] {
		if time.Now().After(deadline) {
			elog.Warn("hook chain for %q exceeded timeout budget of %v", name, timeout)
			return true
		}
		if !cb(args) {
			return false
		}
	}
	return true
}

// Count reports how many callbacks are registered for name, for tests and
// diagnostics.
func (r *Registry) Count(name string) int {
	return len(r.callbacks[name])
}
