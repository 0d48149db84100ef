package reactive

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
)

// DefaultMaxEffectIterations is the number of runs an effect may perform in
// one self-triggered cascade before it is stopped.
const DefaultMaxEffectIterations = 100

// idCounter is the global counter for unique IDs.
var idCounter uint64

// nextID returns the next unique ID for signals, computeds, effects and owners.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// Runtime is the per-session context record shared by every primitive created
// for one render session: tracking stack, keyed-signal registry, current
// owner, logger and diagnostics observer.
type Runtime struct {
	tracker  tracker
	registry *Registry
	root     *Owner
	owner    *Owner
	logger   *slog.Logger
	observer Observer

	maxIterations int
	ssr           bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithObserver sets the diagnostics observer.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		if o != nil {
			rt.observer = o
		}
	}
}

// WithMaxEffectIterations overrides the per-cascade effect run cap.
// Values below 1 are ignored.
func WithMaxEffectIterations(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxIterations = n
		}
	}
}

// WithRestore seeds keyed signals with previously captured values. Each value
// is decoded into the signal's type when the key is first registered.
func WithRestore(values map[string]json.RawMessage) Option {
	return func(rt *Runtime) {
		rt.registry.Restore(values)
	}
}

// NewRuntime creates a Runtime with a fresh registry and root owner.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		logger:        slog.Default(),
		observer:      NopObserver{},
		maxIterations: DefaultMaxEffectIterations,
	}
	rt.registry = newRegistry(rt)
	for _, opt := range opts {
		opt(rt)
	}
	rt.root = newOwner(rt, nil)
	rt.owner = rt.root
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Observer returns the runtime's diagnostics observer.
func (rt *Runtime) Observer() Observer {
	return rt.observer
}

// Registry returns the keyed-signal registry of this session.
func (rt *Runtime) Registry() *Registry {
	return rt.registry
}

// MaxEffectIterations returns the per-cascade effect run cap.
func (rt *Runtime) MaxEffectIterations() int {
	return rt.maxIterations
}

// BeginSSR switches the session into server-rendering mode and clears the
// keyed-signal registry.
func (rt *Runtime) BeginSSR() {
	rt.ssr = true
	rt.registry.reset()
}

// IsSSR reports whether the session is rendering on the server.
func (rt *Runtime) IsSSR() bool {
	return rt.ssr
}

// Owner returns the current owner.
func (rt *Runtime) Owner() *Owner {
	return rt.owner
}

// NewOwner creates an owner that is a child of the current owner.
func (rt *Runtime) NewOwner() *Owner {
	return newOwner(rt, rt.owner)
}

// WithOwner runs fn with o as the current owner. Effects and computeds created
// inside fn are disposed together with o.
func (rt *Runtime) WithOwner(o *Owner, fn func()) {
	prev := rt.owner
	rt.owner = o
	defer func() { rt.owner = prev }()
	fn()
}

// Untrack runs fn without recording any signal reads as dependencies.
func (rt *Runtime) Untrack(fn func()) {
	rt.tracker.push(nil)
	defer rt.tracker.pop()
	fn()
}

// Untracked runs fn without dependency tracking and returns its result.
func Untracked[T any](rt *Runtime, fn func() T) T {
	var out T
	rt.Untrack(func() { out = fn() })
	return out
}

// Dispose disposes the root owner and everything created under it.
func (rt *Runtime) Dispose() error {
	return rt.root.Dispose()
}
