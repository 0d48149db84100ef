package reactive

import (
	"sync"

	aerrors "github.com/vango-dev/anchor/internal/errors"
)

// Computed is a read-only signal whose value is derived from other signals.
// It is evaluated eagerly on construction and again, synchronously, whenever
// a signal it read changes. Downstream subscribers are only notified when the
// derived value actually changes.
type Computed[T any] struct {
	id uint64
	rt *Runtime

	fn      func() T
	backing *Signal[T]

	// sources are the signals read during the last evaluation.
	sources   []*signalBase
	sourcesMu sync.Mutex

	computing bool
	disposed  bool
}

// NewComputed creates a computed value owned by the current owner.
func NewComputed[T any](rt *Runtime, fn func() T) *Computed[T] {
	c := &Computed[T]{
		id: nextID(),
		rt: rt,
		fn: fn,
	}
	c.backing = newSignal(rt, c.evaluate())
	if owner := rt.owner; owner != nil {
		owner.OnCleanup(c.Dispose)
	}
	return c
}

// evaluate runs fn in a fresh tracking frame, replacing the previous sources.
func (c *Computed[T]) evaluate() T {
	c.unsubscribeAll()

	c.computing = true
	c.rt.tracker.push(c)
	defer func() {
		c.rt.tracker.pop()
		c.computing = false
	}()
	return c.fn()
}

// Notify recomputes and pushes the result into the backing signal.
// Implements the Listener interface.
func (c *Computed[T]) Notify() {
	if c.disposed || c.computing {
		return
	}
	c.backing.Set(c.evaluate())
}

// ID returns the unique identifier for this computed.
// Implements the Listener interface.
func (c *Computed[T]) ID() uint64 {
	return c.id
}

// Get returns the derived value and subscribes the current tracked evaluation.
func (c *Computed[T]) Get() T {
	return c.backing.Get()
}

// Peek returns the derived value without subscribing.
func (c *Computed[T]) Peek() T {
	return c.backing.Peek()
}

// Write always fails: computed values can only change through their
// dependencies.
func (c *Computed[T]) Write(T) error {
	c.rt.observer.ComputedWriteRejected()
	return aerrors.New("E001").
		WithDetailf("computed %d", c.id).
		Wrap(ErrComputedWrite)
}

// Subscribe registers fn to run after every change of the derived value.
func (c *Computed[T]) Subscribe(fn func()) (unsubscribe func()) {
	return c.backing.Subscribe(fn)
}

// Dispose unsubscribes from all dependencies. The last value stays readable.
func (c *Computed[T]) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.unsubscribeAll()
}

// Disposed reports whether Dispose has been called.
func (c *Computed[T]) Disposed() bool {
	return c.disposed
}

func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

func (c *Computed[T]) unsubscribeAll() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(c)
	}
}

var (
	_ Cell[int] = (*Computed[int])(nil)
	_ dependent = (*Computed[int])(nil)
)
