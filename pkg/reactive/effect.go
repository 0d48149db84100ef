package reactive

import (
	"sync"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"go.uber.org/multierr"
)

// EffectState is the lifecycle state of an Effect.
type EffectState uint8

const (
	EffectIdle EffectState = iota
	EffectRunning
	EffectDisposed
)

// String returns the string representation of the EffectState.
func (s EffectState) String() string {
	switch s {
	case EffectIdle:
		return "Idle"
	case EffectRunning:
		return "Running"
	case EffectDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// Effect is a tracked side effect. It runs once on creation and re-runs,
// synchronously, whenever a signal it read during its last run changes.
//
// A change that arrives while the effect is running is coalesced into one
// more run after the current one finishes. A cascade of such re-runs is capped
// at the runtime's MaxEffectIterations; the overrun is logged and the effect
// keeps the state of its last run.
//
// Each run owns a fresh scope: effects, computeds and cleanups created inside
// the body are disposed before the next run and when the effect is disposed.
// Panics raised while releasing a run are logged (E004) and do not stop the
// effect.
type Effect struct {
	id uint64
	rt *Runtime

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// scope owns what the last run created.
	scope *Owner

	// sources are the signals this effect read during its last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	state   EffectState
	pending bool
	runs    int
}

// NewEffect creates an effect owned by the current owner and runs it
// immediately.
//
// Example:
//
//	NewEffect(rt, func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func NewEffect(rt *Runtime, fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		rt: rt,
		fn: fn,
	}
	if owner := rt.owner; owner != nil {
		owner.registerEffect(e)
	}
	e.execute()
	return e
}

// Notify schedules a re-run. Implements the Listener interface.
func (e *Effect) Notify() {
	switch e.state {
	case EffectDisposed:
		return
	case EffectRunning:
		e.pending = true
		return
	}
	e.execute()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// State returns the lifecycle state.
func (e *Effect) State() EffectState {
	return e.state
}

// Pending reports whether a re-run was requested during the current run.
func (e *Effect) Pending() bool {
	return e.pending
}

// Runs returns how many times the effect function has been called.
func (e *Effect) Runs() int {
	return e.runs
}

// execute runs the effect until no re-run is pending, or the cap is hit.
func (e *Effect) execute() {
	limit := e.rt.maxIterations
	for i := 1; ; i++ {
		e.run()
		if e.state == EffectDisposed || !e.pending {
			return
		}
		if i >= limit {
			e.pending = false
			err := aerrors.New("E002").
				WithDetailf("effect %d re-ran %d times in one cascade", e.id, limit).
				Wrap(ErrEffectConvergence)
			e.rt.logger.Error(err.Message, err.LogAttrs()...)
			e.rt.observer.EffectConvergenceExceeded()
			return
		}
	}
}

// run performs one pass: release the previous run, drop old dependencies,
// run fn in a fresh tracking frame and scope.
func (e *Effect) run() {
	e.state = EffectRunning
	defer func() {
		if e.state == EffectRunning {
			e.state = EffectIdle
		}
	}()

	e.release()
	e.unsubscribeAll()
	e.pending = false

	e.scope = newOwner(e.rt, nil)
	e.rt.tracker.push(e)
	defer e.rt.tracker.pop()

	e.runs++
	e.rt.observer.EffectRun()
	var cleanup Cleanup
	e.rt.WithOwner(e.scope, func() { cleanup = e.fn() })

	if e.state == EffectDisposed {
		// Disposed by its own body: drop what the rest of the run created.
		e.unsubscribeAll()
		e.cleanup = cleanup
		e.release()
		return
	}
	e.cleanup = cleanup
}

// release disposes the scope of the last run and calls its cleanup.
func (e *Effect) release() {
	var err error
	if scope := e.scope; scope != nil {
		e.scope = nil
		err = multierr.Append(err, scope.Dispose())
	}
	if cleanup := e.cleanup; cleanup != nil {
		e.cleanup = nil
		err = multierr.Append(err, safely(cleanup))
	}
	if err != nil {
		ae := aerrors.New("E004").WithDetailf("effect %d", e.id).Wrap(err)
		e.rt.logger.Error(ae.Message, ae.LogAttrs()...)
	}
}

// Dispose unsubscribes from all dependencies and runs the last cleanup.
func (e *Effect) Dispose() {
	if e.state == EffectDisposed {
		return
	}
	e.state = EffectDisposed
	e.pending = false
	e.unsubscribeAll()
	e.release()
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) unsubscribeAll() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

var _ dependent = (*Effect)(nil)
