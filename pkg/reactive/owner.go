package reactive

import (
	"fmt"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"go.uber.org/multierr"
)

// Owner is a disposal scope. Effects, computeds and cleanups created while an
// Owner is current are disposed with it, and so are its child owners.
//
// Owners form a hierarchy mirroring rendered content: reconciliation
// primitives give every list item and branch its own Owner so that removed
// content releases its subscriptions.
type Owner struct {
	id uint64
	rt *Runtime

	parent   *Owner
	children []*Owner
	effects  []*Effect
	cleanups []func()

	disposed bool
}

func newOwner(rt *Runtime, parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		rt:     rt,
		parent: parent,
	}
	if parent != nil && !parent.disposed {
		parent.children = append(parent.children, o)
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for the root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed
}

// NewChild creates an owner nested under o.
func (o *Owner) NewChild() *Owner {
	return newOwner(o.rt, o)
}

// Run runs fn with o as the current owner.
func (o *Owner) Run(fn func()) {
	o.rt.WithOwner(o, fn)
}

// registerEffect adds an effect to this Owner.
func (o *Owner) registerEffect(e *Effect) {
	if o.disposed {
		return
	}
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when this Owner is disposed. On an already
// disposed Owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed {
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) removeChild(child *Owner) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Dispose disposes children (last created first), then effects, then runs
// cleanups in reverse registration order. Panics raised along the way are
// recovered and returned combined; disposal always completes.
func (o *Owner) Dispose() error {
	if o.disposed {
		return nil
	}
	o.disposed = true

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	var err error

	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		err = multierr.Append(err, children[i].Dispose())
	}

	effects := o.effects
	o.effects = nil
	for _, e := range effects {
		err = multierr.Append(err, safely(e.Dispose))
	}

	cleanups := o.cleanups
	o.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		err = multierr.Append(err, safely(cleanups[i]))
	}

	if err != nil && o.parent != nil && !o.parent.disposed {
		// Only the outermost disposing owner logs, to avoid duplicates.
		ae := aerrors.New("E004").WithDetailf("owner %d", o.id).Wrap(err)
		o.rt.logger.Error(ae.Message, ae.LogAttrs()...)
	}
	return err
}

// safely runs fn, converting a panic into an error.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}
