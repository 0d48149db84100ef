package flow

import (
	"fmt"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// BoundaryProps configures ErrorBoundary.
type BoundaryProps struct {
	// Children renders the protected content.
	Children func() *dom.Node

	// Fallback renders the content shown while an error is set.
	Fallback func(err error) *dom.Node

	// OnError is called for every captured or reported error. Optional.
	OnError func(err error)
}

// Boundary is a region that renders a fallback instead of content that
// panicked.
type Boundary struct {
	rt     *reactive.Runtime
	b      dom.Backend
	region *region
	owner  *reactive.Owner
	props  BoundaryProps

	err    *reactive.Signal[error]
	branch *reactive.Owner
	node   *dom.Node
}

// ErrorBoundary renders Children at construction, capturing a panic as an
// error. On a live backend an effect watches the error: setting it swaps the
// region to Fallback, clearing it renders Children again. Both swaps remove
// and rebuild the whole region.
func ErrorBoundary(rt *reactive.Runtime, b dom.Backend, props BoundaryProps) *Boundary {
	r, frag := newRegion(b, "boundary")
	bd := &Boundary{
		rt:     rt,
		b:      b,
		region: r,
		owner:  rt.Owner(),
		props:  props,
		err:    reactive.NewSignal[error](rt, nil),
		node:   frag,
	}

	rt.Untrack(func() { bd.rebuild(nil, false) })

	if b.Live() {
		first := true
		reactive.NewEffect(rt, func() reactive.Cleanup {
			err := bd.err.Get()
			if first {
				first = false
				return nil
			}
			rt.Untrack(func() { bd.rebuild(err, true) })
			return nil
		})
	}
	return bd
}

// Node returns the fragment holding the boundary's markers. Insert it once.
func (bd *Boundary) Node() *dom.Node { return bd.node }

// Err returns the current error, or nil.
func (bd *Boundary) Err() error { return bd.err.Peek() }

// Report sets err as the boundary's error.
func (bd *Boundary) Report(err error) {
	if err == nil {
		return
	}
	bd.capture(err)
}

// Reset clears the error. On a live backend the children are rendered again.
func (bd *Boundary) Reset() {
	bd.err.Set(nil)
}

// rebuild replaces the region content with Fallback(err) or Children. When
// Children panics inside the watching effect, the captured error re-runs the
// effect and the fallback is rendered by that run.
func (bd *Boundary) rebuild(err error, fromEffect bool) {
	removed := bd.region.clear()
	if bd.branch != nil {
		_ = bd.branch.Dispose()
		bd.branch = nil
	}

	bd.branch = bd.owner.NewChild()
	var out *dom.Node
	if err != nil {
		if bd.props.Fallback != nil {
			out = render(bd.rt, bd.b, bd.branch, func() *dom.Node { return bd.props.Fallback(err) })
		}
	} else if bd.props.Children != nil {
		var perr error
		out, perr = bd.safeRender()
		if perr != nil {
			_ = bd.branch.Dispose()
			bd.branch = nil
			bd.capture(perr)
			if !fromEffect && bd.props.Fallback != nil {
				bd.branch = bd.owner.NewChild()
				out = render(bd.rt, bd.b, bd.branch, func() *dom.Node { return bd.props.Fallback(perr) })
			}
		}
	}

	created := 0
	if out != nil {
		bd.region.insert(out, nil)
		created = 1
	}
	bd.rt.Observer().Reconciled("boundary", reactive.ReconcileStats{Created: created, Removed: removed})
}

func (bd *Boundary) safeRender() (out *dom.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = panicError(r)
		}
	}()
	out = render(bd.rt, bd.b, bd.branch, bd.props.Children)
	return out, nil
}

func (bd *Boundary) capture(err error) {
	ae := aerrors.New("E021").WithDetail(err.Error())
	bd.rt.Logger().Warn(ae.Message, ae.LogAttrs()...)

	if bd.props.OnError != nil {
		bd.props.OnError(err)
	}
	bd.err.Set(err)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
