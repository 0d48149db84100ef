package flow

import (
	"reflect"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// ShowProps configures Show.
type ShowProps[T any] struct {
	// When is the condition.
	When reactive.Value[T]

	// Children renders the truthy branch and receives the condition's value.
	Children func(v T) *dom.Node

	// Fallback renders the falsy branch. Optional.
	Fallback func() *dom.Node

	// Truthy decides which branch to show. Defaults to "not the zero value".
	Truthy func(v T) bool
}

// Show renders one of two branches. Every run removes the current content
// and renders the selected branch from scratch; nothing is reused between
// runs, even when the same branch is selected again.
func Show[T any](rt *reactive.Runtime, b dom.Backend, props ShowProps[T]) *dom.Node {
	truthy := props.Truthy
	if truthy == nil {
		truthy = notZero[T]
	}

	r, frag := newRegion(b, "show")
	owner := rt.Owner()
	var branch *reactive.Owner

	install(rt, b, func() {
		v := props.When.Get()
		rt.Untrack(func() {
			stats := reactive.ReconcileStats{Removed: r.clear()}
			if branch != nil {
				_ = branch.Dispose()
				branch = nil
			}

			var fn func() *dom.Node
			switch {
			case truthy(v) && props.Children != nil:
				fn = func() *dom.Node { return props.Children(v) }
			case !truthy(v) && props.Fallback != nil:
				fn = props.Fallback
			}
			if fn != nil {
				branch = owner.NewChild()
				r.insert(render(rt, b, branch, fn), nil)
				stats.Created = 1
			}

			rt.Observer().Reconciled("show", stats)
		})
	})
	return frag
}

func notZero[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	return rv.IsValid() && !rv.IsZero()
}
