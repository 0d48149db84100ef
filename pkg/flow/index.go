package flow

import (
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// IndexProps configures Index.
type IndexProps[T any] struct {
	// Each is the list to render.
	Each reactive.Value[[]T]

	// Children renders the slot at index. item holds the slot's current
	// value and is updated in place when the value at that position changes.
	Children func(item *reactive.Signal[T], index int) *dom.Node
}

type indexSlot[T any] struct {
	value *reactive.Signal[T]
	span  span
	owner *reactive.Owner
}

// Index renders a list keyed by position. A slot is rendered once, when the
// list first grows to include it; later changes at that position only update
// the slot's signal. Shrinking removes trailing slots.
func Index[T any](rt *reactive.Runtime, b dom.Backend, props IndexProps[T]) (*dom.Node, error) {
	if props.Children == nil {
		return nil, missingRender("Index")
	}

	r, frag := newRegion(b, "index")
	owner := rt.Owner()
	var slots []*indexSlot[T]

	install(rt, b, func() {
		items := props.Each.Get()
		rt.Untrack(func() {
			var stats reactive.ReconcileStats

			shared := min(len(slots), len(items))
			for i := 0; i < shared; i++ {
				// Set is a no-op when the value is unchanged.
				slots[i].value.Set(items[i])
				stats.Reused++
			}

			for len(slots) > len(items) {
				last := slots[len(slots)-1]
				slots = slots[:len(slots)-1]
				r.remove(last.span.nodes(positions{}))
				_ = last.owner.Dispose()
				stats.Removed++
			}

			for i := len(slots); i < len(items); i++ {
				slot := &indexSlot[T]{
					value: reactive.NewSignal(rt, items[i]),
					owner: owner.NewChild(),
				}
				i := i
				out := render(rt, b, slot.owner, func() *dom.Node { return props.Children(slot.value, i) })
				slot.span = spanOf(out)
				r.insert(out, nil)
				slots = append(slots, slot)
				stats.Created++
			}

			rt.Observer().Reconciled("index", stats)
		})
	})
	return frag, nil
}
