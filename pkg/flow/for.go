package flow

import (
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// ForProps configures For.
type ForProps[T any] struct {
	// Each is the list to render.
	Each reactive.Value[[]T]

	// Children renders one item. index holds the item's current position and
	// is updated in place when the item moves.
	Children func(item T, index *reactive.Signal[int]) *dom.Node
}

// forInstance is one rendered item.
type forInstance[T any] struct {
	item  T
	span  span
	index *reactive.Signal[int]
	owner *reactive.Owner
	fresh bool
}

type forList[T any] struct {
	rt     *reactive.Runtime
	b      dom.Backend
	region *region
	owner  *reactive.Owner
	render func(item T, index *reactive.Signal[int]) *dom.Node

	instances []*forInstance[T]
}

// For renders a list, reusing the rendered nodes of an item when the same
// value appears again on a later run.
//
// Items are matched by value identity (see reactive.IdentityKey), never by
// index: equal comparable values match, slices, maps and pointers match only
// themselves. Duplicates share one pool and are matched in order of their
// previous positions. Reused items are not re-rendered; only their index
// signal is updated. Unmatched old items are removed, then a single
// back-to-front pass moves each out-of-place node at most once.
func For[T any](rt *reactive.Runtime, b dom.Backend, props ForProps[T]) (*dom.Node, error) {
	if props.Children == nil {
		return nil, missingRender("For")
	}

	r, frag := newRegion(b, "for")
	l := &forList[T]{
		rt:     rt,
		b:      b,
		region: r,
		owner:  rt.Owner(),
		render: props.Children,
	}

	install(rt, b, func() {
		items := props.Each.Get()
		rt.Untrack(func() { l.reconcile(items) })
	})
	return frag, nil
}

func (l *forList[T]) reconcile(items []T) {
	var stats reactive.ReconcileStats

	// value -> instances from the previous run, in previous order.
	pool := make(map[any][]*forInstance[T], len(l.instances))
	for _, in := range l.instances {
		key := reactive.IdentityKey(in.item)
		pool[key] = append(pool[key], in)
	}

	claimed := make(map[*forInstance[T]]bool, len(items))
	var staging *dom.Node
	next := make([]*forInstance[T], len(items))
	for i, item := range items {
		key := reactive.IdentityKey(item)
		if stack := pool[key]; len(stack) > 0 {
			in := stack[0]
			pool[key] = stack[1:]
			claimed[in] = true
			in.fresh = false
			in.index.Set(i)
			next[i] = in
			stats.Reused++
			continue
		}

		in := &forInstance[T]{
			item:  item,
			index: reactive.NewSignal(l.rt, i),
			owner: l.owner.NewChild(),
			fresh: true,
		}
		out := render(l.rt, l.b, in.owner, func() *dom.Node { return l.render(item, in.index) })
		in.span = spanOf(out)
		if staging == nil {
			staging = l.b.CreateFragment()
		}
		l.b.AppendChild(staging, out)
		next[i] = in
		stats.Created++
	}

	ps := positions{}
	var stale []*forInstance[T]
	var staleNodes [][]*dom.Node
	for _, in := range l.instances {
		if !claimed[in] {
			stale = append(stale, in)
			staleNodes = append(staleNodes, in.span.nodes(ps))
		}
	}
	for i, in := range stale {
		l.region.remove(staleNodes[i])
		_ = in.owner.Dispose()
		stats.Removed++
	}

	stats.Moved = l.sync(next)
	l.instances = next
	l.rt.Observer().Reconciled("for", stats)
}

// sync walks the new order back to front with a cursor starting at the end
// marker, inserting each node before the cursor unless it is already there.
// The cursor's index is tracked so that a node in place costs no search.
// It returns the number of moved nodes of reused instances.
func (l *forList[T]) sync(order []*forInstance[T]) int {
	ps := positions{}
	groups := make([][]*dom.Node, len(order))
	for i, in := range order {
		groups[i] = in.span.nodes(ps)
	}

	moved := 0
	parent := l.region.parent()
	cursor := l.region.end
	at := l.b.IndexOf(parent, cursor)
	for i := len(order) - 1; i >= 0; i-- {
		nodes := groups[i]
		for j := len(nodes) - 1; j >= 0; j-- {
			n := nodes[j]
			if n.Parent() == parent && parent.Child(at-1) == n {
				at--
			} else {
				l.b.InsertBefore(parent, n, cursor)
				if !order[i].fresh {
					moved++
				}
				at = l.b.IndexOf(parent, n)
			}
			cursor = n
		}
	}
	return moved
}
