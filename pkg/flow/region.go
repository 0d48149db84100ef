package flow

import (
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// region is a pair of marker comments. Content lives strictly between them.
type region struct {
	b     dom.Backend
	start *dom.Node
	end   *dom.Node
}

// newRegion creates the markers and returns them inside a fragment, ready to
// be inserted by the caller.
func newRegion(b dom.Backend, name string) (*region, *dom.Node) {
	r := &region{
		b:     b,
		start: b.CreateComment(dom.MarkerStart(name)),
		end:   b.CreateComment(dom.MarkerEnd(name)),
	}
	frag := b.CreateFragment()
	b.AppendChild(frag, r.start)
	b.AppendChild(frag, r.end)
	return r, frag
}

// parent returns the node currently holding the markers. Until the returned
// fragment is inserted somewhere this is the fragment itself.
func (r *region) parent() *dom.Node {
	return r.end.Parent()
}

// insert places n immediately before ref, or before the end marker.
func (r *region) insert(n, ref *dom.Node) {
	if ref == nil {
		ref = r.end
	}
	r.b.InsertBefore(r.parent(), n, ref)
}

// clear removes every node between the markers and returns how many it
// removed.
func (r *region) clear() int {
	p := r.parent()
	removed := 0
	for {
		n := p.Child(r.b.IndexOf(p, r.start) + 1)
		if n == nil || n == r.end {
			return removed
		}
		r.b.RemoveChild(p, n)
		removed++
	}
}

// remove detaches nodes from wherever they are.
func (r *region) remove(nodes []*dom.Node) {
	for _, n := range nodes {
		if p := n.Parent(); p != nil {
			r.b.RemoveChild(p, n)
		}
	}
}

// span is the contiguous run of sibling nodes produced by one render call.
// Regions nested inside the span may add and remove nodes between its
// endpoints, so the membership is read from the tree when needed.
type span struct {
	first *dom.Node
	last  *dom.Node
}

// spanOf records the nodes of a render result. Fragments are expanded.
func spanOf(n *dom.Node) span {
	nodes := dom.Flatten(n)
	if len(nodes) == 0 {
		return span{}
	}
	return span{first: nodes[0], last: nodes[len(nodes)-1]}
}

// nodes returns the current members of the span in order, reading child
// indexes through ps.
func (s span) nodes(ps positions) []*dom.Node {
	if s.first == nil {
		return nil
	}
	p := s.first.Parent()
	if p == nil {
		if s.first == s.last {
			return []*dom.Node{s.first}
		}
		return nil
	}
	from := ps.of(s.first)
	to := ps.of(s.last)
	if s.last.Parent() != p || to < from {
		return []*dom.Node{s.first}
	}
	out := make([]*dom.Node, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, p.Child(i))
	}
	return out
}

// positions caches the index of nodes within their parent. The first lookup
// under a parent indexes all of its children, so a pass over many siblings
// reads each parent once. Valid only while the tree is not mutated.
type positions map[*dom.Node]int

func (ps positions) of(n *dom.Node) int {
	if i, ok := ps[n]; ok {
		return i
	}
	p := n.Parent()
	if p == nil {
		return -1
	}
	for i, c := range p.Children() {
		ps[c] = i
	}
	return ps[n]
}

// render runs fn untracked under owner and returns its output. A nil result
// is replaced by an empty fragment.
func render(rt *reactive.Runtime, b dom.Backend, owner *reactive.Owner, fn func() *dom.Node) *dom.Node {
	var out *dom.Node
	owner.Run(func() {
		rt.Untrack(func() { out = fn() })
	})
	if out == nil {
		out = b.CreateFragment()
	}
	return out
}

// install runs update once on a non-live backend, or inside an effect on a
// live one.
func install(rt *reactive.Runtime, b dom.Backend, update func()) {
	if !b.Live() {
		rt.Untrack(update)
		return
	}
	reactive.NewEffect(rt, func() reactive.Cleanup {
		update()
		return nil
	})
}
