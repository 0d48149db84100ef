package dom

import (
	"strconv"
	"strings"
)

// Live is the live backend. It applies every operation to its node tree and
// forwards it to a Host.
//
// During hydration Live claims server-rendered nodes instead of creating new
// ones. Keyed elements are matched by data-hk: the n-th element created claims
// the server element whose key is n, provided the tags agree. Text, and the
// elements of unkeyed markup, are matched positionally against the server
// nodes in creation order, which is children before parents. A claimed
// element keeps its identity and position. Its unclaimed server children are
// removed, and claimed children the client appends in server order stay where
// they are without a mutation.
type Live struct {
	host Host

	hydrating bool
	keyed     bool
	claimable map[string]*Node
	claimed   map[*Node]bool
	nextKey   int

	// order lists the server elements and significant text in creation order.
	order    []*Node
	position map[*Node]int
	cursor   int

	adopted []adoption
	settled map[*Node]int
	placed  map[*Node]bool
}

// adoption is a claimed element and the claimed children it kept.
type adoption struct {
	parent *Node
	kept   []*Node
}

// NewLive creates a live backend forwarding to host. A nil host discards
// mutations.
func NewLive(host Host) *Live {
	if host == nil {
		host = HostFunc(func(Mutation) {})
	}
	return &Live{host: host}
}

func (l *Live) Live() bool { return true }

// BeginHydration indexes the server nodes below root and turns claiming on.
func (l *Live) BeginHydration(root *Node) {
	l.hydrating = true
	l.claimable = make(map[string]*Node)
	l.claimed = make(map[*Node]bool)
	l.nextKey = 0
	l.order = nil
	l.position = make(map[*Node]int)
	l.cursor = 0
	l.adopted = nil
	l.settled = make(map[*Node]int)
	l.placed = make(map[*Node]bool)

	var index func(n *Node)
	index = func(n *Node) {
		for _, c := range n.children {
			if c.kind == KindElement {
				index(c)
				if key, ok := c.Attr(HydrationKeyAttr); ok {
					l.claimable[key] = c
				}
			} else if c.kind != KindText || c.IsWhitespace() {
				continue
			}
			l.position[c] = len(l.order)
			l.order = append(l.order, c)
		}
	}
	index(root)
	l.keyed = len(l.claimable) > 0
}

// EndHydration removes claimed children the client never placed and turns
// claiming off.
func (l *Live) EndHydration() {
	for _, a := range l.adopted {
		for _, c := range a.kept {
			if !l.placed[c] && c.parent == a.parent {
				l.RemoveChild(a.parent, c)
			}
		}
	}
	l.hydrating = false
	l.claimable = nil
	l.order = nil
	l.position = nil
	l.adopted = nil
	l.settled = nil
	l.placed = nil
}

// Hydrating reports whether claiming is on.
func (l *Live) Hydrating() bool { return l.hydrating }

// Claimed reports whether n was claimed from the server tree.
func (l *Live) Claimed(n *Node) bool { return l.claimed[n] }

func (l *Live) CreateFragment() *Node {
	n := NewFragment()
	l.emitCreate(n)
	return n
}

func (l *Live) CreateComment(data string) *Node {
	n := NewComment(data)
	l.emitCreate(n)
	return n
}

func (l *Live) CreateText(text string) *Node {
	if l.hydrating {
		if n := l.claimText(text); n != nil {
			return n
		}
	}
	n := NewText(text)
	l.emitCreate(n)
	return n
}

func (l *Live) CreateElement(tag string) *Node {
	if l.hydrating {
		if n := l.claimElement(strings.ToLower(tag)); n != nil {
			return n
		}
	}
	n := NewElement(tag)
	l.emitCreate(n)
	return n
}

// claimElement returns the server element matching the next created element,
// or nil.
func (l *Live) claimElement(tag string) *Node {
	var n *Node
	if l.keyed {
		l.nextKey++
		key := strconv.Itoa(l.nextKey)
		c, ok := l.claimable[key]
		if !ok || c.tag != tag {
			return nil
		}
		delete(l.claimable, key)
		n = c
	} else {
		// Unclaimed text before the element is left for its parent to drop.
		for l.cursor < len(l.order) && l.order[l.cursor].kind == KindText {
			l.cursor++
		}
		if l.cursor >= len(l.order) {
			return nil
		}
		c := l.order[l.cursor]
		if c.tag != tag || l.claimed[c] {
			return nil
		}
		n = c
	}

	l.cursor = l.position[n] + 1
	l.claimed[n] = true
	key, _ := n.Attr(HydrationKeyAttr)
	l.host.Apply(Mutation{Op: OpClaim, ID: n.id, Kind: n.kind.String(), Tag: n.tag, Value: key})
	l.adopt(n)
	return n
}

// claimText returns the server text node at the cursor when it holds text,
// or nil.
func (l *Live) claimText(text string) *Node {
	if l.cursor >= len(l.order) || strings.TrimSpace(text) == "" {
		return nil
	}
	c := l.order[l.cursor]
	if c.kind != KindText || c.data != text || l.claimed[c] {
		return nil
	}
	l.cursor++
	l.claimed[c] = true
	l.host.Apply(Mutation{Op: OpClaim, ID: c.id, Kind: c.kind.String(), Value: c.data})
	return c
}

// adopt removes the unclaimed children of a claimed element and remembers
// the claimed ones, which the client is expected to append again in order.
func (l *Live) adopt(n *Node) {
	for i := len(n.children) - 1; i >= 0; i-- {
		if c := n.children[i]; !l.claimed[c] {
			l.RemoveChild(n, c)
		}
	}
	l.adopted = append(l.adopted, adoption{parent: n, kept: n.Children()})
	l.settled[n] = 0
}

// settle reports whether appending child to parent leaves it where the
// server put it. Any other insert into a claimed parent turns this off for
// that parent, so later claimed children are moved into client order.
func (l *Live) settle(parent, child, ref *Node) bool {
	i, ok := l.settled[parent]
	if !ok || i < 0 {
		return false
	}
	if ref == nil && child.parent == parent && parent.Child(i) == child {
		l.settled[parent] = i + 1
		l.placed[child] = true
		return true
	}
	l.settled[parent] = -1
	return false
}

func (l *Live) SetAttr(n *Node, name, value string) {
	if v, ok := n.Attr(name); ok && v == value {
		return
	}
	n.setAttr(name, value)
	l.host.Apply(Mutation{Op: OpSetAttr, ID: n.id, Name: name, Value: value})
}

func (l *Live) SetText(n *Node, text string) {
	if n.data == text {
		return
	}
	n.data = text
	l.host.Apply(Mutation{Op: OpSetText, ID: n.id, Value: text})
}

func (l *Live) AppendChild(parent, child *Node) {
	l.InsertBefore(parent, child, nil)
}

func (l *Live) InsertBefore(parent, child, ref *Node) {
	if l.hydrating && l.settle(parent, child, ref) {
		return
	}
	var before uint64
	if ref != nil {
		before = ref.id
	}
	for _, m := range parent.insertBefore(child, ref) {
		if l.hydrating {
			l.placed[m] = true
		}
		l.host.Apply(Mutation{Op: OpInsert, ID: m.id, Parent: parent.id, Before: before})
	}
}

func (l *Live) RemoveChild(parent, child *Node) {
	if parent.removeChild(child) {
		l.host.Apply(Mutation{Op: OpRemove, ID: child.id, Parent: parent.id})
	}
}

func (l *Live) IndexOf(parent, child *Node) int { return parent.indexOf(child) }

func (l *Live) emitCreate(n *Node) {
	l.host.Apply(Mutation{Op: OpCreate, ID: n.id, Kind: n.kind.String(), Tag: n.tag, Value: n.data})
}

var _ Backend = (*Live)(nil)
