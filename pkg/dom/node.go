package dom

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Kind is the type of a Node.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindFragment
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// HydrationKeyAttr is the attribute carrying the creation-order key of an
// element rendered by a Memory backend with hydration keys enabled.
const HydrationKeyAttr = "data-hk"

var nodeIDs uint64

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a node of a rendered tree. The zero value is not usable; nodes are
// created by a Backend or by the New* constructors.
type Node struct {
	id   uint64
	kind Kind
	tag  string
	data string

	attrs    []Attr
	parent   *Node
	children []*Node
}

func newNode(kind Kind) *Node {
	return &Node{id: atomic.AddUint64(&nodeIDs, 1), kind: kind}
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	n := newNode(KindElement)
	n.tag = strings.ToLower(tag)
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	n := newNode(KindText)
	n.data = text
	return n
}

// NewComment creates a detached comment.
func NewComment(data string) *Node {
	n := newNode(KindComment)
	n.data = data
	return n
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return newNode(KindFragment)
}

// MarkerStart returns the comment data opening a region called name.
func MarkerStart(name string) string { return "[" + name }

// MarkerEnd returns the comment data closing a region called name.
func MarkerEnd(name string) string { return "]" + name }

// ID returns the node's process-unique identifier.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the lower-case tag name of an element, or "".
func (n *Node) Tag() string { return n.tag }

// Data returns the content of a text or comment node.
func (n *Node) Data() string { return n.data }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.Child(len(n.children) - 1) }

// NextSibling returns the node after n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.parent.indexOf(n) + 1)
}

// PrevSibling returns the node before n in its parent, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes in insertion order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// IsMarker reports whether n is a region marker comment.
func (n *Node) IsMarker() bool {
	return n.kind == KindComment && (strings.HasPrefix(n.data, "[") || strings.HasPrefix(n.data, "]"))
}

// IsWhitespace reports whether n is a text node holding only whitespace.
func (n *Node) IsWhitespace() bool {
	return n.kind == KindText && strings.TrimSpace(n.data) == ""
}

// Significant reports whether n carries content, that is, it is neither a
// region marker nor whitespace-only text.
func (n *Node) Significant() bool {
	return !n.IsMarker() && !n.IsWhitespace()
}

// Clone returns a detached deep copy of n with fresh IDs.
func (n *Node) Clone() *Node {
	c := newNode(n.kind)
	c.tag = n.tag
	c.data = n.data
	c.attrs = n.Attrs()
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// String returns a short description for diagnostics.
func (n *Node) String() string {
	switch n.kind {
	case KindElement:
		return fmt.Sprintf("<%s>#%d", n.tag, n.id)
	case KindText:
		return fmt.Sprintf("%q#%d", n.data, n.id)
	case KindComment:
		return fmt.Sprintf("<!--%s-->#%d", n.data, n.id)
	default:
		return fmt.Sprintf("fragment#%d", n.id)
	}
}

// Flatten expands fragments into their children.
func Flatten(nodes ...*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.kind == KindFragment {
			out = append(out, Flatten(n.children...)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) setAttr(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// detach removes n from its parent, if any.
func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// insertBefore inserts child into n before ref and returns the nodes that
// were actually inserted (the children of a fragment, or child itself).
// A nil ref appends.
func (n *Node) insertBefore(child, ref *Node) []*Node {
	if ref != nil && ref.parent != n {
		panic(fmt.Sprintf("dom: reference %s is not a child of %s", ref, n))
	}
	if child == ref {
		return nil
	}

	var moved []*Node
	if child.kind == KindFragment {
		moved = child.Children()
	} else {
		moved = []*Node{child}
	}

	for _, m := range moved {
		if m == ref {
			continue
		}
		m.detach()
		at := len(n.children)
		if ref != nil {
			at = n.indexOf(ref)
		}
		n.children = append(n.children, nil)
		copy(n.children[at+1:], n.children[at:])
		n.children[at] = m
		m.parent = n
	}
	return moved
}

func (n *Node) removeChild(child *Node) bool {
	if child.parent != n {
		return false
	}
	child.detach()
	return true
}
