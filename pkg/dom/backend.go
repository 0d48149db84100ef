package dom

// Backend creates nodes and mutates trees. Both implementations give
// identical ordering and insert-relative-to-reference semantics, so code above
// this package never needs to know which one it is talking to.
type Backend interface {
	// Live reports whether the tree is attached to a live host. Reconciling
	// code installs reactive updates only on live backends.
	Live() bool

	CreateFragment() *Node
	CreateComment(data string) *Node
	CreateText(text string) *Node
	CreateElement(tag string) *Node

	SetAttr(n *Node, name, value string)
	SetText(n *Node, text string)

	// AppendChild appends child to parent. See InsertBefore.
	AppendChild(parent, child *Node)

	// InsertBefore inserts child into parent immediately before ref, or at the
	// end when ref is nil. An attached child is moved. A fragment child
	// contributes its children in order and is left empty.
	InsertBefore(parent, child, ref *Node)

	// RemoveChild detaches child from parent. It is a no-op when child is not
	// a child of parent.
	RemoveChild(parent, child *Node)

	// IndexOf returns the position of child in parent, or -1.
	IndexOf(parent, child *Node) int
}

// Clear removes every child of n through b.
func Clear(b Backend, n *Node) {
	for n.ChildCount() > 0 {
		b.RemoveChild(n, n.LastChild())
	}
}

// Replace replaces the children of n with nodes.
func Replace(b Backend, n *Node, nodes ...*Node) {
	Clear(b, n)
	for _, c := range nodes {
		b.AppendChild(n, c)
	}
}
