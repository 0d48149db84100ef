package dom

import "strconv"

// Memory is the non-live backend. It builds plain in-memory trees, which is
// what server rendering and tests need.
type Memory struct {
	hydrationKeys bool
	nextKey       int
}

// MemoryOption configures a Memory backend.
type MemoryOption func(*Memory)

// WithHydrationKeys stamps every created element with a data-hk attribute
// holding its creation order, starting at 1. A Live backend hydrating the
// same tree uses the keys to claim server elements.
func WithHydrationKeys() MemoryOption {
	return func(m *Memory) {
		m.hydrationKeys = true
	}
}

// NewMemory creates a Memory backend.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Live() bool { return false }

func (m *Memory) CreateFragment() *Node { return NewFragment() }

func (m *Memory) CreateComment(data string) *Node { return NewComment(data) }

func (m *Memory) CreateText(text string) *Node { return NewText(text) }

func (m *Memory) CreateElement(tag string) *Node {
	n := NewElement(tag)
	if m.hydrationKeys {
		m.nextKey++
		n.setAttr(HydrationKeyAttr, strconv.Itoa(m.nextKey))
	}
	return n
}

func (m *Memory) SetAttr(n *Node, name, value string) { n.setAttr(name, value) }

func (m *Memory) SetText(n *Node, text string) { n.data = text }

func (m *Memory) AppendChild(parent, child *Node) { parent.insertBefore(child, nil) }

func (m *Memory) InsertBefore(parent, child, ref *Node) { parent.insertBefore(child, ref) }

func (m *Memory) RemoveChild(parent, child *Node) { parent.removeChild(child) }

func (m *Memory) IndexOf(parent, child *Node) int { return parent.indexOf(child) }

var _ Backend = (*Memory)(nil)
