package dom

import "sort"

// Attrs is a set of element attributes for El. They are applied in name
// order so output is deterministic.
type Attrs map[string]string

// El creates an element with attributes and children through b.
func El(b Backend, tag string, attrs Attrs, children ...*Node) *Node {
	n := b.CreateElement(tag)

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.SetAttr(n, name, attrs[name])
	}

	for _, c := range children {
		if c != nil {
			b.AppendChild(n, c)
		}
	}
	return n
}

// Text creates a text node through b.
func Text(b Backend, text string) *Node {
	return b.CreateText(text)
}

// Frag creates a fragment holding nodes.
func Frag(b Backend, nodes ...*Node) *Node {
	f := b.CreateFragment()
	for _, n := range nodes {
		if n != nil {
			b.AppendChild(f, n)
		}
	}
	return f
}
