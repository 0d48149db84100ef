package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tags returns a compact description of n's children for comparisons.
func tags(n *Node) []string {
	var out []string
	for _, c := range n.Children() {
		switch c.Kind() {
		case KindElement:
			out = append(out, c.Tag())
		default:
			out = append(out, c.Data())
		}
	}
	return out
}

func TestInsertBefore(t *testing.T) {
	b := NewMemory()
	parent := b.CreateElement("ul")
	a := El(b, "a", nil)
	c := El(b, "c", nil)
	b.AppendChild(parent, a)
	b.AppendChild(parent, c)

	mid := El(b, "b", nil)
	b.InsertBefore(parent, mid, c)

	if diff := cmp.Diff([]string{"a", "b", "c"}, tags(parent)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if mid.Parent() != parent || mid.PrevSibling() != a || mid.NextSibling() != c {
		t.Error("sibling links are wrong")
	}
}

func TestInsertBeforeMovesAttachedChild(t *testing.T) {
	b := NewMemory()
	parent := El(b, "div", nil, El(b, "a", nil), El(b, "b", nil), El(b, "c", nil))
	last := parent.LastChild()

	b.InsertBefore(parent, last, parent.FirstChild())

	if diff := cmp.Diff([]string{"c", "a", "b"}, tags(parent)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if parent.ChildCount() != 3 {
		t.Errorf("ChildCount() = %d, want 3", parent.ChildCount())
	}
}

func TestInsertFragment(t *testing.T) {
	b := NewMemory()
	parent := El(b, "div", nil, El(b, "z", nil))
	frag := Frag(b, El(b, "x", nil), El(b, "y", nil))

	b.InsertBefore(parent, frag, parent.FirstChild())

	if diff := cmp.Diff([]string{"x", "y", "z"}, tags(parent)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if frag.ChildCount() != 0 {
		t.Errorf("fragment keeps %d children after insertion", frag.ChildCount())
	}
}

func TestRemoveChild(t *testing.T) {
	b := NewMemory()
	parent := El(b, "div", nil, El(b, "a", nil), El(b, "b", nil))
	first := parent.FirstChild()

	b.RemoveChild(parent, first)
	b.RemoveChild(parent, first) // not a child anymore

	if first.Parent() != nil {
		t.Error("removed node still has a parent")
	}
	if b.IndexOf(parent, first) != -1 {
		t.Error("IndexOf should be -1 for a removed node")
	}
	if diff := cmp.Diff([]string{"b"}, tags(parent)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBeforeForeignRefPanics(t *testing.T) {
	b := NewMemory()
	parent := b.CreateElement("div")
	stranger := b.CreateElement("span")

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a reference outside parent")
		}
	}()
	b.InsertBefore(parent, b.CreateText("x"), stranger)
}

func TestSignificance(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"element", NewElement("p"), true},
		{"text", NewText("hi"), true},
		{"whitespace", NewText(" \n\t"), false},
		{"start marker", NewComment(MarkerStart("for")), false},
		{"end marker", NewComment(MarkerEnd("for")), false},
		{"plain comment", NewComment("note"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Significant(); got != tt.want {
				t.Errorf("Significant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	b := NewMemory()
	orig := El(b, "div", Attrs{"class": "box"}, Text(b, "hi"))

	c := orig.Clone()
	if c == orig || c.ID() == orig.ID() || c.FirstChild() == orig.FirstChild() {
		t.Fatal("clone shares identity with the original")
	}
	if RenderString(c) != RenderString(orig) {
		t.Errorf("clone renders %q, original %q", RenderString(c), RenderString(orig))
	}
	if c.Parent() != nil {
		t.Error("clone should be detached")
	}
}

func TestFlatten(t *testing.T) {
	b := NewMemory()
	x, y, z := El(b, "x", nil), El(b, "y", nil), El(b, "z", nil)
	inner := Frag(b, y, z)
	outer := b.CreateFragment()
	outer.children = []*Node{x, inner}

	got := Flatten(outer, nil)
	if len(got) != 3 || got[0] != x || got[1] != y || got[2] != z {
		t.Errorf("Flatten() = %v", got)
	}
}

func TestMemoryHydrationKeys(t *testing.T) {
	b := NewMemory(WithHydrationKeys())
	span := b.CreateElement("span")
	div := b.CreateElement("div")
	b.CreateText("not keyed")

	if k, _ := span.Attr(HydrationKeyAttr); k != "1" {
		t.Errorf("span key = %q, want 1", k)
	}
	if k, _ := div.Attr(HydrationKeyAttr); k != "2" {
		t.Errorf("div key = %q, want 2", k)
	}
	if _, ok := NewMemory().CreateElement("p").Attr(HydrationKeyAttr); ok {
		t.Error("keys should be off by default")
	}
}
