package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML fragment, as found inside <body>, into a detached
// fragment node. Comments are kept so region markers survive a round trip.
func Parse(markup string) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}

	frag := NewFragment()
	for _, hn := range nodes {
		if n := convert(hn); n != nil {
			frag.insertBefore(n, nil)
		}
	}
	return frag, nil
}

// ParseInto parses markup and appends the result to container.
func ParseInto(container *Node, markup string) error {
	frag, err := Parse(markup)
	if err != nil {
		return err
	}
	container.insertBefore(frag, nil)
	return nil
}

func convert(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = NewElement(hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.setAttr(name, a.Val)
		}
	case html.TextNode:
		return NewText(hn.Data)
	case html.CommentNode:
		return NewComment(hn.Data)
	default:
		return nil
	}

	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.insertBefore(child, nil)
		}
	}
	return n
}
