package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// booleanAttrs are written as a bare name when their value is empty.
var booleanAttrs = map[string]bool{
	"async":     true,
	"autofocus": true,
	"checked":   true,
	"defer":     true,
	"disabled":  true,
	"hidden":    true,
	"multiple":  true,
	"open":      true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
}

// RenderString serializes n to HTML.
func RenderString(n *Node) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = Render(&buf, n)
	return buf.String()
}

// Render writes n as HTML to w. Fragments render their children.
func Render(w io.Writer, n *Node) error {
	return renderNode(w, n, false)
}

func renderNode(w io.Writer, n *Node, raw bool) error {
	if n == nil {
		return nil
	}

	switch n.kind {
	case KindElement:
		return renderElement(w, n)
	case KindText:
		text := n.data
		if !raw {
			text = escapeHTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(n.data))
		return err
	case KindFragment:
		for _, child := range n.children {
			if err := renderNode(w, child, raw); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("dom: unknown node kind: %d", n.kind)
	}
}

func renderElement(w io.Writer, n *Node) error {
	if _, err := io.WriteString(w, "<"+n.tag); err != nil {
		return err
	}
	for _, a := range n.attrs {
		if a.Value == "" && booleanAttrs[a.Name] {
			if _, err := io.WriteString(w, " "+a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if voidElements[n.tag] {
		return nil
	}

	raw := rawTextElements[n.tag]
	for _, child := range n.children {
		if err := renderNode(w, child, raw); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", n.tag)
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes an attribute value. Line breaks and tabs are encoded as
// well so the value survives attribute normalization.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeComment keeps comment data from terminating the comment early.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
