package render

import (
	"io"
	"log/slog"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/hydrate"
)

// LiveMetaName is the meta tag announcing the live WebSocket path.
const LiveMetaName = "anchor-live"

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// LivePath, when set, is announced in a meta tag.
	LivePath string

	// ClientScript is the path of a script that attaches to the page.
	// Omitted when empty.
	ClientScript string

	// Logger receives render diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer renders applications and pages.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Lang == "" {
		config.Lang = "en"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{config: config}
}

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// Body is the application container, usually Result.Container.
	Body *dom.Node

	// Payload is embedded after the container when set.
	Payload *hydrate.Payload
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	b := dom.NewMemory()

	html := b.CreateElement("html")
	b.SetAttr(html, "lang", r.config.Lang)
	b.AppendChild(html, r.head(b, page))

	body := b.CreateElement("body")
	if page.Body != nil {
		b.AppendChild(body, page.Body)
	}
	if page.Payload != nil {
		script, err := hydrate.ScriptNode(b, page.Payload)
		if err != nil {
			return err
		}
		b.AppendChild(body, script)
	}
	if r.config.ClientScript != "" {
		script := b.CreateElement("script")
		b.SetAttr(script, "src", r.config.ClientScript)
		b.SetAttr(script, "defer", "")
		b.AppendChild(body, script)
	}
	b.AppendChild(html, body)

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if err := dom.Render(w, html); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")

	// The container belongs to the caller.
	if page.Body != nil {
		b.RemoveChild(body, page.Body)
	}
	return err
}

// head builds the document head section.
func (r *Renderer) head(b dom.Backend, page PageData) *dom.Node {
	head := b.CreateElement("head")

	meta := func(attrs ...string) {
		m := b.CreateElement("meta")
		for i := 0; i+1 < len(attrs); i += 2 {
			b.SetAttr(m, attrs[i], attrs[i+1])
		}
		b.AppendChild(head, m)
	}

	meta("charset", "utf-8")
	meta("name", "viewport", "content", "width=device-width, initial-scale=1")
	if r.config.LivePath != "" {
		meta("name", LiveMetaName, "content", r.config.LivePath)
	}
	for _, m := range page.Meta {
		switch {
		case m.Property != "":
			meta("property", m.Property, "content", m.Content)
		case m.Name != "":
			meta("name", m.Name, "content", m.Content)
		}
	}

	if page.Title != "" {
		b.AppendChild(head, dom.El(b, "title", nil, dom.Text(b, page.Title)))
	}
	for _, href := range page.StyleSheets {
		b.AppendChild(head, dom.El(b, "link", dom.Attrs{"rel": "stylesheet", "href": href}))
	}
	for _, style := range page.Styles {
		b.AppendChild(head, dom.El(b, "style", nil, dom.Text(b, style)))
	}
	return head
}
