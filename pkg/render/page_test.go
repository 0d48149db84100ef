package render

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/reactive"
)

func testRenderer(config RendererConfig) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	config.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	return NewRenderer(config), &buf
}

func counter(rt *reactive.Runtime, b dom.Backend) *dom.Node {
	count := reactive.NewSignal(rt, 1, reactive.WithKey("count"))
	label := dom.Text(b, "")
	reactive.NewEffect(rt, func() reactive.Cleanup {
		b.SetText(label, "count "+strconv.Itoa(count.Get()))
		return nil
	})
	return dom.El(b, "section", nil, dom.El(b, "p", nil, label))
}

func TestSSR(t *testing.T) {
	r, _ := testRenderer(RendererConfig{})

	res, err := r.SSR(counter)
	if err != nil {
		t.Fatalf("SSR() error: %v", err)
	}

	want := `<div id="app"><section data-hk="2"><p data-hk="1">count 1</p></section></div>`
	if got := dom.RenderString(res.Container); got != want {
		t.Errorf("container = %s\nwant %s", got, want)
	}
	if got := string(res.Payload.State.Signals["count"]); got != "1" {
		t.Errorf("payload count = %q, want 1", got)
	}
}

func TestSSRFactoryPanic(t *testing.T) {
	r, buf := testRenderer(RendererConfig{})

	_, err := r.SSR(func(*reactive.Runtime, dom.Backend) *dom.Node { panic("no data") })
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "code=E046") {
		t.Errorf("expected E046 in log, got %s", buf.String())
	}
}

func TestRenderPage(t *testing.T) {
	r, _ := testRenderer(RendererConfig{LivePath: "/live", ClientScript: "/client.js"})
	res, err := r.SSR(counter)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = r.RenderPage(&buf, PageData{
		Title:       "Test <Page>",
		Meta:        []MetaTag{{Property: "og:title", Content: "Test"}},
		StyleSheets: []string{"/app.css"},
		Body:        res.Container,
		Payload:     res.Payload,
	})
	if err != nil {
		t.Fatalf("RenderPage() error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		`<meta name="anchor-live" content="/live">`,
		`<meta property="og:title" content="Test">`,
		"<title>Test &lt;Page&gt;</title>",
		`<link href="/app.css" rel="stylesheet">`,
		`<div id="app"><section data-hk="2">`,
		`<script id="__anchor_state" type="application/json">`,
		`<script src="/client.js" defer></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page is missing %q:\n%s", want, html)
		}
	}
	if res.Container.Parent() != nil {
		t.Error("RenderPage kept the container attached to its document")
	}
}

func TestRenderedPageHydrates(t *testing.T) {
	r, _ := testRenderer(RendererConfig{})
	res, err := r.SSR(counter)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, PageData{Body: res.Container, Payload: res.Payload}); err != nil {
		t.Fatal(err)
	}

	doc, err := dom.Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	container := FindContainer(doc)
	if container == nil {
		t.Fatal("container not found in rendered page")
	}
	payload, err := hydrate.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	section := container.FirstChild()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	hr := hydrate.Hydrate(context.Background(), container, counter,
		hydrate.WithPayload(payload), hydrate.WithLogger(logger))

	if hr.Outcome != hydrate.OutcomeMatched {
		t.Fatalf("Outcome = %q (%v), want matched", hr.Outcome, hr.Diagnostic)
	}
	if container.FirstChild() != section {
		t.Error("server section was replaced")
	}
}

func TestFindContainerMissing(t *testing.T) {
	doc, err := dom.Parse("<p>no app</p>")
	if err != nil {
		t.Fatal(err)
	}
	if FindContainer(doc) != nil {
		t.Error("expected nil container")
	}
}
