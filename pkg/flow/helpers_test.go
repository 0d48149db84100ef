package flow

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

type statsObserver struct {
	reactive.NopObserver
	last  map[string]reactive.ReconcileStats
	total reactive.ReconcileStats
}

func (o *statsObserver) Reconciled(primitive string, s reactive.ReconcileStats) {
	if o.last == nil {
		o.last = make(map[string]reactive.ReconcileStats)
	}
	o.last[primitive] = s
	o.total.Created += s.Created
	o.total.Reused += s.Reused
	o.total.Removed += s.Removed
	o.total.Moved += s.Moved
}

func newTestRuntime(t *testing.T) (*reactive.Runtime, *statsObserver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	obs := &statsObserver{}
	rt := reactive.NewRuntime(
		reactive.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		reactive.WithObserver(obs),
	)
	t.Cleanup(func() { _ = rt.Dispose() })
	return rt, obs, &buf
}

// mount inserts a primitive's fragment into a fresh container.
func mount(b dom.Backend, frag *dom.Node) *dom.Node {
	container := b.CreateElement("div")
	b.AppendChild(container, frag)
	return container
}

// content returns the text of the significant nodes in container, reading
// element text through their first child.
func content(container *dom.Node) []string {
	var out []string
	for _, n := range container.Children() {
		if !n.Significant() {
			continue
		}
		if n.Kind() == dom.KindElement {
			if c := n.FirstChild(); c != nil {
				out = append(out, c.Data())
				continue
			}
			out = append(out, "<"+n.Tag()+">")
			continue
		}
		out = append(out, n.Data())
	}
	return out
}

// elements returns the element children of container.
func elements(container *dom.Node) []*dom.Node {
	var out []*dom.Node
	for _, n := range container.Children() {
		if n.Kind() == dom.KindElement {
			out = append(out, n)
		}
	}
	return out
}
