package render

import (
	"fmt"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// ContainerID is the id of the element the application renders into.
const ContainerID = "app"

// Result is a finished server render.
type Result struct {
	// Container is the <div id="app"> holding the rendered tree.
	Container *dom.Node

	// Payload holds the keyed signal values of the render.
	Payload *hydrate.Payload
}

// SSR renders factory once in SSR mode. Effects run once and never
// re-run; the runtime is disposed before SSR returns.
func (r *Renderer) SSR(factory hydrate.Factory, opts ...reactive.Option) (res *Result, err error) {
	opts = append([]reactive.Option{reactive.WithLogger(r.config.Logger)}, opts...)
	rt := reactive.NewRuntime(opts...)
	rt.BeginSSR()
	defer func() {
		if derr := rt.Dispose(); derr != nil && err == nil {
			r.config.Logger.Warn("ssr runtime dispose failed", "error", derr)
		}
	}()

	b := dom.NewMemory(dom.WithHydrationKeys())
	root, err := r.build(rt, b, factory)
	if err != nil {
		return nil, err
	}

	container := dom.NewElement("div")
	b.SetAttr(container, "id", ContainerID)
	if root != nil {
		b.AppendChild(container, root)
	}

	payload, err := hydrate.Capture(rt)
	if err != nil {
		return nil, err
	}
	return &Result{Container: container, Payload: payload}, nil
}

func (r *Renderer) build(rt *reactive.Runtime, b dom.Backend, factory hydrate.Factory) (root *dom.Node, err error) {
	defer func() {
		if p := recover(); p != nil {
			ae := aerrors.New("E046").Wrap(fmt.Errorf("factory panicked: %v", p))
			r.config.Logger.Error(ae.Message, ae.LogAttrs()...)
			err = ae
		}
	}()
	return factory(rt, b), nil
}

// FindContainer returns the application container in a parsed document,
// or nil.
func FindContainer(root *dom.Node) *dom.Node {
	var found *dom.Node
	dom.Walk(root, func(n *dom.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := n.Attr("id"); ok && id == ContainerID && n.Kind() == dom.KindElement {
			found = n
			return false
		}
		return true
	})
	return found
}
