package flow

import (
	"testing"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

func TestShowRebuildsOnEveryToggle(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	b := dom.NewLive(nil)

	when := reactive.NewSignal(rt, true)
	container := mount(b, Show(rt, b, ShowProps[bool]{
		When:     reactive.FromSignal(when),
		Children: func(bool) *dom.Node { return dom.El(b, "p", nil, dom.Text(b, "on")) },
		Fallback: func() *dom.Node { return dom.El(b, "p", nil, dom.Text(b, "off")) },
	}))

	first := elements(container)[0]
	when.Set(false)
	off := elements(container)[0]
	when.Set(true)
	second := elements(container)[0]

	if off == first || second == first || second == off {
		t.Error("each toggle should render fresh nodes")
	}
	if got := content(container); len(got) != 1 || got[0] != "on" {
		t.Errorf("content = %v, want [on]", got)
	}
}

func TestShowPassesConditionValue(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	b := dom.NewLive(nil)

	user := reactive.NewSignal(rt, "")
	container := mount(b, Show(rt, b, ShowProps[string]{
		When:     reactive.FromSignal(user),
		Children: func(name string) *dom.Node { return dom.Text(b, "hi "+name) },
	}))

	if got := content(container); len(got) != 0 {
		t.Errorf("empty string should render nothing, got %v", got)
	}
	user.Set("ada")
	if got := content(container); len(got) != 1 || got[0] != "hi ada" {
		t.Errorf("content = %v", got)
	}
}

func TestShowCustomTruthy(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	b := dom.NewMemory()

	container := mount(b, Show(rt, b, ShowProps[int]{
		When:     reactive.Static(0),
		Truthy:   func(int) bool { return true },
		Children: func(v int) *dom.Node { return dom.Text(b, "zero is fine") },
	}))

	if got := content(container); len(got) != 1 {
		t.Errorf("content = %v", got)
	}
}

func TestShowDisposesBranchEffects(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	b := dom.NewLive(nil)

	when := reactive.NewSignal(rt, true)
	tick := reactive.NewSignal(rt, 0)
	runs := 0
	mount(b, Show(rt, b, ShowProps[bool]{
		When: reactive.FromSignal(when),
		Children: func(bool) *dom.Node {
			reactive.NewEffect(rt, func() reactive.Cleanup {
				_ = tick.Get()
				runs++
				return nil
			})
			return dom.Text(b, "x")
		},
	}))

	when.Set(false)
	tick.Set(1)
	if runs != 1 {
		t.Errorf("branch effect ran %d times after the branch was removed", runs)
	}
}
