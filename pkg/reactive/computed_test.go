package reactive

import (
	"errors"
	"testing"
)

func TestComputedRecomputesOncePerChange(t *testing.T) {
	rt, _ := newTestRuntime(t)

	a := NewSignal(rt, 1)
	b := NewSignal(rt, 2)
	unrelated := NewSignal(rt, 0)

	evals := 0
	sum := NewComputed(rt, func() int {
		evals++
		return a.Get() + b.Get()
	})

	if evals != 1 {
		t.Fatalf("expected eager evaluation, got %d evals", evals)
	}
	if sum.Get() != 3 {
		t.Fatalf("sum = %d, want 3", sum.Get())
	}

	a.Set(10)
	b.Set(20)
	if evals != 3 {
		t.Errorf("expected 3 evals after two changes, got %d", evals)
	}
	if sum.Get() != 30 {
		t.Errorf("sum = %d, want 30", sum.Get())
	}

	unrelated.Set(1)
	a.Set(10)
	if evals != 3 {
		t.Errorf("unrelated or same-value writes caused recomputation: %d evals", evals)
	}
}

func TestComputedWriteRejected(t *testing.T) {
	obs := &countingObserver{}
	rt, _ := newTestRuntime(t, WithObserver(obs))

	c := NewComputed(rt, func() int { return 1 })
	err := c.Write(2)

	if !errors.Is(err, ErrComputedWrite) {
		t.Fatalf("Write error = %v, want ErrComputedWrite", err)
	}
	if c.Peek() != 1 {
		t.Errorf("value changed after rejected write: %d", c.Peek())
	}
	if obs.writeErrors != 1 {
		t.Errorf("observer saw %d rejected writes", obs.writeErrors)
	}
}

func TestComputedNotifiesOnlyOnChange(t *testing.T) {
	rt, _ := newTestRuntime(t)

	n := NewSignal(rt, 1)
	parity := NewComputed(rt, func() bool { return n.Get()%2 == 0 })

	calls := 0
	parity.Subscribe(func() { calls++ })

	n.Set(3)
	if calls != 0 {
		t.Errorf("unchanged derived value notified %d times", calls)
	}
	n.Set(4)
	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}

func TestComputedDynamicDependencies(t *testing.T) {
	rt, _ := newTestRuntime(t)

	useA := NewSignal(rt, true)
	a := NewSignal(rt, "a")
	b := NewSignal(rt, "b")

	evals := 0
	pick := NewComputed(rt, func() string {
		evals++
		if useA.Get() {
			return a.Get()
		}
		return b.Get()
	})

	useA.Set(false)
	if pick.Get() != "b" {
		t.Fatalf("pick = %q, want b", pick.Get())
	}

	before := evals
	a.Set("A")
	if evals != before {
		t.Errorf("dropped dependency still triggers recomputation")
	}
	if a.Subscribers() != 0 {
		t.Errorf("a has %d subscribers, want 0", a.Subscribers())
	}
}

func TestComputedDispose(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 1)
	c := NewComputed(rt, func() int { return s.Get() * 2 })
	c.Dispose()

	s.Set(5)
	if c.Peek() != 2 {
		t.Errorf("disposed computed updated to %d", c.Peek())
	}
	if !c.Disposed() || s.Subscribers() != 0 {
		t.Error("dispose should unsubscribe from all dependencies")
	}
}

func TestNestedTrackingRestoresOuterFrame(t *testing.T) {
	rt, _ := newTestRuntime(t)

	outer := NewSignal(rt, 0)
	inner := NewSignal(rt, 0)

	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		// Creating a computed evaluates it in a nested frame.
		NewComputed(rt, func() int { return inner.Get() })
		_ = outer.Get()
		return nil
	})

	outer.Set(1)
	if runs != 2 {
		t.Fatalf("read after a nested evaluation was not tracked: %d runs", runs)
	}

	inner.Set(1)
	if runs != 2 {
		t.Errorf("inner read leaked into the outer effect: %d runs", runs)
	}
	if rt.Tracking() {
		t.Error("tracking frame left on the stack")
	}
}

func TestUntrack(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 0)
	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		_ = Untracked(rt, s.Get)
		return nil
	})

	s.Set(1)
	if runs != 1 {
		t.Errorf("untracked read re-ran the effect: %d runs", runs)
	}
}

func TestValueKinds(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 2)
	c := NewComputed(rt, func() int { return s.Get() + 1 })

	tests := []struct {
		name     string
		value    Value[int]
		kind     Kind
		want     int
		reactive bool
	}{
		{"static", Static(7), KindStatic, 7, false},
		{"signal", FromSignal(s), KindSignal, 2, true},
		{"computed", FromComputed(c), KindComputed, 3, true},
		{"func", FromFunc(func() int { return s.Get() * 10 }), KindFunc, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.value.Kind(), tt.kind)
			}
			if tt.value.Reactive() != tt.reactive {
				t.Errorf("Reactive() = %v, want %v", tt.value.Reactive(), tt.reactive)
			}
			if got := tt.value.Get(); got != tt.want {
				t.Errorf("Get() = %d, want %d", got, tt.want)
			}
		})
	}
}
