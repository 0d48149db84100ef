package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	rt, _ := newTestRuntime(t)

	ran := false
	e := NewEffect(rt, func() Cleanup {
		ran = true
		return nil
	})

	if !ran {
		t.Error("effect should run immediately on creation")
	}
	if e.State() != EffectIdle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
}

func TestEffectTracksDependencies(t *testing.T) {
	rt, _ := newTestRuntime(t)

	count := NewSignal(rt, 0)
	runs := 0
	NewEffect(rt, func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	count.Set(1)
	count.Set(2)
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 0)
	var events []string
	NewEffect(rt, func() Cleanup {
		v := s.Get()
		events = append(events, "run")
		return func() {
			events = append(events, "cleanup")
			_ = v
		}
	})

	s.Set(1)
	want := []string{"run", "cleanup", "run"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 0)
	runs := 0
	cleaned := false
	e := NewEffect(rt, func() Cleanup {
		_ = s.Get()
		runs++
		return func() { cleaned = true }
	})

	e.Dispose()
	if !cleaned {
		t.Error("dispose should run the last cleanup")
	}
	if e.State() != EffectDisposed {
		t.Errorf("State() = %v, want Disposed", e.State())
	}

	s.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect re-ran: %d runs", runs)
	}
	if s.Subscribers() != 0 {
		t.Errorf("signal still has %d subscribers", s.Subscribers())
	}
}

func TestEffectSelfWriteStopsAtCap(t *testing.T) {
	obs := &countingObserver{}
	rt, buf := newTestRuntime(t, WithObserver(obs))

	s := NewSignal(rt, 0)
	runs := 0
	e := NewEffect(rt, func() Cleanup {
		runs++
		s.Set(s.Get() + 1)
		return nil
	})

	if runs != DefaultMaxEffectIterations {
		t.Errorf("runs = %d, want %d", runs, DefaultMaxEffectIterations)
	}
	if obs.overruns != 1 {
		t.Errorf("observer saw %d overruns, want 1", obs.overruns)
	}
	if e.Pending() {
		t.Error("pending flag should be cleared after the cap")
	}
	if e.State() != EffectIdle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
	assertLogged(t, buf, "E002")
}

func TestEffectCapIsConfigurable(t *testing.T) {
	rt, _ := newTestRuntime(t, WithMaxEffectIterations(5))

	s := NewSignal(rt, 0)
	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		s.Set(s.Get() + 1)
		return nil
	})

	if runs != 5 {
		t.Errorf("runs = %d, want 5", runs)
	}
}

func TestEffectConvergingSelfWrite(t *testing.T) {
	rt, buf := newTestRuntime(t)

	s := NewSignal(rt, 0)
	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		if v := s.Get(); v < 3 {
			s.Set(v + 1)
		}
		return nil
	})

	if runs != 4 {
		t.Errorf("runs = %d, want 4", runs)
	}
	if s.Peek() != 3 {
		t.Errorf("s = %d, want 3", s.Peek())
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}

func TestEffectDisposedDuringRun(t *testing.T) {
	rt, _ := newTestRuntime(t)

	s := NewSignal(rt, 0)
	var e *Effect
	cleaned := 0
	e = NewEffect(rt, func() Cleanup {
		if s.Get() > 0 {
			e.Dispose()
		}
		return func() { cleaned++ }
	})

	s.Set(1)
	if e.State() != EffectDisposed {
		t.Fatalf("State() = %v, want Disposed", e.State())
	}
	if cleaned != 2 {
		t.Errorf("cleanups ran %d times, want 2", cleaned)
	}
	if s.Subscribers() != 0 {
		t.Errorf("signal still has %d subscribers", s.Subscribers())
	}
}

func TestEffectStateString(t *testing.T) {
	tests := []struct {
		state EffectState
		want  string
	}{
		{EffectIdle, "Idle"},
		{EffectRunning, "Running"},
		{EffectDisposed, "Disposed"},
		{EffectState(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestEffectSurvivesPanickingCleanup(t *testing.T) {
	rt, buf := newTestRuntime(t)

	s := NewSignal(rt, 0)
	runs := 0
	e := NewEffect(rt, func() Cleanup {
		_ = s.Get()
		runs++
		if runs == 1 {
			return func() { panic("cleanup failed") }
		}
		return nil
	})

	s.Set(1)
	s.Set(2)
	s.Set(3)
	if runs != 4 {
		t.Errorf("runs after 3 writes = %d, want 4", runs)
	}
	if e.State() != EffectIdle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
	assertLogged(t, buf, "E004")
}

func TestEffectDisposesNestedEffectsBeforeRerun(t *testing.T) {
	rt, _ := newTestRuntime(t)

	outer := NewSignal(rt, 0)
	inner := NewSignal(rt, 0)
	innerRuns := 0
	var cleaned []int
	NewEffect(rt, func() Cleanup {
		v := outer.Get()
		NewEffect(rt, func() Cleanup {
			_ = inner.Get()
			innerRuns++
			return nil
		})
		rt.Owner().OnCleanup(func() { cleaned = append(cleaned, v) })
		return nil
	})

	outer.Set(1)
	outer.Set(2)
	if inner.Subscribers() != 1 {
		t.Fatalf("inner has %d subscribers, want 1", inner.Subscribers())
	}

	innerRuns = 0
	inner.Set(1)
	if innerRuns != 1 {
		t.Errorf("inner write ran %d nested effects, want 1", innerRuns)
	}
	if len(cleaned) != 2 || cleaned[0] != 0 || cleaned[1] != 1 {
		t.Errorf("scope cleanups = %v, want [0 1]", cleaned)
	}
}

func TestEffectDisposeReleasesNestedEffects(t *testing.T) {
	rt, _ := newTestRuntime(t)

	inner := NewSignal(rt, 0)
	e := NewEffect(rt, func() Cleanup {
		NewComputed(rt, func() int { return inner.Get() * 2 })
		NewEffect(rt, func() Cleanup {
			_ = inner.Get()
			return nil
		})
		return nil
	})

	if inner.Subscribers() != 2 {
		t.Fatalf("Subscribers() = %d, want 2", inner.Subscribers())
	}
	e.Dispose()
	if inner.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after dispose, want 0", inner.Subscribers())
	}
}
