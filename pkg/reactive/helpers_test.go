package reactive

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestRuntime returns a runtime whose log output is captured in buf.
func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rt := NewRuntime(append([]Option{WithLogger(logger)}, opts...)...)
	t.Cleanup(func() { _ = rt.Dispose() })
	return rt, &buf
}

func assertLogged(t *testing.T, buf *bytes.Buffer, code string) {
	t.Helper()
	if !strings.Contains(buf.String(), "code="+code) {
		t.Fatalf("expected log entry with code %s, got:\n%s", code, buf.String())
	}
}

// countingObserver records diagnostics.
type countingObserver struct {
	NopObserver
	effectRuns  int
	overruns    int
	panics      int
	writeErrors int
}

func (o *countingObserver) EffectRun()                 { o.effectRuns++ }
func (o *countingObserver) EffectConvergenceExceeded() { o.overruns++ }
func (o *countingObserver) SubscriberPanicked()        { o.panics++ }
func (o *countingObserver) ComputedWriteRejected()     { o.writeErrors++ }
