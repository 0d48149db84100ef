package hydrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/anchor/pkg/hydrate"

// Outcome is how a Hydrate call attached the client tree.
type Outcome string

const (
	// OutcomeFresh means the container was empty and was rendered from
	// scratch.
	OutcomeFresh Outcome = "fresh"
	// OutcomeMatched means the trees matched and the client nodes were
	// already in place. Server nodes kept their identity.
	OutcomeMatched Outcome = "matched"
	// OutcomeSpliced means the trees matched but the client nodes had to be
	// spliced in.
	OutcomeSpliced Outcome = "spliced"
	// OutcomeFallback means the server content was discarded.
	OutcomeFallback Outcome = "fallback"
)

// Factory builds the application tree for one session.
type Factory func(rt *reactive.Runtime, b dom.Backend) *dom.Node

// Result describes a finished Hydrate call.
type Result struct {
	// Runtime is the live session runtime the factory ran in.
	Runtime *reactive.Runtime

	// Backend is the live backend now driving the container.
	Backend *dom.Live

	Outcome Outcome

	// Diagnostic is the mismatch or failure behind a fallback, or nil.
	Diagnostic error
}

type options struct {
	logger     *slog.Logger
	host       dom.Host
	payload    *Payload
	tracer     trace.Tracer
	runtimeOps []reactive.Option
}

// Option configures Hydrate.
type Option func(*options)

// WithLogger sets the logger for diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHost forwards the live backend's mutations to host.
func WithHost(host dom.Host) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithPayload restores keyed signals from p before the factory runs.
func WithPayload(p *Payload) Option {
	return func(o *options) {
		o.payload = p
	}
}

// WithTracer sets the tracer. Defaults to the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithRuntimeOptions passes options to the session runtime.
func WithRuntimeOptions(opts ...reactive.Option) Option {
	return func(o *options) {
		o.runtimeOps = append(o.runtimeOps, opts...)
	}
}

// Hydrate attaches the tree built by factory to container.
//
// An empty container (nothing but whitespace and markers) is simply rendered
// into. Otherwise keyed signals are restored from the payload, the factory
// runs on a live backend claiming server elements and text, and the server
// tree is compared with the client tree. A match keeps the server nodes; any
// mismatch or panic discards the server content and mounts the client tree
// instead.
// Hydrate never fails: problems are logged and reported in the Result.
func Hydrate(ctx context.Context, container *dom.Node, factory Factory, opts ...Option) *Result {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	_, span := o.tracer.Start(ctx, "anchor.hydrate")
	defer span.End()

	res := hydrate(container, factory, &o)

	span.SetAttributes(attribute.String("anchor.hydrate.outcome", string(res.Outcome)))
	if res.Diagnostic != nil {
		span.RecordError(res.Diagnostic)
		var ae *aerrors.AnchorError
		if errors.As(res.Diagnostic, &ae) {
			span.SetAttributes(attribute.String("anchor.hydrate.code", ae.Code))
			// Only factory failures mark the span as failed.
			if ae.Code == "E045" {
				span.SetStatus(codes.Error, ae.Error())
			}
		}
	}
	res.Runtime.Observer().Hydrated(string(res.Outcome))
	return res
}

func hydrate(container *dom.Node, factory Factory, o *options) *Result {
	if len(significant(container.Children())) == 0 {
		return renderFresh(container, factory, o)
	}

	rtOpts := append([]reactive.Option{reactive.WithLogger(o.logger)}, o.runtimeOps...)
	if p := o.payload; p != nil {
		if p.Version != PayloadVersion {
			warn := aerrors.New("E044").WithDetailf("unsupported version %d, payload ignored", p.Version)
			o.logger.Warn(warn.Message, warn.LogAttrs()...)
		} else {
			rtOpts = append(rtOpts, reactive.WithRestore(p.State.Signals))
		}
	}

	snapshot := container.Clone()
	rt := reactive.NewRuntime(rtOpts...)
	b := dom.NewLive(o.host)
	res := &Result{Runtime: rt, Backend: b}

	b.BeginHydration(container)
	root, err := build(rt, b, factory)
	b.EndHydration()
	if err != nil {
		return fallbackAfterPanic(container, factory, o, res, err)
	}

	clientRoots := dom.Flatten(root)
	if err := compareRoots(snapshot.Children(), clientRoots); err != nil {
		o.logger.Warn("hydration mismatch, rendering client tree", logAttrs(err)...)
		dom.Replace(b, container, root)
		res.Outcome = OutcomeFallback
		res.Diagnostic = err
		return res
	}

	if inPlace(container, clientRoots) {
		res.Outcome = OutcomeMatched
		return res
	}
	dom.Replace(b, container, root)
	res.Outcome = OutcomeSpliced
	return res
}

// renderFresh renders into an empty container.
func renderFresh(container *dom.Node, factory Factory, o *options) *Result {
	rt := reactive.NewRuntime(append([]reactive.Option{reactive.WithLogger(o.logger)}, o.runtimeOps...)...)
	b := dom.NewLive(o.host)
	res := &Result{Runtime: rt, Backend: b, Outcome: OutcomeFresh}

	root, err := build(rt, b, factory)
	if err != nil {
		ae := aerrors.New("E045").Wrap(err)
		o.logger.Error(ae.Message, ae.LogAttrs()...)
		res.Diagnostic = ae
		return res
	}
	dom.Replace(b, container, root)
	return res
}

// fallbackAfterPanic discards the session that panicked and renders the
// client tree again without claiming server elements.
func fallbackAfterPanic(container *dom.Node, factory Factory, o *options, failed *Result, cause error) *Result {
	ae := aerrors.New("E045").Wrap(cause)
	o.logger.Error(ae.Message, ae.LogAttrs()...)
	_ = failed.Runtime.Dispose()

	res := renderFresh(container, factory, o)
	res.Outcome = OutcomeFallback
	if res.Diagnostic == nil {
		res.Diagnostic = ae
	}
	return res
}

// build runs the factory, turning a panic into an error.
func build(rt *reactive.Runtime, b dom.Backend, factory Factory) (root *dom.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			root = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("factory panicked: %w", e)
				return
			}
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()
	root = factory(rt, b)
	if root == nil {
		root = b.CreateFragment()
	}
	return root, nil
}

// inPlace reports whether the significant children of container are exactly
// roots, in order.
func inPlace(container *dom.Node, roots []*dom.Node) bool {
	current := significant(container.Children())
	want := significant(roots)
	if len(current) != len(want) {
		return false
	}
	for i := range current {
		if current[i] != want[i] {
			return false
		}
	}
	return true
}

func logAttrs(err error) []any {
	var ae *aerrors.AnchorError
	if errors.As(err, &ae) {
		return ae.LogAttrs()
	}
	return []any{"error", err.Error()}
}
