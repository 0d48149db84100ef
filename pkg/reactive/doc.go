// Package reactive implements the signal graph: signals, computed values and
// effects, plus the per-session Runtime they share.
//
// Every primitive belongs to a Runtime. The Runtime carries the tracking
// stack, the keyed-signal registry, the current Owner and the logger, so two
// render sessions in one process never share reactive state.
//
//	rt := reactive.NewRuntime()
//	count := reactive.NewSignal(rt, 0)
//	double := reactive.NewComputed(rt, func() int { return count.Get() * 2 })
//
//	eff := reactive.NewEffect(rt, func() reactive.Cleanup {
//	    fmt.Println("double is", double.Get())
//	    return nil
//	})
//	defer eff.Dispose()
//
//	count.Set(2) // prints "double is 4" before Set returns
//
// Propagation is synchronous and push-based. A write notifies subscribers in
// subscription order before returning. An effect that keeps re-triggering
// itself is stopped after MaxEffectIterations runs in one cascade and the
// overrun is logged, never returned.
//
// A Runtime is not safe for concurrent use. Drive it from one goroutine at a
// time.
package reactive
