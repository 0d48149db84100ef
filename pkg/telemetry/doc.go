// Package telemetry exports runtime diagnostics as Prometheus metrics.
//
// Metrics implements reactive.Observer, so passing it to a runtime with
// reactive.WithObserver counts effect runs, convergence overruns, subscriber
// panics, rejected computed writes, reconciliation work and hydration
// outcomes. Live sessions report their lifecycle and mutation volume through
// the same value.
//
// Metrics collected (default namespace "anchor"):
//   - anchor_effect_runs_total
//   - anchor_effect_convergence_exceeded_total
//   - anchor_subscriber_panics_total
//   - anchor_computed_write_rejections_total
//   - anchor_reconcile_passes_total{primitive}
//   - anchor_reconcile_nodes_total{primitive,op}
//   - anchor_hydrations_total{outcome}
//   - anchor_live_sessions
//   - anchor_mutations_sent_total
package telemetry
