package reactive

// ReconcileStats summarizes one reconciliation pass of a region.
type ReconcileStats struct {
	Created int
	Reused  int
	Removed int
	Moved   int
}

// Observer receives runtime diagnostics. Implementations must be cheap; they
// are called inline during propagation.
type Observer interface {
	EffectRun()
	EffectConvergenceExceeded()
	SubscriberPanicked()
	ComputedWriteRejected()
	Reconciled(primitive string, stats ReconcileStats)
	Hydrated(outcome string)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) EffectRun() {}
func (NopObserver) EffectConvergenceExceeded() {}
func (NopObserver) SubscriberPanicked() {}
func (NopObserver) ComputedWriteRejected() {}
func (NopObserver) Reconciled(string, ReconcileStats) {}
func (NopObserver) Hydrated(string) {}

var _ Observer = NopObserver{}
