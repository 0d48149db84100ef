package reactive

import "errors"

// ErrComputedWrite is returned when code writes to a Computed.
var ErrComputedWrite = errors.New("reactive: computed values are read-only")

// ErrEffectConvergence is logged when an effect exceeds the iteration cap
// within one cascade. It is never returned to the writer.
var ErrEffectConvergence = errors.New("reactive: effect did not converge")

// ErrSubscriberPanic is logged when a subscriber panics during notification.
var ErrSubscriberPanic = errors.New("reactive: subscriber panicked")

// ErrKeyType is the panic value cause when a signal key is registered twice
// with different value types.
var ErrKeyType = errors.New("reactive: signal key registered with a different type")

// ErrUnknownKey is returned when a registry operation names a key that has no
// registered signal.
var ErrUnknownKey = errors.New("reactive: unknown signal key")
