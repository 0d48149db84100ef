package reactive

// Kind identifies what a Value wraps.
type Kind uint8

const (
	KindStatic   Kind = iota // plain value, never changes
	KindSignal               // *Signal[T]
	KindComputed             // *Computed[T]
	KindFunc                 // func() T, tracked when called
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "Static"
	case KindSignal:
		return "Signal"
	case KindComputed:
		return "Computed"
	case KindFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Value is a plain value, a signal, a computed or an accessor function.
// Reconciliation primitives accept a Value so callers can pass any of them
// without the primitive inspecting shapes at runtime.
type Value[T any] struct {
	kind     Kind
	static   T
	signal   *Signal[T]
	computed *Computed[T]
	fn       func() T
}

// Static wraps a plain value.
func Static[T any](v T) Value[T] {
	return Value[T]{kind: KindStatic, static: v}
}

// FromSignal wraps a signal.
func FromSignal[T any](s *Signal[T]) Value[T] {
	return Value[T]{kind: KindSignal, signal: s}
}

// FromComputed wraps a computed.
func FromComputed[T any](c *Computed[T]) Value[T] {
	return Value[T]{kind: KindComputed, computed: c}
}

// FromFunc wraps an accessor. Signals read by fn are tracked by the caller.
func FromFunc[T any](fn func() T) Value[T] {
	return Value[T]{kind: KindFunc, fn: fn}
}

// Kind returns the wrapped variant.
func (v Value[T]) Kind() Kind {
	return v.kind
}

// Reactive reports whether reading the value can register a dependency.
func (v Value[T]) Reactive() bool {
	return v.kind != KindStatic
}

// Get resolves the current value, tracking the read when inside a tracked
// evaluation.
func (v Value[T]) Get() T {
	switch v.kind {
	case KindSignal:
		return v.signal.Get()
	case KindComputed:
		return v.computed.Get()
	case KindFunc:
		return v.fn()
	default:
		return v.static
	}
}
