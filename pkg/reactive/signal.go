package reactive

import (
	"encoding/json"
	"fmt"
	"sync"

	aerrors "github.com/vango-dev/anchor/internal/errors"
)

// signalBase provides type-erased subscriber management.
// It is embedded in Signal[T] and shared with Computed[T] through its backing
// signal.
type signalBase struct {
	id uint64
	rt *Runtime

	// subs are the listeners subscribed to this signal, in subscription order.
	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds a listener to this signal's subscribers.
// Deduplicates by listener ID to prevent double-subscription.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener, keeping the order of the others.
func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// subscriberCount returns the number of current subscribers.
func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// notifySubscribers notifies every subscriber in subscription order.
// The list is copied first so subscribers may (un)subscribe while being
// notified.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		s.rt.deliver(s.id, sub)
	}
}

// deliver notifies one listener. A panic is logged and counted so that the
// remaining subscribers still run.
func (rt *Runtime) deliver(signalID uint64, l Listener) {
	defer func() {
		if r := recover(); r != nil {
			err := aerrors.New("E003").
				WithDetailf("listener %d of signal %d panicked: %v", l.ID(), signalID, r).
				Wrap(ErrSubscriberPanic)
			rt.logger.Error(err.Message, err.LogAttrs()...)
			rt.observer.SubscriberPanicked()
		}
	}()
	l.Notify()
}

// Cleanup is returned by effects and run before the next run and at disposal.
type Cleanup func()

// Cell is the common read/write surface of Signal and Computed.
type Cell[T any] interface {
	Get() T
	Peek() T
	Write(v T) error
}

// Signal is a mutable reactive cell.
// Reading a Signal with Get during a tracked evaluation (effect or computed)
// subscribes that evaluation; writing a different value notifies every
// subscriber before Set returns.
type Signal[T any] struct {
	base signalBase

	// value is the current signal value.
	value T
	mu    sync.RWMutex

	// key is the registry key, empty for anonymous signals.
	key string
}

// SignalOption configures a signal.
type SignalOption func(*signalOptions)

type signalOptions struct {
	key string
}

// WithKey registers the signal under key in the session registry. Keyed
// signals are captured into the hydration payload and restored from it.
// Registering the same key again returns the first signal.
func WithKey(key string) SignalOption {
	return func(o *signalOptions) {
		o.key = key
	}
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](rt *Runtime, initial T, opts ...SignalOption) *Signal[T] {
	var o signalOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.key == "" {
		return newSignal(rt, initial)
	}

	if existing, ok := rt.registry.lookup(o.key); ok {
		warn := aerrors.New("E006").WithDetailf("key %q", o.key)
		rt.logger.Warn(warn.Message, warn.LogAttrs()...)

		s, ok := existing.(*Signal[T])
		if !ok {
			panic(aerrors.New("E005").
				WithDetailf("key %q holds %T, requested *Signal[%T]", o.key, existing, initial).
				Wrap(ErrKeyType))
		}
		return s
	}

	s := newSignal(rt, initial)
	s.key = o.key
	if raw, ok := rt.registry.takeRestore(o.key); ok {
		if err := s.setJSON(raw); err != nil {
			rt.registry.logRestoreFailure(o.key, err)
		}
	}
	rt.registry.register(s)
	return s
}

func newSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		base: signalBase{
			id: nextID(),
			rt: rt,
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current tracked evaluation.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.rt.track(&s.base)
	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers, unless value is the same value
// as the current one (see SameValue), in which case nothing happens.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	if SameValue(s.value, value) {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.mu.Unlock()

	s.base.notifySubscribers()
}

// Update replaces the value with fn(current).
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Peek()))
}

// Write implements Cell. It never fails for a Signal.
func (s *Signal[T]) Write(value T) error {
	s.Set(value)
	return nil
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (s *Signal[T]) Subscribe(fn func()) (unsubscribe func()) {
	l := &funcListener{id: nextID(), fn: fn}
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Key returns the registry key, or "" for an anonymous signal.
func (s *Signal[T]) Key() string {
	return s.key
}

// Subscribers returns the current number of subscribers.
func (s *Signal[T]) Subscribers() int {
	return s.base.subscriberCount()
}

func (s *Signal[T]) anyValue() any {
	return s.Peek()
}

func (s *Signal[T]) setJSON(raw []byte) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode %q: %w", s.key, err)
	}
	s.Set(v)
	return nil
}

// funcListener adapts a plain callback to Listener.
type funcListener struct {
	id uint64
	fn func()
}

func (l *funcListener) ID() uint64 { return l.id }
func (l *funcListener) Notify()    { l.fn() }

var (
	_ Cell[int]   = (*Signal[int])(nil)
	_ keyedSignal = (*Signal[int])(nil)
)
