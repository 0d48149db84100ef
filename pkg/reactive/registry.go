package reactive

import (
	"encoding/json"

	aerrors "github.com/vango-dev/anchor/internal/errors"
)

// keyedSignal is the type-erased view of a signal registered under a key.
type keyedSignal interface {
	Key() string
	anyValue() any
	setJSON(raw []byte) error
}

// Registry holds the keyed signals of one session together with values
// waiting to be restored into them.
type Registry struct {
	rt      *Runtime
	signals map[string]keyedSignal
	order   []string
	restore map[string]json.RawMessage
}

func newRegistry(rt *Runtime) *Registry {
	return &Registry{
		rt:      rt,
		signals: make(map[string]keyedSignal),
		restore: make(map[string]json.RawMessage),
	}
}

func (r *Registry) lookup(key string) (keyedSignal, bool) {
	s, ok := r.signals[key]
	return s, ok
}

func (r *Registry) register(s keyedSignal) {
	r.signals[s.Key()] = s
	r.order = append(r.order, s.Key())
}

func (r *Registry) takeRestore(key string) (json.RawMessage, bool) {
	raw, ok := r.restore[key]
	if ok {
		delete(r.restore, key)
	}
	return raw, ok
}

func (r *Registry) logRestoreFailure(key string, err error) {
	ae := aerrors.New("E007").WithDetailf("key %q", key).Wrap(err)
	r.rt.logger.Warn(ae.Message, ae.LogAttrs()...)
}

func (r *Registry) reset() {
	r.signals = make(map[string]keyedSignal)
	r.order = nil
}

// Restore queues values for keyed signals. Keys already registered are
// updated immediately; the rest are applied on registration.
func (r *Registry) Restore(values map[string]json.RawMessage) {
	for key, raw := range values {
		if s, ok := r.signals[key]; ok {
			if err := s.setJSON(raw); err != nil {
				r.logRestoreFailure(key, err)
			}
			continue
		}
		r.restore[key] = raw
	}
}

// Len returns the number of registered signals.
func (r *Registry) Len() int {
	return len(r.signals)
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Lookup returns the signal registered under key.
func (r *Registry) Lookup(key string) (any, bool) {
	s, ok := r.signals[key]
	if !ok {
		return nil, false
	}
	return s, true
}

// Snapshot returns the current value of every keyed signal.
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, len(r.signals))
	for key, s := range r.signals {
		out[key] = s.anyValue()
	}
	return out
}

// SetJSON decodes raw into the signal registered under key and writes it.
func (r *Registry) SetJSON(key string, raw json.RawMessage) error {
	s, ok := r.signals[key]
	if !ok {
		return aerrors.New("E008").WithDetailf("key %q", key).Wrap(ErrUnknownKey)
	}
	return s.setJSON(raw)
}
