package dom

import "sync"

// Op names a tree mutation.
type Op string

const (
	OpCreate  Op = "create"
	OpInsert  Op = "insert"
	OpRemove  Op = "remove"
	OpSetAttr Op = "attr"
	OpSetText Op = "text"
	OpClaim   Op = "claim"
)

// Mutation is one tree operation performed by a Live backend, in the form it
// is sent to a Host. Nodes are referred to by ID.
type Mutation struct {
	Op     Op     `json:"op"`
	ID     uint64 `json:"id"`
	Parent uint64 `json:"parent,omitempty"`
	Before uint64 `json:"before,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Host receives the mutations of a Live backend in the order they happen.
type Host interface {
	Apply(m Mutation)
}

// HostFunc adapts a function to Host.
type HostFunc func(m Mutation)

// Apply calls f(m).
func (f HostFunc) Apply(m Mutation) { f(m) }

// Recorder is a Host that keeps every mutation it receives.
type Recorder struct {
	mu        sync.Mutex
	mutations []Mutation
}

// Apply records m.
func (r *Recorder) Apply(m Mutation) {
	r.mu.Lock()
	r.mutations = append(r.mutations, m)
	r.mu.Unlock()
}

// Mutations returns a copy of the recorded mutations.
func (r *Recorder) Mutations() []Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Mutation, len(r.mutations))
	copy(out, r.mutations)
	return out
}

// Count returns how many recorded mutations have the given op.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Reset drops all recorded mutations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.mutations = nil
	r.mu.Unlock()
}
