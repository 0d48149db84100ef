package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// Session is one client's reactive runtime and the queue of mutations not
// yet sent to it.
type Session struct {
	id string

	mu      sync.Mutex
	rt      *reactive.Runtime
	backend *dom.Live
	root    *dom.Node
	outcome hydrate.Outcome
	pending []dom.Mutation
	seq     uint64
	closed  bool
}

// NewSession renders factory into a fresh container and queues the
// resulting mutations. Options are passed to hydrate.Hydrate; a WithPayload
// option restores keyed state.
func NewSession(ctx context.Context, factory hydrate.Factory, opts ...hydrate.Option) *Session {
	s := &Session{
		id:   newSessionID(),
		root: dom.NewElement("body"),
	}
	opts = append(opts, hydrate.WithHost(dom.HostFunc(s.enqueue)))
	res := hydrate.Hydrate(ctx, s.root, factory, opts...)
	s.rt = res.Runtime
	s.backend = res.Backend
	s.outcome = res.Outcome
	return s
}

// enqueue is called by the backend, always with s.mu held or before the
// session is shared.
func (s *Session) enqueue(m dom.Mutation) {
	s.pending = append(s.pending, m)
}

// ID returns the random session identifier.
func (s *Session) ID() string { return s.id }

// Root returns the container the session renders into.
func (s *Session) Root() *dom.Node { return s.root }

// Outcome reports how the initial render attached.
func (s *Session) Outcome() hydrate.Outcome { return s.outcome }

// Apply sets the keyed signal named by w and propagates the change.
func (s *Session) Apply(w Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return aerrors.New("E061")
	}
	return s.rt.Registry().SetJSON(w.Key, w.Value)
}

// Do runs fn with exclusive access to the session runtime.
func (s *Session) Do(fn func(rt *reactive.Runtime)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return aerrors.New("E061")
	}
	fn(s.rt)
	return nil
}

// Flush drains the pending mutations into the next frame.
func (s *Session) Flush() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	f := Frame{Seq: s.seq, Mutations: s.pending}
	if f.Mutations == nil {
		f.Mutations = []dom.Mutation{}
	}
	if s.seq == 1 {
		f.Root = s.root.ID()
	}
	s.pending = nil
	return f
}

// HTML serializes the current tree.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dom.RenderString(s.root)
}

// Close disposes the runtime. Further writes fail with E061.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil
	return s.rt.Dispose()
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
