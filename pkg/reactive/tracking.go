package reactive

// Listener is notified when a signal it subscribed to changes.
type Listener interface {
	// ID returns a unique identifier used for subscription deduplication.
	ID() uint64

	// Notify is called synchronously after a subscribed signal changed.
	Notify()
}

// dependent is a listener that records the signals it read during a tracked
// evaluation so it can unsubscribe from them later.
type dependent interface {
	Listener
	addSource(source *signalBase)
}

// tracker is the explicit tracking stack of a Runtime. Every tracked
// evaluation pushes a frame and pops it when done, so nested evaluations
// (a computed read inside an effect) restore the outer collection intact.
// A nil frame suppresses tracking.
type tracker struct {
	stack []dependent
}

func (t *tracker) push(d dependent) {
	t.stack = append(t.stack, d)
}

func (t *tracker) pop() {
	t.stack[len(t.stack)-1] = nil
	t.stack = t.stack[:len(t.stack)-1]
}

// current returns the dependent collecting reads, or nil.
func (t *tracker) current() dependent {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// depth returns the number of active frames.
func (t *tracker) depth() int {
	return len(t.stack)
}

// track subscribes the current dependent to source.
func (rt *Runtime) track(source *signalBase) {
	d := rt.tracker.current()
	if d == nil {
		return
	}
	source.subscribe(d)
	d.addSource(source)
}

// Tracking reports whether signal reads are currently being recorded.
func (rt *Runtime) Tracking() bool {
	return rt.tracker.current() != nil
}
