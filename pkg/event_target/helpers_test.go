package event_target

import (
	"sync"
)

// callLog records listener invocations across several listeners so tests can
// assert on ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
	seen  []*Event
}

func (c *callLog) record(name string, e *Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
	c.seen = append(c.seen, e)
}

func (c *callLog) All() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *callLog) Events() []*Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Event, len(c.seen))
	copy(out, c.seen)
	return out
}

// testListener records itself and then runs an optional action.
type testListener struct {
	name   string
	log    *callLog
	action func(e *Event) error
}

func newTestListener(name string, log *callLog) *testListener {
	return &testListener{name: name, log: log}
}

func (l *testListener) HandleEvent(e *Event) error {
	l.log.record(l.name, e)
	if l.action != nil {
		return l.action(e)
	}
	return nil
}

// sliceListener is deliberately not comparable.
type sliceListener []string

func (sliceListener) HandleEvent(*Event) error { return nil }

// boxedListener has a comparable type, but == panics once v holds a slice.
type boxedListener struct {
	v any
}

func (boxedListener) HandleEvent(*Event) error { return nil }

// capturedFailure is one call into a capturing ErrorSink.
type capturedFailure struct {
	event    *Event
	listener Listener
	err      error
}

type capturingSink struct {
	mu       sync.Mutex
	failures []capturedFailure
}

func (s *capturingSink) OnListenerError(event *Event, listener Listener, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, capturedFailure{event: event, listener: listener, err: err})
}

func (s *capturingSink) All() []capturedFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]capturedFailure, len(s.failures))
	copy(out, s.failures)
	return out
}
