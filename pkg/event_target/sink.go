package event_target

import (
	"fmt"
	"log/slog"
)

// ErrorSink observes listener failures that the dispatcher swallowed.
// A panic in OnListenerError is recovered and logged at debug level.
type ErrorSink interface {
	OnListenerError(event *Event, listener Listener, err error)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(event *Event, listener Listener, err error)

func (f ErrorSinkFunc) OnListenerError(event *Event, listener Listener, err error) {
	f(event, listener, err)
}

// MultiErrorSink fans a failure out to every non-nil sink.
type MultiErrorSink []ErrorSink

func (m MultiErrorSink) OnListenerError(event *Event, listener Listener, err error) {
	for _, s := range m {
		if s != nil {
			s.OnListenerError(event, listener, err)
		}
	}
}

// LogErrorSink writes failures to a logger at debug level.
type LogErrorSink struct {
	Logger *slog.Logger
}

func (s LogErrorSink) OnListenerError(event *Event, listener Listener, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.DebugContext(event.Context(), "Failed to handle event",
		"event.type", event.Type(),
		"event.id", event.ID.String(),
		"listener", fmt.Sprintf("%T", listener),
		"error", err,
	)
}

type panicError struct {
	msg        string
	underlying error
}

func (e *panicError) Error() string {
	return e.msg
}

func (e *panicError) Unwrap() error {
	return e.underlying
}

// recoverErr turns a recovered panic value into an error, keeping err as the
// underlying cause.
func recoverErr(err error, r any) error {
	switch v := r.(type) {
	case nil:
		return err
	case string:
		return &panicError{msg: "panic: " + v, underlying: err}
	case error:
		return &panicError{msg: "panic: " + v.Error(), underlying: v}
	default:
		return &panicError{msg: fmt.Sprintf("panic: %v", r), underlying: err}
	}
}

// invoke is the isolation boundary around a single listener call.
func invoke(listener Listener, event *Event) (err error) {
	defer func() {
		err = recoverErr(err, recover())
	}()
	return listener.HandleEvent(event)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
