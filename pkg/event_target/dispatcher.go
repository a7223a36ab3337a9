// Package event_target implements a synchronous, priority-ordered event
// dispatcher with cooperative cancellation and vetoable default actions.
package event_target

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/jtomasevic/observable/pkg/config"
	apperrors "github.com/jtomasevic/observable/pkg/errors"
	"github.com/jtomasevic/observable/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/jtomasevic/observable/pkg/event_target"

// EventTarget is the registration and dispatch surface shared by the
// dispatcher and every object composing one.
type EventTarget interface {
	AddEventListener(eventType EventType, listener Listener, priority ...Priority) error
	RemoveEventListener(eventType EventType, listener ...Listener) error
	HasEventListener(eventType EventType) bool
	DispatchEvent(event *Event, data ...any) (bool, error)
	Dispatch(eventType EventType, data ...any) (bool, error)
}

var _ EventTarget = (*EventDispatcher)(nil)

// EventDispatcher keeps, per event type, listener registrations sorted by
// ascending priority (ties in registration order) and delivers events to them
// synchronously on the calling goroutine.
//
// The mutex is never held while a listener runs: dispatch works on a copy of
// the registrations, so listeners may add or remove listeners, or dispatch
// again, without affecting the in-progress dispatch.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]registration

	target          any
	logger          *slog.Logger
	sink            ErrorSink
	tracer          trace.Tracer
	maxDepth        int
	suggestDistance int
}

// depthKey carries the nesting depth of one dispatcher's call chain in the
// dispatch context.
type depthKey struct {
	d *EventDispatcher
}

func (d *EventDispatcher) depthFrom(ctx context.Context) int {
	n, _ := ctx.Value(depthKey{d}).(int)
	return n
}

// Option configures an EventDispatcher.
type Option func(*EventDispatcher)

// WithTarget sets the object reported as Event.Target. A composing object
// passes itself so listeners never see the dispatcher.
func WithTarget(target any) Option {
	return func(d *EventDispatcher) {
		d.target = target
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *EventDispatcher) {
		d.logger = logger
	}
}

// WithErrorSink routes swallowed listener failures to sink instead of the
// debug log.
func WithErrorSink(sink ErrorSink) Option {
	return func(d *EventDispatcher) {
		d.sink = sink
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *EventDispatcher) {
		d.tracer = tracer
	}
}

// WithMaxDepth fails nested dispatches deeper than n with RecursionLimit.
// A dispatch is nested when its context descends from a listener's
// Event.Context(). Independent dispatches, concurrent or not, each start at
// depth 1. 0 leaves recursion unguarded.
func WithMaxDepth(n int) Option {
	return func(d *EventDispatcher) {
		d.maxDepth = n
	}
}

// WithSuggestDistance sets the edit distance used by Suggest. 0 disables it.
func WithSuggestDistance(n int) Option {
	return func(d *EventDispatcher) {
		d.suggestDistance = n
	}
}

// WithConfig applies cfg. The logger writes to stderr at cfg's level and
// spans go to the global provider when tracing is enabled.
func WithConfig(cfg config.Config) Option {
	return func(d *EventDispatcher) {
		d.maxDepth = cfg.MaxDepth
		d.suggestDistance = cfg.SuggestDistance
		d.logger = cfg.Logger(os.Stderr)
		if cfg.TraceEnabled {
			d.tracer = otel.Tracer(instrumentationName)
		}
	}
}

func NewEventDispatcher(opts ...Option) *EventDispatcher {
	d := &EventDispatcher{
		listeners:       make(map[EventType][]registration),
		suggestDistance: config.Default().SuggestDistance,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.target == nil {
		d.target = d
	}
	if d.logger == nil {
		d.logger = discardLogger()
	}
	if d.sink == nil {
		d.sink = LogErrorSink{Logger: d.logger}
	}
	if d.tracer == nil {
		d.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return d
}

// AddEventListener registers listener for eventType at the given priority
// (Normal when omitted). Registering the same listener again at the same
// priority does nothing; at another priority it moves the listener.
func (d *EventDispatcher) AddEventListener(eventType EventType, listener Listener, priority ...Priority) error {
	if err := validation.Validate("eventType", eventType, validation.Name...); err != nil {
		return err
	}
	if err := checkListener(listener); err != nil {
		return err
	}
	p := Normal
	if len(priority) > 0 {
		p = priority[0]
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	regs := d.listeners[eventType]
	if i := indexOf(regs, listener); i >= 0 {
		if regs[i].priority == p {
			return nil
		}
		d.logger.Debug("Repositioning event listener",
			"event.type", eventType, "from", int(regs[i].priority), "to", int(p))
		regs = slices.Delete(regs, i, i+1)
	} else {
		d.logger.Debug("Adding event listener", "event.type", eventType, "priority", int(p))
	}
	d.listeners[eventType] = insertSorted(regs, registration{listener: listener, priority: p})
	return nil
}

// RemoveEventListener drops the given listeners from eventType, or every
// registration of eventType when none is given. Unknown listeners are ignored.
func (d *EventDispatcher) RemoveEventListener(eventType EventType, listener ...Listener) error {
	if err := validation.Validate("eventType", eventType, validation.Name...); err != nil {
		return err
	}
	for _, l := range listener {
		if l == nil {
			return apperrors.ArgumentNull("listener")
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(listener) == 0 {
		d.logger.Debug("Removing all event listeners", "event.type", eventType)
		delete(d.listeners, eventType)
		return nil
	}

	regs := d.listeners[eventType]
	for _, l := range listener {
		if i := indexOf(regs, l); i >= 0 {
			d.logger.Debug("Removing event listener", "event.type", eventType)
			regs = slices.Delete(regs, i, i+1)
		}
	}
	if len(regs) == 0 {
		delete(d.listeners, eventType)
	} else {
		d.listeners[eventType] = regs
	}
	return nil
}

func (d *EventDispatcher) HasEventListener(eventType EventType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[eventType]) > 0
}

// Listeners returns the listeners of eventType in invocation order.
func (d *EventDispatcher) Listeners(eventType EventType) []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	regs := d.listeners[eventType]
	out := make([]Listener, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.listener)
	}
	return out
}

// EventTypes returns the event types that currently have listeners, sorted.
func (d *EventDispatcher) EventTypes() []EventType {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.listeners))
}

// Dispatch builds an event of eventType carrying data[0] and dispatches it.
// No event is built when eventType has no listeners.
func (d *EventDispatcher) Dispatch(eventType EventType, data ...any) (bool, error) {
	return d.DispatchContext(context.Background(), eventType, data...)
}

func (d *EventDispatcher) DispatchContext(ctx context.Context, eventType EventType, data ...any) (bool, error) {
	if err := validation.Validate("eventType", eventType, validation.Present); err != nil {
		return false, err
	}
	regs := d.snapshot(ctx, eventType)
	if len(regs) == 0 {
		return false, nil
	}
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	return d.dispatch(ctx, NewEvent(eventType, payload), regs)
}

// DispatchEvent delivers event to the listeners of its type and reports
// whether any of them prevented the default action. When data is given it
// replaces event.Data. Listener failures never reach the caller.
func (d *EventDispatcher) DispatchEvent(event *Event, data ...any) (bool, error) {
	return d.DispatchEventContext(context.Background(), event, data...)
}

func (d *EventDispatcher) DispatchEventContext(ctx context.Context, event *Event, data ...any) (bool, error) {
	if event == nil {
		return false, apperrors.ArgumentNull("event")
	}
	if event.Type() == "" {
		return false, apperrors.ArgumentNotDefined("event.type")
	}
	regs := d.snapshot(ctx, event.Type())
	if len(regs) == 0 {
		return false, nil
	}
	if len(data) > 0 {
		event.Data = data[0]
	}
	return d.dispatch(ctx, event, regs)
}

func (d *EventDispatcher) snapshot(ctx context.Context, eventType EventType) []registration {
	d.mu.RLock()
	regs := slices.Clone(d.listeners[eventType])
	d.mu.RUnlock()

	if len(regs) == 0 && d.logger.Enabled(ctx, slog.LevelDebug) {
		if s, ok := d.Suggest(eventType); ok {
			d.logger.DebugContext(ctx, "No event listeners", "event.type", eventType, "suggestion", s)
		} else {
			d.logger.DebugContext(ctx, "No event listeners", "event.type", eventType)
		}
	}
	return regs
}

func (d *EventDispatcher) dispatch(ctx context.Context, event *Event, regs []registration) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Nesting is counted along the context chain, so listeners that dispatch
	// again must pass Event.Context() on for the limit to apply.
	depth := d.depthFrom(ctx) + 1
	if d.maxDepth > 0 && depth > d.maxDepth {
		return false, apperrors.WithMetadata(apperrors.CodeRecursionLimit,
			fmt.Sprintf("max dispatch depth %d reached", d.maxDepth),
			map[string]string{"event.type": event.Type()})
	}
	ctx = context.WithValue(ctx, depthKey{d}, depth)

	ctx, span := d.tracer.Start(ctx, "event_target.dispatch", trace.WithAttributes(
		attribute.String("event.type", event.Type()),
		attribute.String("event.id", event.ID.String()),
		attribute.Int("event.listeners", len(regs)),
	))
	defer span.End()

	event.target = d.target
	event.ctx = ctx

	d.logger.DebugContext(ctx, "Dispatching event", "event.type", event.Type(), "listeners", len(regs))
	for _, r := range regs {
		if err := invoke(r.listener, event); err != nil {
			failure := apperrors.Wrap(apperrors.CodeListenerFailed,
				fmt.Sprintf("listener failed handling %q: %v", event.Type(), err), err)
			span.RecordError(failure)
			d.report(event, r.listener, failure)
		}
		if event.PropagationStopped() {
			d.logger.DebugContext(ctx, "Stop propagation event", "event.type", event.Type())
			break
		}
	}

	span.SetAttributes(
		attribute.Bool("event.default_prevented", event.DefaultPrevented()),
		attribute.Bool("event.propagation_stopped", event.PropagationStopped()),
	)
	return event.DefaultPrevented(), nil
}

// report hands a failure to the sink. A panicking sink is logged and dropped
// so the remaining listeners still run.
func (d *EventDispatcher) report(event *Event, listener Listener, failure error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.DebugContext(event.Context(), "Error sink failed",
				"event.type", event.Type(), "error", recoverErr(nil, r))
		}
	}()
	d.sink.OnListenerError(event, listener, failure)
}

// Clone returns a dispatcher with the same target and options and its own
// copy of every listener list.
func (d *EventDispatcher) Clone() *EventDispatcher {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c := &EventDispatcher{
		listeners:       make(map[EventType][]registration, len(d.listeners)),
		target:          d.target,
		logger:          d.logger,
		sink:            d.sink,
		tracer:          d.tracer,
		maxDepth:        d.maxDepth,
		suggestDistance: d.suggestDistance,
	}
	for t, regs := range d.listeners {
		c.listeners[t] = slices.Clone(regs)
	}
	return c
}
