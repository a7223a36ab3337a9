package event_target

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventID = uuid.UUID
type EventType = string

// Event is the value handed to every listener of one dispatch.
// Type is fixed at construction; Target is assigned by the dispatcher.
// The two flags only ever go from false to true.
type Event struct {
	ID        EventID
	Timestamp time.Time
	// Data is the optional payload. The dispatcher never inspects it.
	Data any

	eventType          EventType
	target             any
	ctx                context.Context
	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent builds an event of the given type carrying data.
func NewEvent(eventType EventType, data any) *Event {
	return &Event{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Data:      data,
		eventType: eventType,
	}
}

func (e *Event) Type() EventType {
	return e.eventType
}

// Target is the declared target of the dispatcher that delivered the event.
func (e *Event) Target() any {
	return e.target
}

// Context returns the context the event was dispatched with.
func (e *Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// PreventDefault vetoes the action the event announces.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation skips every listener not yet invoked for this dispatch.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

func (e *Event) String() string {
	return fmt.Sprintf("[Event type=%s]", e.eventType)
}
