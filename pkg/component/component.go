// Package component provides a property container whose every write is
// announced as a vetoable "<name>Change" event.
package component

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/jtomasevic/observable/pkg/event_target"
	"github.com/jtomasevic/observable/pkg/validation"
)

// ChangeSuffix is appended to a property name to form its change event type.
const ChangeSuffix = "Change"

// ChangeEventType returns the event type dispatched before name is written.
func ChangeEventType(name string) event_target.EventType {
	return name + ChangeSuffix
}

// Comparable is an optional capability of stored values. A write is skipped
// when the current value reports CompareTo(next) == 0.
type Comparable interface {
	CompareTo(other any) int
}

// Component stores named properties. It owns one EventDispatcher whose target
// is the Component, so listeners see the Component as Event.Target.
type Component struct {
	mu         sync.RWMutex
	properties map[string]any
	dispatcher *event_target.EventDispatcher
}

var _ event_target.EventTarget = (*Component)(nil)

// New builds a Component. Options configure its dispatcher; any target option
// is overridden by the Component itself.
func New(opts ...event_target.Option) *Component {
	c := &Component{
		properties: make(map[string]any),
	}
	opts = append(slices.Clone(opts), event_target.WithTarget(c))
	c.dispatcher = event_target.NewEventDispatcher(opts...)
	return c
}

// Get returns the stored value of name and whether it was ever set.
func (c *Component) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.properties[name]
	return v, ok
}

// GetAs returns the stored value of name when it holds a T.
func GetAs[T any](c *Component, name string) (T, bool) {
	v, ok := c.Get(name)
	t, isT := v.(T)
	return t, ok && isT
}

// Set writes value to name unless the value is unchanged or a listener of
// "<name>Change" prevents the default. It reports whether the write happened.
func (c *Component) Set(name string, value any) (bool, error) {
	return c.SetContext(context.Background(), name, value)
}

// SetContext is Set with a dispatch context. A listener that writes a property
// passes its Event.Context() so the dispatcher depth limit sees the nesting.
func (c *Component) SetContext(ctx context.Context, name string, value any) (bool, error) {
	if err := validation.Validate("name", name, validation.Name...); err != nil {
		return false, err
	}

	prev, ok := c.Get(name)
	if ok && unchanged(prev, value) {
		return false, nil
	}

	prevented, err := c.dispatcher.DispatchContext(ctx, ChangeEventType(name), value)
	if err != nil || prevented {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another write may have landed while listeners ran
	if cur, ok := c.properties[name]; ok && unchanged(cur, value) {
		return false, nil
	}
	c.properties[name] = value
	return true, nil
}

// Prop returns the value held before the call and, when value is given,
// attempts to Set it.
func (c *Component) Prop(name string, value ...any) (any, error) {
	prev, _ := c.Get(name)
	if len(value) > 0 {
		if _, err := c.Set(name, value[0]); err != nil {
			return prev, err
		}
	}
	return prev, nil
}

func (c *Component) AddEventListener(eventType event_target.EventType, listener event_target.Listener, priority ...event_target.Priority) error {
	return c.dispatcher.AddEventListener(eventType, listener, priority...)
}

func (c *Component) RemoveEventListener(eventType event_target.EventType, listener ...event_target.Listener) error {
	return c.dispatcher.RemoveEventListener(eventType, listener...)
}

func (c *Component) HasEventListener(eventType event_target.EventType) bool {
	return c.dispatcher.HasEventListener(eventType)
}

func (c *Component) DispatchEvent(event *event_target.Event, data ...any) (bool, error) {
	return c.dispatcher.DispatchEvent(event, data...)
}

func (c *Component) Dispatch(eventType event_target.EventType, data ...any) (bool, error) {
	return c.dispatcher.Dispatch(eventType, data...)
}

func unchanged(prev, next any) bool {
	if identical(prev, next) {
		return true
	}
	if cmp, ok := prev.(Comparable); ok {
		return cmp.CompareTo(next) == 0
	}
	return false
}

// identical is == for comparable values and reference identity for maps,
// slices, funcs, chans and pointers.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Type().Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// Structs with interface fields are comparable by type but may still panic.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
