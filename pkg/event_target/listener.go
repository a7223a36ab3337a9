package event_target

import (
	"math"
	"reflect"
	"slices"

	apperrors "github.com/jtomasevic/observable/pkg/errors"
)

// Listener receives dispatched events. A returned error (or a panic) is
// isolated by the dispatcher and never reaches the dispatching caller.
type Listener interface {
	HandleEvent(event *Event) error
}

// NewListener wraps fn into a Listener with its own identity, so it can be
// registered and later removed.
func NewListener(fn func(event *Event) error) Listener {
	return &funcListener{fn: fn}
}

type funcListener struct {
	fn func(event *Event) error
}

func (l *funcListener) HandleEvent(event *Event) error {
	return l.fn(event)
}

// Priority orders listeners of one event type. Lower values run first.
type Priority int

const (
	Minimum Priority = math.MinInt32
	Lower   Priority = -1000
	Normal  Priority = 0
	Higher  Priority = 1000
	Maximum Priority = math.MaxInt32
)

type registration struct {
	listener Listener
	priority Priority
}

// Listener identity is interface equality, so only comparable dynamic types
// can be registered.
func checkListener(listener Listener) error {
	if listener == nil {
		return apperrors.ArgumentNull("listener")
	}
	v := reflect.ValueOf(listener)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return apperrors.ArgumentNull("listener")
		}
	}
	if !v.Type().Comparable() {
		return apperrors.InvalidArgument("listener", "listener type "+v.Type().String()+" is not comparable")
	}
	return nil
}

func indexOf(regs []registration, listener Listener) int {
	return slices.IndexFunc(regs, func(r registration) bool {
		return sameListener(r.listener, listener)
	})
}

// A struct type with interface fields passes checkListener but == panics when
// those fields hold uncomparable values. Such listeners are never equal.
func sameListener(a, b Listener) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// insertSorted keeps regs ascending by priority, placing reg after every
// existing registration of equal priority.
func insertSorted(regs []registration, reg registration) []registration {
	i := slices.IndexFunc(regs, func(r registration) bool {
		return r.priority > reg.priority
	})
	if i < 0 {
		return append(regs, reg)
	}
	return slices.Insert(regs, i, reg)
}
