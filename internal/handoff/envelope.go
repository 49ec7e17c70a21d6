// Package handoff carries optional payloads between views and resolves a
// view's entity when the payload is missing.
package handoff

import (
	"context"
	"errors"
)

// ErrEntityNotFound is returned when an entity is neither handed off nor
// obtainable by identifier
var ErrEntityNotFound = errors.New("entity not found")

// Envelope is an optional payload attached to one navigation
type Envelope[T any] struct {
	value   T
	present bool
}

// With wraps v in a present envelope
func With[T any](v T) Envelope[T] {
	return Envelope[T]{value: v, present: true}
}

// Empty returns an absent envelope
func Empty[T any]() Envelope[T] {
	return Envelope[T]{}
}

// Get returns the payload and whether it is present
func (e Envelope[T]) Get() (T, bool) {
	return e.value, e.present
}

// Present reports whether the envelope carries a payload
func (e Envelope[T]) Present() bool {
	return e.present
}

// From extracts a typed envelope from untyped navigation state. A bare T or
// non-nil *T counts as present; anything else is absent.
func From[T any](state any) Envelope[T] {
	switch v := state.(type) {
	case Envelope[T]:
		return v
	case T:
		return With(v)
	case *T:
		if v != nil {
			return With(*v)
		}
	}
	return Empty[T]()
}

// ViewStatus is the render state of a receiving view
type ViewStatus string

const (
	StatusLoading      ViewStatus = "loading"
	StatusReady        ViewStatus = "ready"
	StatusNotAvailable ViewStatus = "not_available"
)

// Action is a recovery affordance offered by a view
type Action string

// ActionBack navigates to the previous view
const ActionBack Action = "back"

// Source records where a resolved entity came from
type Source string

const (
	SourceHandoff  Source = "handoff"
	SourceFallback Source = "fallback"
)

// Fetch obtains an entity by other means than the envelope. It returns
// ErrEntityNotFound to let the next fallback try.
type Fetch[T any] func(ctx context.Context) (T, error)

// Resolution is the outcome of resolving a view's entity
type Resolution[T any] struct {
	Status  ViewStatus
	Value   T
	Source  Source
	Err     error
	Actions []Action
}

// Ready reports whether the entity was resolved
func (r Resolution[T]) Ready() bool {
	return r.Status == StatusReady
}

// Loading returns the initial resolution shown while fetching
func Loading[T any]() Resolution[T] {
	return Resolution[T]{Status: StatusLoading}
}

// Resolve returns the envelope payload when present, otherwise the first
// fallback that yields the entity. A fallback error other than
// ErrEntityNotFound stops the chain. When nothing yields the entity the
// result is NotAvailable with a single back action.
func Resolve[T any](ctx context.Context, env Envelope[T], fallbacks ...Fetch[T]) Resolution[T] {
	if v, ok := env.Get(); ok {
		return Resolution[T]{Status: StatusReady, Value: v, Source: SourceHandoff}
	}

	err := ErrEntityNotFound
	for _, fetch := range fallbacks {
		if fetch == nil {
			continue
		}
		v, fetchErr := fetch(ctx)
		if fetchErr == nil {
			return Resolution[T]{Status: StatusReady, Value: v, Source: SourceFallback}
		}
		err = fetchErr
		if !errors.Is(fetchErr, ErrEntityNotFound) {
			break
		}
	}

	return NotAvailable[T](err)
}

// NotAvailable builds the terminal "not available" resolution
func NotAvailable[T any](err error) Resolution[T] {
	if err == nil {
		err = ErrEntityNotFound
	}
	return Resolution[T]{
		Status:  StatusNotAvailable,
		Err:     err,
		Actions: []Action{ActionBack},
	}
}
