package action

import (
	"errors"

	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
)

// EffectHandler performs the actions the core does not execute itself:
// navigation, toasts and fetches.
type EffectHandler interface {
	HandleEffect(a Action) error
}

// EffectFunc adapts a function to an EffectHandler.
type EffectFunc func(a Action) error

func (f EffectFunc) HandleEffect(a Action) error { return f(a) }

// Listener is called after a mutation changed the store.
type Listener func(m Mutation)

type subscription struct {
	id int
	fn Listener
}

// Dispatcher is the single writer of a store. It applies mutations, routes
// effects and notifies listeners, which is what triggers a re-render.
// It is not safe for concurrent use.
type Dispatcher struct {
	Effects EffectHandler
	Logger  evaluator.Logger

	store     *state.Store
	listeners []subscription
	nextID    int
}

// NewDispatcher returns a dispatcher writing to store.
func NewDispatcher(store *state.Store) *Dispatcher {
	return &Dispatcher{store: store, Logger: evaluator.NopLogger}
}

// Store returns the store the dispatcher writes to.
func (d *Dispatcher) Store() *state.Store {
	return d.store
}

// Subscribe registers fn and returns a function that removes it.
func (d *Dispatcher) Subscribe(fn Listener) func() {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range d.listeners {
			if s.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch consumes a. Sequences run every child even if one fails; the
// errors are joined.
func (d *Dispatcher) Dispatch(a Action) error {
	switch a.Type {
	case TypeStateMutation:
		if ApplyMutation(a.Mutation, d.store) {
			d.logger().LogLine("applied", a.Mutation)
			for _, s := range d.listeners {
				s.fn(a.Mutation)
			}
		} else {
			d.logger().LogLine("no-op", a.Mutation)
		}
		return nil

	case TypeSequence:
		var errs []error
		for _, child := range a.Actions {
			if err := d.Dispatch(child); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	if d.Effects == nil {
		d.logger().LogLine("no effect handler for", a)
		return nil
	}
	return d.Effects.HandleEffect(a)
}

func (d *Dispatcher) logger() evaluator.Logger {
	if d.Logger == nil {
		return evaluator.NopLogger
	}
	return d.Logger
}
