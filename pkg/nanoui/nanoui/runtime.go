// Package nanoui provides the embedding API for the NanoUI evaluation core:
// a Runtime ties one IR tree to its state store, evaluator and dispatcher.
package nanoui

import (
	"time"

	"github.com/google/uuid"

	"github.com/sambeau/nanoui/pkg/nanoui/action"
	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
	"github.com/sambeau/nanoui/pkg/nanoui/format"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/view"
)

// Runtime is one live tree. It is not safe for concurrent use.
type Runtime struct {
	ID string

	root       *ir.Node
	store      *state.Store
	eval       *evaluator.Evaluator
	dispatcher *action.Dispatcher
	logger     Logger
}

type options struct {
	now     func() time.Time
	locale  string
	logger  Logger
	effects action.EffectHandler
	seed    map[string]string
}

// Option configures a Runtime.
type Option func(*options)

// WithClock sets the clock behind the current* built-ins.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocale sets the locale for month and weekday names and column formats.
func WithLocale(locale string) Option {
	return func(o *options) { o.locale = locale }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEffects routes navigate, showToast and fetch actions to h.
func WithEffects(h action.EffectHandler) Option {
	return func(o *options) { o.effects = h }
}

// WithState overrides declared defaults after seeding. Each value is applied
// as a SET, so it is coerced to the declared type.
func WithState(values map[string]string) Option {
	return func(o *options) { o.seed = values }
}

// New creates a runtime for root, seeding the store from its state block.
func New(root *ir.Node, opts ...Option) (*Runtime, error) {
	o := options{
		now:    time.Now,
		locale: format.DefaultLocale,
		logger: evaluator.NopLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var vars []ir.StateVar
	if root != nil {
		vars = root.State
	}
	store, err := state.Seed(vars)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := o.logger
	if ll, ok := logger.(*LevelLogger); ok {
		logger = ll.WithTree(id)
	}

	for path, raw := range o.seed {
		action.ApplyMutation(action.Set(path, raw).Mutation, store)
	}

	d := action.NewDispatcher(store)
	d.Logger = logger
	d.Effects = o.effects

	return &Runtime{
		ID:    id,
		root:  root,
		store: store,
		eval: &evaluator.Evaluator{
			Now:    o.now,
			Locale: o.locale,
			Logger: logger,
		},
		dispatcher: d,
		logger:     logger,
	}, nil
}

// LoadFile decodes the IR document at path and creates a runtime for it.
func LoadFile(path string, opts ...Option) (*Runtime, error) {
	root, err := ir.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(root, opts...)
}

// Root returns the IR tree.
func (r *Runtime) Root() *ir.Node {
	return r.root
}

// Store returns the state store.
func (r *Runtime) Store() *state.Store {
	return r.store
}

// Evaluator returns the evaluator wired to the runtime's clock and locale.
func (r *Runtime) Evaluator() *evaluator.Evaluator {
	return r.eval
}

// Scope returns a snapshot of the current state.
func (r *Runtime) Scope() evaluator.Scope {
	return r.store.Snapshot()
}

// Render resolves the tree against the current state.
func (r *Runtime) Render() *view.Node {
	if r.root == nil {
		return nil
	}
	return view.Resolve(r.root, &view.Context{
		Store:  r.store,
		Eval:   r.eval,
		Logger: r.logger,
	})
}

// Dispatch applies a through the runtime's dispatcher.
func (r *Runtime) Dispatch(a action.Action) error {
	return r.dispatcher.Dispatch(a)
}

// Subscribe registers fn for state changes and returns its unsubscribe func.
func (r *Runtime) Subscribe(fn action.Listener) func() {
	return r.dispatcher.Subscribe(fn)
}

// Evaluate evaluates expr against the current state and built-ins.
func (r *Runtime) Evaluate(expr string) string {
	return r.eval.Evaluate(expr, r.eval.WithBuiltins(r.Scope()))
}

// Interpolate expands markers in text against the current state.
func (r *Runtime) Interpolate(text string) string {
	return r.eval.Interpolate(text, r.Scope())
}

// Condition evaluates a guard against the current state and built-ins.
func (r *Runtime) Condition(expr string) bool {
	return r.eval.EvaluateCondition(expr, r.eval.WithBuiltins(r.Scope()))
}

// Number evaluates expr to a number, reporting false for no number.
func (r *Runtime) Number(expr string) (float64, bool) {
	return r.eval.EvaluateNumberOrNull(expr, r.eval.WithBuiltins(r.Scope()))
}
