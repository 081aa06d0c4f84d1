package options

import (
	"github.com/sambeau/nanoui/pkg/nanoui/action"
	"github.com/sambeau/nanoui/pkg/nanoui/binding"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
)

// selectionKeys are the props a select-like control binds its value through,
// in priority order.
var selectionKeys = []string{"value", "selected", "defaultValue"}

// Selection tracks the current value of a select or radio group. A bound
// selection reads and writes a state path; an uncontrolled one keeps the
// value locally, seeded from a literal prop.
type Selection struct {
	Path  string
	local string
}

// SelectionFor builds the selection of node.
func SelectionFor(node *ir.Node) *Selection {
	if path, ok := binding.ResolveStatePath(node, selectionKeys...); ok {
		return &Selection{Path: path}
	}
	sel := &Selection{}
	for _, key := range selectionKeys {
		p, ok := node.Prop(key)
		if !ok || p.Kind() == ir.NULL_PROP {
			continue
		}
		if s, isString := p.(ir.String); isString && binding.LooksLikeExpression(s.Value) {
			continue
		}
		sel.local = p.String()
		break
	}
	return sel
}

// Bound reports whether the selection is backed by a state path.
func (s *Selection) Bound() bool {
	return s.Path != ""
}

// Current returns the selected value: the state value for a bound
// selection, else the local value. Nothing selected is "".
func (s *Selection) Current(store *state.Store) string {
	if s.Bound() {
		if store == nil {
			return ""
		}
		if v, ok := store.Get(s.Path); ok {
			return v.String()
		}
		return ""
	}
	return s.local
}

// Label returns the display label of the current value.
func (s *Selection) Label(store *state.Store, opts []Option) string {
	return Label(opts, s.Current(store))
}

// Choose selects v. Bound selections return the SET action to dispatch;
// uncontrolled ones update their local value and return false.
func (s *Selection) Choose(v string) (action.Action, bool) {
	if s.Bound() {
		return action.Set(s.Path, v), true
	}
	s.local = v
	return action.Action{}, false
}
