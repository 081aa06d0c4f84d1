// Package action builds and applies NanoUI actions.
//
// An Action is an immutable value: constructed by a factory or decoded from an
// IR descriptor, then consumed once by a Dispatcher. Only state mutations touch
// the store; navigation, toasts and fetches are handed to an EffectHandler.
package action

import (
	"fmt"
	"sort"
	"strings"

	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
)

// Type identifies the kind of action.
type Type string

const (
	TypeStateMutation Type = "stateMutation"
	TypeSequence      Type = "sequence"
	TypeNavigate      Type = "navigate"
	TypeShowToast     Type = "showToast"
	TypeFetch         Type = "fetch"
)

// Types lists every action type in display order.
var Types = []Type{TypeStateMutation, TypeSequence, TypeNavigate, TypeShowToast, TypeFetch}

// Operation is a state mutation operator.
type Operation string

const (
	OpSet      Operation = "SET"
	OpAdd      Operation = "ADD"
	OpSubtract Operation = "SUBTRACT"
	OpAppend   Operation = "APPEND"
	OpRemove   Operation = "REMOVE"
)

// Operations lists every mutation operator in display order.
var Operations = []Operation{OpSet, OpAdd, OpSubtract, OpAppend, OpRemove}

// Mutation is the payload of a stateMutation action. Value is always text
// and is coerced when the mutation is applied.
type Mutation struct {
	Path      string
	Operation Operation
	Value     string
}

func (m Mutation) String() string {
	return fmt.Sprintf("%s %s %q", m.Operation, m.Path, m.Value)
}

// Action is a typed command. Mutation is set for stateMutation, Actions for
// sequence and Params for the effect types.
type Action struct {
	Type     Type
	Mutation Mutation
	Actions  []Action
	Params   map[string]string
}

func (a Action) String() string {
	switch a.Type {
	case TypeStateMutation:
		return a.Mutation.String()
	case TypeSequence:
		parts := make([]string, len(a.Actions))
		for i, child := range a.Actions {
			parts[i] = child.String()
		}
		return "sequence[" + strings.Join(parts, "; ") + "]"
	}
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, a.Params[k])
	}
	return string(a.Type) + "(" + strings.Join(parts, ", ") + ")"
}

// MapOperands returns a copy of a with every textual operand (mutation
// value and effect params) passed through fn. The receiver is not changed.
func (a Action) MapOperands(fn func(string) string) Action {
	out := Action{Type: a.Type, Mutation: a.Mutation}
	out.Mutation.Value = fn(a.Mutation.Value)
	if a.Actions != nil {
		out.Actions = make([]Action, len(a.Actions))
		for i, child := range a.Actions {
			out.Actions[i] = child.MapOperands(fn)
		}
	}
	if a.Params != nil {
		out.Params = make(map[string]string, len(a.Params))
		for k, v := range a.Params {
			out.Params[k] = fn(v)
		}
	}
	return out
}

func mutate(path string, op Operation, v string) Action {
	return Action{
		Type:     TypeStateMutation,
		Mutation: Mutation{Path: state.StripPrefix(strings.TrimSpace(path)), Operation: op, Value: v},
	}
}

// Set replaces the value at path.
func Set(path, v string) Action { return mutate(path, OpSet, v) }

// Add increments the number at path.
func Add(path, v string) Action { return mutate(path, OpAdd, v) }

// Subtract decrements the number at path.
func Subtract(path, v string) Action { return mutate(path, OpSubtract, v) }

// Append adds item to the list at listPath.
func Append(listPath, item string) Action { return mutate(listPath, OpAppend, item) }

// Remove deletes the first occurrence of item from the list at listPath.
func Remove(listPath, item string) Action { return mutate(listPath, OpRemove, item) }

// Sequence runs actions in order.
func Sequence(actions ...Action) Action {
	return Action{Type: TypeSequence, Actions: actions}
}

// Navigate asks the host to navigate to a route or URL.
func Navigate(to string) Action {
	return Action{Type: TypeNavigate, Params: map[string]string{"to": to}}
}

// ShowToast asks the host to show a transient message.
func ShowToast(message string) Action {
	return Action{Type: TypeShowToast, Params: map[string]string{"message": message}}
}

// Fetch asks the host to perform a request. The core never performs it.
func Fetch(url, method string) Action {
	if method == "" {
		method = "GET"
	}
	return Action{Type: TypeFetch, Params: map[string]string{"url": url, "method": method}}
}

// ParseType matches name case-insensitively against the known action types.
func ParseType(name string) (Type, bool) {
	for _, t := range Types {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return "", false
}

// ParseOperation matches name case-insensitively. An empty name means SET.
func ParseOperation(name string) (Operation, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return OpSet, true
	}
	if name == "SUB" {
		return OpSubtract, true
	}
	for _, op := range Operations {
		if string(op) == name {
			return op, true
		}
	}
	return "", false
}

// FromDescriptor decodes an IR action descriptor such as
//
//	{"type": "stateMutation", "payload": {"path": "count", "operation": "ADD", "value": "1"}}
//
// Fields may also sit directly on the descriptor instead of under "payload".
func FromDescriptor(p ir.Prop) (Action, error) {
	return fromDescriptor(p, "action")
}

func fromDescriptor(p ir.Prop, where string) (Action, error) {
	obj, ok := p.(ir.Object)
	if !ok {
		return Action{}, nerrors.New("IR-0002", map[string]any{
			"Expected": "action object", "Got": string(p.Kind()),
		}).WithPath(where)
	}

	name, ok := obj.GetString("type")
	if !ok {
		name, _ = obj.GetString("action")
	}
	typ, ok := ParseType(name)
	if !ok {
		return Action{}, nerrors.New("IR-0008", map[string]any{"Type": name}).WithPath(where)
	}

	payload := obj
	if raw, ok := obj.Get("payload"); ok {
		if po, ok := raw.(ir.Object); ok {
			payload = po
		}
	}

	switch typ {
	case TypeStateMutation:
		opName, _ := payload.GetString("operation")
		op, ok := ParseOperation(opName)
		if !ok {
			return Action{}, nerrors.New("IR-0009", map[string]any{"Operation": opName}).WithPath(where)
		}
		path, _ := payload.GetString("path")
		var operand string
		if v, ok := payload.Get("value"); ok {
			operand = v.String()
		}
		return mutate(path, op, operand), nil

	case TypeSequence:
		raw, _ := payload.Get("actions")
		arr, ok := raw.(ir.Array)
		if !ok {
			return Action{}, nerrors.New("IR-0002", map[string]any{
				"Expected": "array of actions", "Got": kindOf(raw),
			}).WithPath(where + ".actions")
		}
		children := make([]Action, 0, len(arr.Items))
		for i, item := range arr.Items {
			child, err := fromDescriptor(item, fmt.Sprintf("%s.actions[%d]", where, i))
			if err != nil {
				return Action{}, err
			}
			children = append(children, child)
		}
		return Sequence(children...), nil
	}

	params := map[string]string{}
	for _, k := range payload.Keys {
		if k == "type" || k == "action" || k == "payload" {
			continue
		}
		params[k] = payload.Fields[k].String()
	}
	if typ == TypeFetch && params["method"] == "" {
		params["method"] = "GET"
	}
	return Action{Type: typ, Params: params}, nil
}

func kindOf(p ir.Prop) string {
	if p == nil {
		return "nothing"
	}
	return string(p.Kind())
}
