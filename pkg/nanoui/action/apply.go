package action

import (
	"strconv"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// Apply applies the state mutations in a (directly or inside a sequence) to
// store and reports whether the store changed. Effect actions are ignored;
// use a Dispatcher to route them.
func Apply(a Action, store *state.Store) bool {
	switch a.Type {
	case TypeStateMutation:
		return ApplyMutation(a.Mutation, store)
	case TypeSequence:
		changed := false
		for _, child := range a.Actions {
			if Apply(child, store) {
				changed = true
			}
		}
		return changed
	}
	return false
}

// ApplyMutation applies one mutation. The value already at the path decides
// how the textual operand is coerced. Type mismatches leave the store alone.
func ApplyMutation(m Mutation, store *state.Store) bool {
	cur, present := store.Get(m.Path)
	if present {
		if _, isNull := cur.(value.Null); isNull && m.Operation == OpAppend {
			present = false
		}
	}

	var next value.Value
	switch m.Operation {
	case OpSet:
		next = coerce(cur, present, m.Value)
	case OpAdd, OpSubtract:
		n, ok := adjust(cur, m.Value, m.Operation == OpSubtract)
		if !ok {
			return false
		}
		next = n
	case OpAppend:
		if !present {
			next = value.List{Items: []value.Value{value.Str{Value: m.Value}}}
			break
		}
		list, ok := cur.(value.List)
		if !ok {
			return false
		}
		items := make([]value.Value, len(list.Items), len(list.Items)+1)
		copy(items, list.Items)
		next = value.List{Items: append(items, value.Str{Value: m.Value})}
	case OpRemove:
		list, ok := cur.(value.List)
		if !ok {
			return false
		}
		idx := -1
		for i, item := range list.Items {
			if item.String() == m.Value {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		items := make([]value.Value, 0, len(list.Items)-1)
		items = append(items, list.Items[:idx]...)
		items = append(items, list.Items[idx+1:]...)
		next = value.List{Items: items}
	default:
		return false
	}
	return store.Set(m.Path, next)
}

// coerce converts a SET operand to the type of the current value. Absent
// paths and non-scalar values store the raw string.
func coerce(cur value.Value, present bool, raw string) value.Value {
	if !present {
		return value.Str{Value: raw}
	}
	switch cur.(type) {
	case value.Int:
		return value.Int{Value: parseInt(raw, 0)}
	case value.Float:
		if f, ok := value.ParseNumber(raw); ok {
			return value.Float{Value: f}
		}
		return value.Float{Value: 0}
	case value.Bool:
		b, _ := value.ParseBool(raw)
		return value.Bool{Value: b}
	}
	return value.Str{Value: raw}
}

// adjust adds (or subtracts) the operand to a numeric value, keeping ints
// as ints and floats as floats. An unparseable operand counts as 1.
func adjust(cur value.Value, raw string, subtract bool) (value.Value, bool) {
	switch cur := cur.(type) {
	case value.Int:
		n := parseInt(raw, 1)
		if subtract {
			n = -n
		}
		return value.Int{Value: cur.Value + n}, true
	case value.Float:
		f, ok := value.ParseNumber(raw)
		if !ok {
			f = 1
		}
		if subtract {
			f = -f
		}
		return value.Float{Value: cur.Value + f}, true
	}
	return cur, false
}

// parseInt parses a base-10 integer. Anything else, including a decimal
// such as "2.7", yields fallback.
func parseInt(raw string, fallback int64) int64 {
	if i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return i
	}
	return fallback
}
