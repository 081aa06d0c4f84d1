package evaluator

import (
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/binding"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// Comparison operators, two-character forms first.
var comparisonOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// EvaluateCondition evaluates a boolean guard. A blank guard is true.
//
// Recognized forms, in order: "!x" and "not x", the literals true and false,
// "'item' in path", "left OP right" and finally the truthiness of a path.
func (e *Evaluator) EvaluateCondition(expr string, scope Scope) bool {
	expr = strings.TrimSpace(binding.StripMarker(unwrapMarker(strings.TrimSpace(expr))))
	for enclosed(expr) {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	if expr == "" {
		return true
	}

	if strings.HasPrefix(expr, "!") && !strings.HasPrefix(expr, "!=") {
		return !e.EvaluateCondition(expr[1:], scope)
	}
	if len(expr) > 4 && strings.EqualFold(expr[:4], "not ") {
		return !e.EvaluateCondition(expr[4:], scope)
	}

	switch strings.ToLower(expr) {
	case "true":
		return true
	case "false":
		return false
	}

	if m, ok := binding.ParseMembership(expr); ok {
		v, _ := lookup(m.ListPath, scope)
		return contains(v, m.Item)
	}

	if left, op, right, ok := splitComparison(expr); ok {
		lv, found := lookup(state.StripPrefix(left), scope)
		if !found {
			lv = value.Null{}
		}
		return compare(lv, op, resolveOperand(right, scope))
	}

	v, ok := lookup(expr, scope)
	if !ok {
		return false
	}
	return value.Truthy(v)
}

// enclosed reports whether expr is a single parenthesized group, as in
// "(count > 1)" but not "(a) == (b)".
func enclosed(expr string) bool {
	if len(expr) < 2 || expr[0] != '(' || expr[len(expr)-1] != ')' {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(expr)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// splitComparison finds the first comparison operator outside quotes.
func splitComparison(expr string) (left, op, right string, ok bool) {
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			continue
		}
		for _, candidate := range comparisonOps {
			if strings.HasPrefix(expr[i:], candidate) {
				left = strings.TrimSpace(expr[:i])
				right = strings.TrimSpace(expr[i+len(candidate):])
				if left == "" {
					return "", "", "", false
				}
				return left, candidate, right, true
			}
		}
	}
	return "", "", "", false
}

// resolveOperand resolves the right side of a comparison: boolean literal,
// then a path present in scope, then a number, then a quoted string, else
// the raw token.
func resolveOperand(s string, scope Scope) value.Value {
	switch s {
	case "true":
		return value.Bool{Value: true}
	case "false":
		return value.Bool{Value: false}
	}
	if state.IsPath(s) {
		if v, ok := lookup(s, scope); ok {
			return v
		}
	}
	if n, ok := value.ParseNumber(s); ok {
		return value.Float{Value: n}
	}
	if lit, ok := unquote(s); ok {
		return value.Str{Value: lit}
	}
	return value.Str{Value: s}
}

func compare(l value.Value, op string, r value.Value) bool {
	switch op {
	case "==":
		return looseEquals(l, r)
	case "!=":
		return !looseEquals(l, r)
	}

	ln, lok := value.AsNumber(l)
	rn, rok := value.AsNumber(r)
	if !lok || !rok {
		return false
	}
	switch op {
	case ">":
		return ln > rn
	case ">=":
		return ln >= rn
	case "<":
		return ln < rn
	case "<=":
		return ln <= rn
	}
	return false
}

// looseEquals compares numerically when both sides are numbers, as booleans
// when both are booleans, and by string form otherwise. "0" == false is false.
func looseEquals(l, r value.Value) bool {
	ln, lok := value.AsNumber(l)
	rn, rok := value.AsNumber(r)
	if lok && rok {
		return ln == rn
	}
	lb, lok := value.AsBool(l)
	rb, rok := value.AsBool(r)
	if lok && rok {
		return lb == rb
	}
	return l.String() == r.String()
}

// contains reports membership of item in a list (by string form), among a
// map's keys, or as a substring of a string.
func contains(v value.Value, item string) bool {
	switch v := v.(type) {
	case value.List:
		for _, it := range v.Items {
			if it.String() == item {
				return true
			}
		}
	case value.Map:
		_, ok := v.Entries[item]
		return ok
	case value.Str:
		return strings.Contains(v.Value, item)
	}
	return false
}
