// Package binding works out which state path a control reads from and writes
// to.
//
// A prop can be bound explicitly through the node's bindings map, or carry an
// expression string directly as its literal value. Either form may start with
// a mode marker: "<<" subscribes to a value, ":=" binds it two ways.
package binding

import (
	"regexp"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
)

// Membership is a decomposed `"item" in state.list` expression.
type Membership struct {
	Item     string
	ListPath string
}

// membershipPattern matches a single- or double-quoted literal followed by
// `in` and a dotted path.
var membershipPattern = regexp.MustCompile(
	`^(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s+in\s+(?:state\.)?([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)$`)

// ResolveStatePath returns the writable state path behind the first candidate
// key whose expression is a plain dotted path. Expressions with operators or
// membership tests are never paths.
func ResolveStatePath(node *ir.Node, keys ...string) (string, bool) {
	for _, key := range keys {
		expr, ok := expressionFor(node, key)
		if !ok {
			continue
		}
		path := state.StripPrefix(StripMarker(expr))
		if state.IsPath(path) {
			return path, true
		}
	}
	return "", false
}

// Expression returns the binding expression for the first candidate key that
// has one, with its mode marker removed.
func Expression(node *ir.Node, keys ...string) (string, bool) {
	for _, key := range keys {
		if expr, ok := expressionFor(node, key); ok {
			return StripMarker(expr), true
		}
	}
	return "", false
}

func expressionFor(node *ir.Node, key string) (string, bool) {
	if b, ok := node.Binding(key); ok && strings.TrimSpace(b.Expression) != "" {
		return b.Expression, true
	}
	if s, ok := node.PropString(key); ok && LooksLikeExpression(s) {
		return s, true
	}
	return "", false
}

// LooksLikeExpression reports whether a literal prop string is really a
// binding: it carries a mode marker or refers to state directly.
func LooksLikeExpression(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, ":=") ||
		strings.HasPrefix(s, "<<") ||
		strings.HasPrefix(s, "state.")
}

// StripMarker removes a leading ":=" or "<<" and surrounding whitespace.
func StripMarker(expr string) string {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, ":="); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(expr, "<<"); ok {
		return strings.TrimSpace(rest)
	}
	return expr
}

// ParseMembership decomposes `"item" in state.path` (single or double quotes).
func ParseMembership(expr string) (Membership, bool) {
	stripped := StripMarker(expr)
	m := membershipPattern.FindStringSubmatch(stripped)
	if m == nil {
		return Membership{}, false
	}

	quote := stripped[:1]
	item := m[1]
	if quote == "'" {
		item = m[2]
	}
	item = strings.ReplaceAll(item, `\`+quote, quote)
	item = strings.ReplaceAll(item, `\\`, `\`)

	return Membership{Item: item, ListPath: m[3]}, true
}
