package binding

import (
	"testing"

	"github.com/sambeau/nanoui/pkg/nanoui/ir"
)

func node(props map[string]string, bindings map[string]string) *ir.Node {
	n := &ir.Node{Type: "Test"}
	for k, v := range props {
		n.Props.Set(k, ir.String{Value: v})
	}
	if bindings != nil {
		n.Bindings = map[string]ir.Binding{}
		for k, v := range bindings {
			n.Bindings[k] = ir.ParseBinding(v)
		}
	}
	return n
}

func TestResolveStatePath(t *testing.T) {
	tests := []struct {
		name     string
		node     *ir.Node
		keys     []string
		expected string
		ok       bool
	}{
		{
			name:     "two-way binding",
			node:     node(nil, map[string]string{"value": ":= state.form.email"}),
			keys:     []string{"value"},
			expected: "form.email",
			ok:       true,
		},
		{
			name:     "subscribe binding without state prefix",
			node:     node(nil, map[string]string{"value": "<< count"}),
			keys:     []string{"value"},
			expected: "count",
			ok:       true,
		},
		{
			name:     "literal prop expression",
			node:     node(map[string]string{"value": "state.name"}, nil),
			keys:     []string{"value"},
			expected: "name",
			ok:       true,
		},
		{
			name: "plain literal prop is not a path",
			node: node(map[string]string{"value": "hello"}, nil),
			keys: []string{"value"},
		},
		{
			name: "membership expression is rejected",
			node: node(nil, map[string]string{"checked": `"x" in state.items`}),
			keys: []string{"checked"},
		},
		{
			name: "arithmetic is rejected",
			node: node(nil, map[string]string{"value": "state.count + 1"}),
			keys: []string{"value"},
		},
		{
			name:     "binding wins over literal",
			node:     node(map[string]string{"value": "state.literal"}, map[string]string{"value": "state.bound"}),
			keys:     []string{"value"},
			expected: "bound",
			ok:       true,
		},
		{
			name:     "falls through candidate keys",
			node:     node(map[string]string{"bind": ":=selected"}, map[string]string{"checked": `"x" in state.items`}),
			keys:     []string{"value", "checked", "bind"},
			expected: "selected",
			ok:       true,
		},
		{
			name: "no keys match",
			node: node(nil, nil),
			keys: []string{"value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveStatePath(tt.node, tt.keys...)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ResolveStatePath() = (%q, %v), want (%q, %v)", got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestResolveStatePath_NilNode(t *testing.T) {
	if _, ok := ResolveStatePath(nil, "value"); ok {
		t.Error("nil node should not resolve")
	}
}

func TestParseMembership(t *testing.T) {
	tests := []struct {
		in       string
		item     string
		listPath string
		ok       bool
	}{
		{`"x" in state.items`, "x", "items", true},
		{`'urgent' in state.task.tags`, "urgent", "task.tags", true},
		{`<< "a b" in state.list`, "a b", "list", true},
		{`"say \"hi\"" in state.msgs`, `say "hi"`, "msgs", true},
		{`"" in state.items`, "", "items", true},
		{`"x" in items`, "x", "items", true},
		{`x in state.items`, "", "", false},
		{`"x" in state.items + 1`, "", "", false},
		{`state.items`, "", "", false},
		{`"x" in`, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := ParseMembership(tt.in)
			if ok != tt.ok || m.Item != tt.item || m.ListPath != tt.listPath {
				t.Errorf("ParseMembership(%q) = (%+v, %v), want (%q, %q, %v)", tt.in, m, ok, tt.item, tt.listPath, tt.ok)
			}
		})
	}
}

func TestPathAndMembershipDisagree(t *testing.T) {
	n := node(nil, map[string]string{"checked": `"x" in state.items`})

	if _, ok := ResolveStatePath(n, "checked"); ok {
		t.Error("membership binding must not resolve to a writable path")
	}
	expr, _ := Expression(n, "checked")
	m, ok := ParseMembership(expr)
	if !ok || m.Item != "x" || m.ListPath != "items" {
		t.Errorf("ParseMembership = (%+v, %v)", m, ok)
	}
}

func TestStripMarker(t *testing.T) {
	tests := map[string]string{
		":= state.x":  "state.x",
		"  <<count  ": "count",
		"plain":       "plain",
	}
	for in, want := range tests {
		if got := StripMarker(in); got != want {
			t.Errorf("StripMarker(%q) = %q, want %q", in, got, want)
		}
	}
}
