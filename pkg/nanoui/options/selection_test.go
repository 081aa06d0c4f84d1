package options

import (
	"testing"

	"github.com/sambeau/nanoui/pkg/nanoui/action"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

func decodeNode(t *testing.T, src string) *ir.Node {
	t.Helper()
	n, err := ir.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return n
}

func TestSelection_BoundScenario(t *testing.T) {
	node := decodeNode(t, `{
		"type": "Select",
		"props": {"options": "[{\"value\":\"a\",\"label\":\"Apple\"},{\"value\":\"b\",\"label\":\"Banana\"}]"},
		"bindings": {"value": ":= state.fruit"}
	}`)

	raw, _ := node.Prop("options")
	opts := Parse(raw)
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2", len(opts))
	}

	store := state.New()
	sel := SelectionFor(node)
	if !sel.Bound() || sel.Path != "fruit" {
		t.Fatalf("selection path = %q, want fruit", sel.Path)
	}
	if got := sel.Current(store); got != "" {
		t.Errorf("nothing selected yet, got %q", got)
	}

	a, ok := sel.Choose("b")
	if !ok {
		t.Fatal("bound selection should produce an action")
	}
	action.Apply(a, store)

	if got := sel.Current(store); got != "b" {
		t.Errorf("Current = %q, want b", got)
	}
	if got := sel.Label(store, opts); got != "Banana" {
		t.Errorf("Label = %q, want Banana", got)
	}
}

func TestSelection_Uncontrolled(t *testing.T) {
	node := decodeNode(t, `{"type": "RadioGroup", "props": {"defaultValue": "small", "options": ["small", "large"]}}`)
	sel := SelectionFor(node)
	if sel.Bound() {
		t.Fatalf("selection should be uncontrolled, path %q", sel.Path)
	}
	if got := sel.Current(nil); got != "small" {
		t.Errorf("seeded value = %q, want small", got)
	}
	if _, ok := sel.Choose("large"); ok {
		t.Error("uncontrolled selection should not produce an action")
	}
	if got := sel.Current(nil); got != "large" {
		t.Errorf("after Choose = %q, want large", got)
	}
}

func TestSelection_LiteralExpressionProp(t *testing.T) {
	node := decodeNode(t, `{"type": "Select", "props": {"value": "<< state.size"}}`)
	sel := SelectionFor(node)
	if sel.Path != "size" {
		t.Fatalf("path = %q, want size", sel.Path)
	}

	store := state.New()
	store.Set("size", value.Str{Value: "legacy-xl"})
	if got := sel.Label(store, ParseString(`[s, m, l]`)); got != "legacy-xl" {
		t.Errorf("free-form value label = %q", got)
	}
}

func TestSelection_Empty(t *testing.T) {
	node := decodeNode(t, `{"type": "Select"}`)
	sel := SelectionFor(node)
	if sel.Bound() || sel.Current(state.New()) != "" {
		t.Errorf("empty select should have nothing selected: %+v", sel)
	}
}
