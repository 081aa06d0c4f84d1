package value

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected string
	}{
		{"null", Null{}, ""},
		{"int", Int{Value: 42}, "42"},
		{"negative int", Int{Value: -7}, "-7"},
		{"integral float", Float{Value: 3}, "3"},
		{"fractional float", Float{Value: 2.5}, "2.5"},
		{"bool", Bool{Value: true}, "true"},
		{"string", Str{Value: "hi"}, "hi"},
		{"list", List{Items: []Value{Int{Value: 1}, Str{Value: "a"}}}, "[1, a]"},
		{"map", NewMap().With("b", Int{Value: 2}).With("a", Int{Value: 1}), "{b: 2, a: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{4, "4"},
		{-1, "-1"},
		{0.3, "0.3"},
		{1.5, "1.5"},
		{1e15, "1000000000000000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}

	a, b := 0.1, 0.2
	if got := FormatNumber(a + b); got != "0.30000000000000004" {
		t.Errorf("FormatNumber(0.1+0.2) = %q, want %q", got, "0.30000000000000004")
	}
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{"int", Int{Value: 3}, 3, true},
		{"float", Float{Value: 1.5}, 1.5, true},
		{"numeric string", Str{Value: " 12 "}, 12, true},
		{"text", Str{Value: "abc"}, 0, false},
		{"bool", Bool{Value: true}, 0, false},
		{"null", Null{}, 0, false},
		{"nan string", Str{Value: "NaN"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsNumber(tt.v)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("AsNumber() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"nil", nil, false},
		{"null", Null{}, false},
		{"true", Bool{Value: true}, true},
		{"false", Bool{Value: false}, false},
		{"blank string", Str{Value: "  "}, false},
		{"string", Str{Value: "x"}, true},
		{"string false is not blank", Str{Value: "false"}, true},
		{"zero", Int{Value: 0}, false},
		{"non-zero float", Float{Value: 0.1}, true},
		{"empty list", List{}, true},
		{"map", NewMap(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.expected {
				t.Errorf("Truthy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLen(t *testing.T) {
	if got := Len(Str{Value: "héllo"}); got != 5 {
		t.Errorf("Len(string) = %d, want 5", got)
	}
	if got := Len(List{Items: []Value{Null{}, Null{}}}); got != 2 {
		t.Errorf("Len(list) = %d, want 2", got)
	}
	if got := Len(NewMap().With("a", Null{})); got != 1 {
		t.Errorf("Len(map) = %d, want 1", got)
	}
	if got := Len(Int{Value: 1234}); got != 4 {
		t.Errorf("Len(int) = %d, want 4", got)
	}
}

func TestFromGo(t *testing.T) {
	v := FromGo(map[string]any{
		"b":    []any{"x", 2.0, 2.5, true, nil},
		"a":    "s",
		"more": map[string]any{},
	})

	m, ok := v.(Map)
	if !ok {
		t.Fatalf("expected Map, got %T", v)
	}
	if got := m.Keys; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "more" {
		t.Errorf("keys = %v, want sorted [a b more]", got)
	}
	list := m.Entries["b"].(List)
	if _, ok := list.Items[1].(Int); !ok {
		t.Errorf("integral float64 should become Int, got %T", list.Items[1])
	}
	if _, ok := list.Items[2].(Float); !ok {
		t.Errorf("2.5 should stay Float, got %T", list.Items[2])
	}
	if _, ok := list.Items[4].(Null); !ok {
		t.Errorf("nil should become Null, got %T", list.Items[4])
	}
}

func TestMapWith_DoesNotMutate(t *testing.T) {
	base := NewMap().With("a", Int{Value: 1})
	next := base.With("a", Int{Value: 2}).With("b", Int{Value: 3})

	if base.Entries["a"].(Int).Value != 1 || len(base.Keys) != 1 {
		t.Errorf("base mutated: %v", base)
	}
	if next.String() != "{a: 2, b: 3}" {
		t.Errorf("next = %s", next)
	}
}
