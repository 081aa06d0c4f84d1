package state

import (
	"testing"

	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"count", true},
		{"form.email", true},
		{"_private.a1", true},
		{"a.b.c", true},
		{"1abc", false},
		{"a..b", false},
		{"a.", false},
		{`"x" in state.items`, false},
		{"count + 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, ok := ParsePath(tt.in); ok != tt.want {
				t.Errorf("ParsePath(%q) ok = %v, want %v", tt.in, ok, tt.want)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	vars := []ir.StateVar{
		{Name: "count", Type: "int", Default: ir.Number{Value: 3, Raw: "3"}},
		{Name: "ratio", Type: "float", Default: ir.String{Value: "0.5"}},
		{Name: "enabled", Type: "bool", Default: ir.String{Value: "TRUE"}},
		{Name: "title", Type: "str", Default: ir.Number{Value: 7, Raw: "7"}},
		{Name: "empty", Type: "str", Default: ir.Null{}},
		{Name: "missing", Type: "int"},
		{Name: "tags", Type: "list", Default: ir.Array{Items: []ir.Prop{ir.String{Value: "a"}}}},
		{Name: "meta", Type: "map"},
	}

	s, err := Seed(vars)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	tests := []struct {
		path string
		want value.Value
	}{
		{"count", value.Int{Value: 3}},
		{"ratio", value.Float{Value: 0.5}},
		{"enabled", value.Bool{Value: true}},
		{"title", value.Str{Value: "7"}},
		{"empty", value.Str{}},
		{"missing", value.Int{}},
	}
	for _, tt := range tests {
		got, ok := s.Get(tt.path)
		if !ok || got != tt.want {
			t.Errorf("Get(%q) = %#v, want %#v", tt.path, got, tt.want)
		}
	}

	if tags, _ := s.Get("tags"); tags.String() != "[a]" {
		t.Errorf("tags = %s", tags)
	}
	if meta, _ := s.Get("meta"); meta.Kind() != value.MAP {
		t.Errorf("meta kind = %s", meta.Kind())
	}
}

func TestSeed_Errors(t *testing.T) {
	_, err := Seed([]ir.StateVar{{Name: "due", Type: "date"}})
	if ne, ok := err.(*nerrors.NanoError); !ok || ne.Code != "IR-0003" {
		t.Errorf("expected IR-0003, got %v", err)
	}

	_, err = Seed([]ir.StateVar{{Name: "bad name", Type: "int"}})
	if ne, ok := err.(*nerrors.NanoError); !ok || ne.Code != "IR-0004" {
		t.Errorf("expected IR-0004, got %v", err)
	}
}

func TestStore_GetSet(t *testing.T) {
	s := New()

	if !s.Set("state.user.name", value.Str{Value: "Ada"}) {
		t.Fatal("Set with state. prefix should succeed")
	}
	if got, ok := s.Get("user.name"); !ok || got.String() != "Ada" {
		t.Errorf("Get = %v, %v", got, ok)
	}
	if got, ok := s.Get("state.user.name"); !ok || got.String() != "Ada" {
		t.Errorf("Get with prefix = %v, %v", got, ok)
	}
	if s.Set("not a path", value.Int{}) {
		t.Error("Set should reject invalid paths")
	}
	if s.Version() != 1 {
		t.Errorf("Version = %d, want 1", s.Version())
	}

	s.Delete("user.name")
	if _, ok := s.Get("user.name"); ok {
		t.Error("expected key deleted")
	}
	if s.Version() != 2 {
		t.Errorf("Version = %d, want 2", s.Version())
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := New()
	s.Set("b", value.Int{Value: 1})
	s.Set("a", value.Int{Value: 2})

	snap := s.Snapshot()
	snap["c"] = value.Int{}

	if s.Len() != 2 {
		t.Errorf("store changed through snapshot, Len = %d", s.Len())
	}
	if keys := s.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Errorf("Keys = %v", keys)
	}
}
