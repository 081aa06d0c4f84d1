// Package value defines the closed set of runtime values a NanoUI state map
// can hold.
package value

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind string

const (
	NULL  Kind = "NULL"
	INT   Kind = "INT"
	FLOAT Kind = "FLOAT"
	BOOL  Kind = "BOOL"
	STR   Kind = "STR"
	LIST  Kind = "LIST"
	MAP   Kind = "MAP"
)

// Value is implemented only by the types in this package.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind     { return NULL }
func (Null) String() string { return "" }
func (Null) sealed()        {}

// Int is a 64-bit integer.
type Int struct {
	Value int64
}

func (i Int) Kind() Kind     { return INT }
func (i Int) String() string { return strconv.FormatInt(i.Value, 10) }
func (Int) sealed()          {}

// Float is a 64-bit floating-point number.
type Float struct {
	Value float64
}

func (f Float) Kind() Kind     { return FLOAT }
func (f Float) String() string { return FormatNumber(f.Value) }
func (Float) sealed()          {}

// Bool is a boolean.
type Bool struct {
	Value bool
}

func (b Bool) Kind() Kind     { return BOOL }
func (b Bool) String() string { return strconv.FormatBool(b.Value) }
func (Bool) sealed()          {}

// Str is a string.
type Str struct {
	Value string
}

func (s Str) Kind() Kind     { return STR }
func (s Str) String() string { return s.Value }
func (Str) sealed()          {}

// List is an ordered list of values.
type List struct {
	Items []Value
}

func (l List) Kind() Kind { return LIST }
func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (List) sealed() {}

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	Keys    []string
	Entries map[string]Value
}

// NewMap returns an empty Map.
func NewMap() Map {
	return Map{Entries: map[string]Value{}}
}

func (m Map) Kind() Kind { return MAP }
func (m Map) String() string {
	parts := make([]string, 0, len(m.Keys))
	for _, k := range m.Keys {
		parts = append(parts, k+": "+m.Entries[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (Map) sealed() {}

// Get returns the entry for key.
func (m Map) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// With returns a copy of m with key set to v. Existing keys keep their position.
func (m Map) With(key string, v Value) Map {
	out := Map{
		Keys:    make([]string, len(m.Keys), len(m.Keys)+1),
		Entries: make(map[string]Value, len(m.Entries)+1),
	}
	copy(out.Keys, m.Keys)
	for k, e := range m.Entries {
		out.Entries[k] = e
	}
	if _, exists := out.Entries[key]; !exists {
		out.Keys = append(out.Keys, key)
	}
	out.Entries[key] = v
	return out
}

// FormatNumber renders f without a trailing ".0" when it is integral.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// numberPattern matches plain decimal literals; hex floats, "Inf" and
// digit separators accepted by strconv are rejected.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses a decimal number literal. Surrounding whitespace is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsNumber interprets v as a number: ints and floats directly, strings when
// they hold a numeric literal.
func AsNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v.Value), true
	case Float:
		return v.Value, true
	case Str:
		return ParseNumber(v.Value)
	default:
		return 0, false
	}
}

// AsBool interprets v as a boolean: booleans directly, strings when they are
// "true" or "false" in any case.
func AsBool(v Value) (bool, bool) {
	switch v := v.(type) {
	case Bool:
		return v.Value, true
	case Str:
		return ParseBool(v.Value)
	default:
		return false, false
	}
}

// ParseBool accepts "true" and "false" in any case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Truthy reports whether v counts as true in a condition. Strings are true
// when not blank, numbers when non-zero, lists and maps always.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return v.Value
	case Str:
		return strings.TrimSpace(v.Value) != ""
	case Int:
		return v.Value != 0
	case Float:
		return v.Value != 0
	case List, Map:
		return true
	}
	return false
}

// Len returns the number of characters, elements or entries in v.
func Len(v Value) int {
	switch v := v.(type) {
	case List:
		return len(v.Items)
	case Map:
		return len(v.Keys)
	case Str:
		return len([]rune(v.Value))
	case nil, Null:
		return 0
	default:
		return len([]rune(v.String()))
	}
}

// FromGo converts decoded JSON/YAML data into a Value. Go maps carry no
// key order, so a map[string]any becomes a Map with sorted keys.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool{Value: x}
	case int:
		return Int{Value: int64(x)}
	case int64:
		return Int{Value: x}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return Int{Value: int64(x)}
		}
		return Float{Value: x}
	case string:
		return Str{Value: x}
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromGo(e)
		}
		return List{Items: items}
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(x) {
			m = m.With(k, FromGo(x[k]))
		}
		return m
	case Value:
		return x
	}
	return Null{}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
