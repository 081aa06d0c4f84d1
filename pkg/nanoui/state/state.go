// Package state holds the live, per-tree NanoUI state map.
//
// Keys are flat dotted paths such as "form.email"; a path is a single key, not
// a walk through nested maps. A Store is created for one rendered tree and
// discarded with it.
package state

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// pathPattern is the grammar of a writable state path.
var pathPattern = regexp.MustCompile(`^[A-Za-z_]\w*(\.[A-Za-z_]\w*)*$`)

// Path is a validated state key.
type Path string

// ParsePath validates s against the path grammar.
func ParsePath(s string) (Path, bool) {
	if !pathPattern.MatchString(s) {
		return "", false
	}
	return Path(s), true
}

// IsPath reports whether s is a plain dotted identifier path.
func IsPath(s string) bool {
	return pathPattern.MatchString(s)
}

// StripPrefix removes an optional leading "state." from an expression.
func StripPrefix(s string) string {
	return strings.TrimPrefix(s, "state.")
}

// Store is the mutable state map of one rendered tree. It is not safe for
// concurrent use; all access happens on the rendering thread.
type Store struct {
	values  map[Path]value.Value
	version uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{values: map[Path]value.Value{}}
}

// Seed creates a store from the root's state declarations.
func Seed(vars []ir.StateVar) (*Store, error) {
	s := New()
	for _, sv := range vars {
		p, ok := ParsePath(sv.Name)
		if !ok {
			return nil, nerrors.New("IR-0004", map[string]any{"Name": sv.Name})
		}
		v, err := defaultValue(sv)
		if err != nil {
			return nil, err
		}
		s.values[p] = v
	}
	return s, nil
}

// defaultValue coerces a declared default to the declared type. A missing or
// unparseable default becomes the type's zero value.
func defaultValue(sv ir.StateVar) (value.Value, error) {
	raw := sv.Default
	if raw == nil {
		raw = ir.Null{}
	}

	switch strings.ToLower(sv.Type) {
	case "int", "integer", "long":
		switch d := raw.(type) {
		case ir.Number:
			return value.Int{Value: int64(d.Value)}, nil
		case ir.String:
			if i, err := strconv.ParseInt(strings.TrimSpace(d.Value), 10, 64); err == nil {
				return value.Int{Value: i}, nil
			}
		}
		return value.Int{}, nil
	case "float", "double", "number":
		switch d := raw.(type) {
		case ir.Number:
			return value.Float{Value: d.Value}, nil
		case ir.String:
			if f, ok := value.ParseNumber(d.Value); ok {
				return value.Float{Value: f}, nil
			}
		}
		return value.Float{}, nil
	case "bool", "boolean":
		switch d := raw.(type) {
		case ir.Bool:
			return value.Bool{Value: d.Value}, nil
		case ir.String:
			b, _ := value.ParseBool(d.Value)
			return value.Bool{Value: b}, nil
		}
		return value.Bool{}, nil
	case "str", "string", "":
		if _, isNull := raw.(ir.Null); isNull {
			return value.Str{}, nil
		}
		return value.Str{Value: raw.String()}, nil
	case "list", "array":
		if arr, ok := raw.(ir.Array); ok {
			return ir.ToValue(arr), nil
		}
		return value.List{Items: []value.Value{}}, nil
	case "map", "object", "dict":
		if obj, ok := raw.(ir.Object); ok {
			return ir.ToValue(obj), nil
		}
		return value.NewMap(), nil
	}
	return nil, nerrors.New("IR-0003", map[string]any{"Type": sv.Type, "Name": sv.Name})
}

// Get returns the value stored at path. A leading "state." is ignored.
func (s *Store) Get(path string) (value.Value, bool) {
	v, ok := s.values[Path(StripPrefix(path))]
	return v, ok
}

// Set stores v at path. Invalid paths are ignored and reported as false.
func (s *Store) Set(path string, v value.Value) bool {
	p, ok := ParsePath(StripPrefix(path))
	if !ok {
		return false
	}
	s.values[p] = v
	s.version++
	return true
}

// Delete removes path from the store.
func (s *Store) Delete(path string) {
	p := Path(StripPrefix(path))
	if _, ok := s.values[p]; ok {
		delete(s.values, p)
		s.version++
	}
}

// Version increases with every mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.values)
}

// Keys returns the stored paths in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the state as a plain map, suitable as an
// evaluation scope.
func (s *Store) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(s.values))
	for k, v := range s.values {
		out[string(k)] = v
	}
	return out
}
