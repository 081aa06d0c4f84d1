package ir

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// PropKind identifies the variant of a Prop.
type PropKind string

const (
	NULL_PROP   PropKind = "null"
	BOOL_PROP   PropKind = "bool"
	NUMBER_PROP PropKind = "number"
	STRING_PROP PropKind = "string"
	ARRAY_PROP  PropKind = "array"
	OBJECT_PROP PropKind = "object"
)

// Prop is a JSON-like value embedded in the IR. The set of implementations is
// closed; switch on the concrete type.
type Prop interface {
	Kind() PropKind
	// String returns the display form: the text of a string, a normalized
	// number, or compact JSON for arrays and objects.
	String() string
	sealed()
}

type Null struct{}

func (Null) Kind() PropKind { return NULL_PROP }
func (Null) String() string { return "" }
func (Null) sealed()        {}

type Bool struct {
	Value bool
}

func (b Bool) Kind() PropKind { return BOOL_PROP }
func (b Bool) String() string { return strconv.FormatBool(b.Value) }
func (Bool) sealed()          {}

// Number keeps the literal text it was decoded from in Raw, when known.
type Number struct {
	Value float64
	Raw   string
}

func (n Number) Kind() PropKind { return NUMBER_PROP }
func (n Number) String() string { return value.FormatNumber(n.Value) }
func (Number) sealed()          {}

type String struct {
	Value string
}

func (s String) Kind() PropKind { return STRING_PROP }
func (s String) String() string { return s.Value }
func (String) sealed()          {}

type Array struct {
	Items []Prop
}

func (a Array) Kind() PropKind { return ARRAY_PROP }
func (a Array) String() string { return ToJSON(a) }
func (Array) sealed()          {}

// Object keeps keys in document order.
type Object struct {
	Keys   []string
	Fields map[string]Prop
}

func (o Object) Kind() PropKind { return OBJECT_PROP }
func (o Object) String() string { return ToJSON(o) }
func (Object) sealed()          {}

// Get returns the field named key.
func (o Object) Get(key string) (Prop, bool) {
	if o.Fields == nil {
		return nil, false
	}
	p, ok := o.Fields[key]
	return p, ok
}

// GetString returns the field named key when it is a string.
func (o Object) GetString(key string) (string, bool) {
	p, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := p.(String)
	return s.Value, ok
}

// Set adds or replaces a field, keeping the original position of existing keys.
func (o *Object) Set(key string, p Prop) {
	if o.Fields == nil {
		o.Fields = map[string]Prop{}
	}
	if _, exists := o.Fields[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Fields[key] = p
}

// ToJSON renders p as compact JSON, preserving object key order.
func ToJSON(p Prop) string {
	var sb strings.Builder
	writeJSON(&sb, p)
	return sb.String()
}

func writeJSON(sb *strings.Builder, p Prop) {
	switch p := p.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(p.Value))
	case Number:
		if p.Raw != "" {
			sb.WriteString(p.Raw)
		} else {
			sb.WriteString(value.FormatNumber(p.Value))
		}
	case String:
		b, _ := json.Marshal(p.Value)
		sb.Write(b)
	case Array:
		sb.WriteByte('[')
		for i, item := range p.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, item)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, k := range p.Keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			sb.Write(b)
			sb.WriteByte(':')
			writeJSON(sb, p.Fields[k])
		}
		sb.WriteByte('}')
	}
}

// ToValue converts an IR prop into a runtime value. Integral numbers become
// Int, other numbers Float.
func ToValue(p Prop) value.Value {
	switch p := p.(type) {
	case nil, Null:
		return value.Null{}
	case Bool:
		return value.Bool{Value: p.Value}
	case Number:
		if p.Raw != "" && !strings.ContainsAny(p.Raw, ".eE") {
			if i, err := strconv.ParseInt(p.Raw, 10, 64); err == nil {
				return value.Int{Value: i}
			}
		}
		return value.FromGo(p.Value)
	case String:
		return value.Str{Value: p.Value}
	case Array:
		items := make([]value.Value, len(p.Items))
		for i, item := range p.Items {
			items[i] = ToValue(item)
		}
		return value.List{Items: items}
	case Object:
		m := value.NewMap()
		for _, k := range p.Keys {
			m = m.With(k, ToValue(p.Fields[k]))
		}
		return m
	}
	return value.Null{}
}
