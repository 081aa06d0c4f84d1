package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
)

// LoadFile reads an IR document from a .json, .yaml or .yml file.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nerrors.Wrap("IR-0007", err, nil).WithFile(path)
	}

	var node *Node
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		node, err = Decode(data)
	case ".yaml", ".yml":
		node, err = DecodeYAML(data)
	default:
		return nil, nerrors.New("IR-0005", map[string]any{"Ext": ext}).WithFile(path)
	}
	if err != nil {
		if ne, ok := err.(*nerrors.NanoError); ok {
			return nil, ne.WithFile(path)
		}
		return nil, err
	}
	return node, nil
}

// Decode parses a JSON IR document.
func Decode(data []byte) (*Node, error) {
	p, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return NodeFromProp(p, "root")
}

// DecodeYAML parses a YAML IR document.
func DecodeYAML(data []byte) (*Node, error) {
	p, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return NodeFromProp(p, "root")
}

// ParseJSON parses JSON text into a Prop, keeping object keys in order.
func ParseJSON(data []byte) (Prop, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p, err := readJSON(dec)
	if err != nil {
		return nil, nerrors.Wrap("IR-0001", err, nil)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nerrors.New("IR-0001", map[string]any{"Reason": "trailing data after document"})
	}
	return p, nil
}

func readJSON(dec *json.Decoder) (Prop, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			obj := Object{Fields: map[string]Prop{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				val, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{Items: []Prop{}}
			for dec.More() {
				val, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				arr.Items = append(arr.Items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)
	case string:
		return String{Value: tok}, nil
	case json.Number:
		f, err := tok.Float64()
		if err != nil {
			return nil, err
		}
		return Number{Value: f, Raw: tok.String()}, nil
	case bool:
		return Bool{Value: tok}, nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML parses a YAML document into a Prop, keeping mapping keys in order.
func ParseYAML(data []byte) (Prop, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nerrors.Wrap("IR-0001", err, nil)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nerrors.New("IR-0001", map[string]any{"Reason": "empty document"})
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(n *yaml.Node) (Prop, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		obj := Object{Fields: map[string]Prop{}}
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := Array{Items: []Prop{}}
		for _, c := range n.Content {
			val, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, nerrors.Wrap("IR-0001", err, nil)
			}
			return Bool{Value: b}, nil
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				var decoded float64
				if derr := n.Decode(&decoded); derr != nil {
					return nil, nerrors.Wrap("IR-0001", derr, nil)
				}
				return Number{Value: decoded}, nil
			}
			return Number{Value: f, Raw: n.Value}, nil
		}
		return String{Value: n.Value}, nil
	}
	return nil, nerrors.New("IR-0001", map[string]any{"Reason": fmt.Sprintf("unsupported YAML node at line %d", n.Line)})
}

// NodeFromProp builds a Node from a decoded object. where names the location
// for error messages.
func NodeFromProp(p Prop, where string) (*Node, error) {
	obj, ok := p.(Object)
	if !ok {
		return nil, nerrors.New("IR-0002", map[string]any{"Expected": "an object", "Got": string(p.Kind())}).WithPath(where)
	}

	node := &Node{}

	typ, _ := obj.GetString("type")
	if typ == "" {
		typ, _ = obj.GetString("component")
	}
	if typ == "" {
		return nil, nerrors.New("IR-0006", nil).WithPath(where)
	}
	node.Type = typ

	if raw, ok := obj.Get("props"); ok {
		props, ok := raw.(Object)
		if !ok {
			return nil, nerrors.New("IR-0002", map[string]any{"Expected": "props object", "Got": string(raw.Kind())}).WithPath(where + ".props")
		}
		node.Props = props
	}

	if raw, ok := obj.Get("bindings"); ok {
		bindings, err := decodeBindings(raw, where+".bindings")
		if err != nil {
			return nil, err
		}
		node.Bindings = bindings
	}

	if raw, ok := obj.Get("actions"); ok {
		actions, ok := raw.(Object)
		if !ok {
			return nil, nerrors.New("IR-0002", map[string]any{"Expected": "actions object", "Got": string(raw.Kind())}).WithPath(where + ".actions")
		}
		node.Actions = make(map[string]Prop, len(actions.Keys))
		for _, k := range actions.Keys {
			node.Actions[k] = actions.Fields[k]
		}
	}

	if raw, ok := obj.Get("children"); ok {
		children, ok := raw.(Array)
		if !ok {
			return nil, nerrors.New("IR-0002", map[string]any{"Expected": "children array", "Got": string(raw.Kind())}).WithPath(where + ".children")
		}
		for i, c := range children.Items {
			child, err := NodeFromProp(c, fmt.Sprintf("%s.children[%d]", where, i))
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}

	if raw, ok := obj.Get("state"); ok {
		vars, err := decodeState(raw, where+".state")
		if err != nil {
			return nil, err
		}
		node.State = vars
	}

	return node, nil
}

func decodeBindings(raw Prop, where string) (map[string]Binding, error) {
	obj, ok := raw.(Object)
	if !ok {
		return nil, nerrors.New("IR-0002", map[string]any{"Expected": "bindings object", "Got": string(raw.Kind())}).WithPath(where)
	}

	bindings := make(map[string]Binding, len(obj.Keys))
	for _, k := range obj.Keys {
		switch b := obj.Fields[k].(type) {
		case String:
			bindings[k] = ParseBinding(b.Value)
		case Object:
			expr, _ := b.GetString("expression")
			if expr == "" {
				expr, _ = b.GetString("expr")
			}
			binding := ParseBinding(expr)
			if mode, ok := b.GetString("mode"); ok {
				switch mode {
				case "subscribe", "<<":
					binding.Mode = ModeSubscribe
				case "twoWay", "two-way", "assign", ":=":
					binding.Mode = ModeTwoWay
				}
			}
			bindings[k] = binding
		default:
			return nil, nerrors.New("IR-0002", map[string]any{"Expected": "binding string or object", "Got": string(b.Kind())}).WithPath(where + "." + k)
		}
	}
	return bindings, nil
}

// DecodeState reads a state block: either {name: {type, defaultValue}} or the
// {name: default} shorthand, optionally nested under "variables".
func DecodeState(raw Prop) ([]StateVar, error) {
	return decodeState(raw, "state")
}

func decodeState(raw Prop, where string) ([]StateVar, error) {
	obj, ok := raw.(Object)
	if !ok {
		return nil, nerrors.New("IR-0002", map[string]any{"Expected": "state object", "Got": string(raw.Kind())}).WithPath(where)
	}
	if inner, ok := obj.Get("variables"); ok {
		if innerObj, ok := inner.(Object); ok {
			obj = innerObj
			where += ".variables"
		}
	}

	vars := make([]StateVar, 0, len(obj.Keys))
	for _, name := range obj.Keys {
		decl := obj.Fields[name]
		sv := StateVar{Name: name}

		if spec, ok := decl.(Object); ok {
			if _, hasType := spec.Get("type"); hasType {
				sv.Type, _ = spec.GetString("type")
				sv.Default, ok = spec.Get("defaultValue")
				if !ok {
					sv.Default, ok = spec.Get("default")
				}
				if !ok {
					sv.Default = Null{}
				}
				vars = append(vars, sv)
				continue
			}
		}

		// Shorthand: "count": 0 declares an int with that default.
		sv.Type = inferType(decl)
		sv.Default = decl
		vars = append(vars, sv)
	}
	return vars, nil
}

func inferType(p Prop) string {
	switch p := p.(type) {
	case Bool:
		return "bool"
	case Number:
		if p.Raw != "" && !strings.ContainsAny(p.Raw, ".eE") {
			return "int"
		}
		if p.Value == float64(int64(p.Value)) && p.Raw == "" {
			return "int"
		}
		return "float"
	case Array:
		return "list"
	case Object:
		return "map"
	}
	return "str"
}
