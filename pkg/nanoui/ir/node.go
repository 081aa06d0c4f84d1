// Package ir models the NanoUI intermediate representation: a tree of
// component descriptors with props, bindings, actions and, on the root, the
// declared state variables.
package ir

import "strings"

// BindingMode says how a control relates to the state path it names.
type BindingMode string

const (
	ModeLiteral   BindingMode = ""
	ModeSubscribe BindingMode = "subscribe" // "<<" read-only subscription
	ModeTwoWay    BindingMode = "twoWay"    // ":=" assign-capable binding
)

// Binding associates a prop with an expression over the state map.
type Binding struct {
	Mode       BindingMode
	Expression string
}

// ParseBinding reads the mode marker from a binding string. The expression is
// kept verbatim, marker included.
func ParseBinding(s string) Binding {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(trimmed, ":="):
		return Binding{Mode: ModeTwoWay, Expression: s}
	case strings.HasPrefix(trimmed, "<<"):
		return Binding{Mode: ModeSubscribe, Expression: s}
	}
	return Binding{Mode: ModeLiteral, Expression: s}
}

// StateVar is a declared state variable with its typed default.
type StateVar struct {
	Name    string
	Type    string // int, float, bool, str, list or map
	Default Prop
}

// Node is one component in the IR tree.
type Node struct {
	Type     string
	Props    Object
	Bindings map[string]Binding
	Actions  map[string]Prop // event name -> action descriptor
	Children []*Node
	State    []StateVar // only meaningful on the root
}

// Prop returns the literal prop named name.
func (n *Node) Prop(name string) (Prop, bool) {
	if n == nil {
		return nil, false
	}
	return n.Props.Get(name)
}

// PropString returns the prop named name when it is a string.
func (n *Node) PropString(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	return n.Props.GetString(name)
}

// Binding returns the explicit binding declared for prop name.
func (n *Node) Binding(name string) (Binding, bool) {
	if n == nil || n.Bindings == nil {
		return Binding{}, false
	}
	b, ok := n.Bindings[name]
	return b, ok
}

// Walk calls fn for n and each descendant in depth-first order until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
