// Package view resolves an IR tree against live state into display-ready
// nodes: visibility, interpolated text, bound values, option lists, numbers
// for progress controls, formatted table cells and ready-to-dispatch actions.
//
// It is the contract with a visual renderer, which draws view.Node values and
// dispatches the actions they return. Resolution never fails; bad
// expressions or descriptors degrade to empty values and are logged.
package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/action"
	"github.com/sambeau/nanoui/pkg/nanoui/binding"
	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
	"github.com/sambeau/nanoui/pkg/nanoui/format"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/options"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// TextProps are the props interpolated as display text.
var TextProps = []string{"content", "text", "label", "title", "placeholder", "alt", "src"}

// Context carries what resolution reads from.
type Context struct {
	Store  *state.Store
	Eval   *evaluator.Evaluator
	Logger evaluator.Logger
}

// Node is a resolved IR node.
type Node struct {
	Type    string            `json:"type"`
	ID      string            `json:"id,omitempty"`
	Visible bool              `json:"visible"`
	Text    map[string]string `json:"text,omitempty"`

	StatePath string `json:"statePath,omitempty"`
	Value     string `json:"value,omitempty"`
	Checked   bool   `json:"checked,omitempty"`

	Options       []options.Option `json:"options,omitempty"`
	Selected      string           `json:"selected,omitempty"`
	SelectedLabel string           `json:"selectedLabel,omitempty"`

	Number    float64 `json:"number,omitempty"`
	HasNumber bool    `json:"hasNumber,omitempty"`
	Min       float64 `json:"min,omitempty"`
	Max       float64 `json:"max,omitempty"`

	Columns []options.Option `json:"columns,omitempty"`
	Rows    [][]string       `json:"rows,omitempty"`

	Actions  map[string]action.Action `json:"-"`
	Children []*Node                  `json:"children,omitempty"`

	source     *ir.Node
	ctx        *Context
	membership *binding.Membership
	selection  *options.Selection
}

// Resolve resolves node and its visible descendants.
func Resolve(node *ir.Node, ctx *Context) *Node {
	if ctx.Eval == nil {
		ctx.Eval = evaluator.Default
	}
	if ctx.Store == nil {
		ctx.Store = state.New()
	}
	scope := evaluator.Scope(ctx.Store.Snapshot())
	return resolve(node, ctx, scope)
}

func resolve(node *ir.Node, ctx *Context, scope evaluator.Scope) *Node {
	out := &Node{
		Type:    node.Type,
		Visible: visible(node, ctx, scope),
		source:  node,
		ctx:     ctx,
	}
	out.ID, _ = node.PropString("id")
	if !out.Visible {
		return out
	}

	out.Text = resolveText(node, ctx, scope)
	out.StatePath, _ = binding.ResolveStatePath(node, "value", "checked", "bind")
	out.Value = resolveValue(node, out.StatePath, ctx, scope)
	out.Checked = resolveChecked(node, out, ctx, scope)

	switch node.Type {
	case "Select", "RadioGroup", "Dropdown":
		out.Options = resolveOptions(node, ctx)
		out.selection = options.SelectionFor(node)
		out.Selected = out.selection.Current(ctx.Store)
		out.SelectedLabel = options.Label(out.Options, out.Selected)
		out.StatePath = out.selection.Path
	case "Progress", "Slider":
		out.Min, out.Max = 0, 100
		if expr, ok := expressionOrLiteral(node, "value"); ok {
			out.Number, out.HasNumber = ctx.Eval.EvaluateNumberOrNull(expr, scope)
		}
		if expr, ok := expressionOrLiteral(node, "max"); ok {
			if n, ok := ctx.Eval.EvaluateNumberOrNull(expr, scope); ok {
				out.Max = n
			}
		}
		if expr, ok := expressionOrLiteral(node, "min"); ok {
			if n, ok := ctx.Eval.EvaluateNumberOrNull(expr, scope); ok {
				out.Min = n
			}
		}
	case "Table", "DataTable":
		out.Columns, out.Rows = resolveTable(node, ctx)
	}

	out.Actions = resolveActions(node, ctx, scope, nil)

	for _, child := range node.Children {
		out.Children = append(out.Children, resolve(child, ctx, scope))
	}
	return out
}

func visible(node *ir.Node, ctx *Context, scope evaluator.Scope) bool {
	for _, key := range []string{"visible", "if"} {
		if b, ok := node.Binding(key); ok {
			return ctx.Eval.EvaluateCondition(b.Expression, scope)
		}
		p, ok := node.Prop(key)
		if !ok {
			continue
		}
		switch p := p.(type) {
		case ir.Bool:
			return p.Value
		case ir.String:
			return ctx.Eval.EvaluateCondition(p.Value, scope)
		case ir.Null:
			return true
		}
		return value.Truthy(ir.ToValue(p))
	}
	return true
}

func resolveText(node *ir.Node, ctx *Context, scope evaluator.Scope) map[string]string {
	text := map[string]string{}
	for _, key := range TextProps {
		if b, ok := node.Binding(key); ok {
			text[key] = ctx.Eval.Evaluate(binding.StripMarker(b.Expression), ctx.Eval.WithBuiltins(scope))
			continue
		}
		p, ok := node.Prop(key)
		if !ok {
			continue
		}
		if s, ok := p.(ir.String); ok {
			text[key] = ctx.Eval.Interpolate(s.Value, scope)
		} else {
			text[key] = p.String()
		}
	}
	return text
}

func resolveValue(node *ir.Node, path string, ctx *Context, scope evaluator.Scope) string {
	if path != "" {
		if v, ok := ctx.Store.Get(path); ok {
			return v.String()
		}
		return ""
	}
	if expr, ok := binding.Expression(node, "value"); ok {
		return ctx.Eval.Evaluate(expr, ctx.Eval.WithBuiltins(scope))
	}
	p, ok := node.Prop("value")
	if !ok {
		return ""
	}
	if s, ok := p.(ir.String); ok {
		return ctx.Eval.Interpolate(s.Value, scope)
	}
	return p.String()
}

// resolveChecked handles membership bindings ("'x' in state.list"), bound
// paths judged by truthiness, and literal booleans.
func resolveChecked(node *ir.Node, out *Node, ctx *Context, scope evaluator.Scope) bool {
	if expr, ok := binding.Expression(node, "checked"); ok {
		if m, ok := binding.ParseMembership(expr); ok {
			out.membership = &m
		}
		return ctx.Eval.EvaluateCondition(expr, scope)
	}
	p, ok := node.Prop("checked")
	if !ok {
		return false
	}
	switch p := p.(type) {
	case ir.Bool:
		return p.Value
	case ir.String:
		if m, ok := binding.ParseMembership(p.Value); ok {
			out.membership = &m
		}
		return ctx.Eval.EvaluateCondition(p.Value, scope)
	}
	return value.Truthy(ir.ToValue(p))
}

func resolveOptions(node *ir.Node, ctx *Context) []options.Option {
	if path, ok := binding.ResolveStatePath(node, "options"); ok {
		v, _ := ctx.Store.Get(path)
		return options.FromValue(v)
	}
	raw, ok := node.Prop("options")
	if !ok {
		return nil
	}
	return options.Parse(raw)
}

// resolveTable reads columns (an option list whose meta may carry a
// "format") and rows (a list of objects, literal or bound via "data").
func resolveTable(node *ir.Node, ctx *Context) ([]options.Option, [][]string) {
	var cols []options.Option
	if raw, ok := node.Prop("columns"); ok {
		cols = options.Parse(raw)
	}

	var rows []value.Value
	if path, ok := binding.ResolveStatePath(node, "data", "rows"); ok {
		if v, ok := ctx.Store.Get(path); ok {
			if l, ok := v.(value.List); ok {
				rows = l.Items
			}
		}
	} else {
		for _, key := range []string{"data", "rows"} {
			if raw, ok := node.Prop(key); ok {
				if l, ok := ir.ToValue(raw).(value.List); ok {
					rows = l.Items
				}
				break
			}
		}
	}

	if len(cols) == 0 && len(rows) > 0 {
		if m, ok := rows[0].(value.Map); ok {
			for _, k := range m.Keys {
				cols = append(cols, options.Option{Value: k, Label: k})
			}
		}
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(value.Map)
		if !ok {
			continue
		}
		cells := make([]string, len(cols))
		for i, col := range cols {
			raw := ""
			if v, ok := m.Get(col.Value); ok {
				raw = v.String()
			}
			cells[i] = format.Value(raw, col.Meta["format"], ctx.Eval.Locale)
		}
		out = append(out, cells)
	}
	return cols, out
}

// resolveActions decodes the node's event actions and interpolates their
// operands. extra entries (such as the new "value" of a change) are visible
// to the operands.
func resolveActions(node *ir.Node, ctx *Context, scope evaluator.Scope, extra evaluator.Scope) map[string]action.Action {
	if len(node.Actions) == 0 {
		return nil
	}
	if len(extra) > 0 {
		merged := make(evaluator.Scope, len(scope)+len(extra))
		for k, v := range scope {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		scope = merged
	}

	events := make([]string, 0, len(node.Actions))
	for event := range node.Actions {
		events = append(events, event)
	}
	sort.Strings(events)

	out := make(map[string]action.Action, len(events))
	for _, event := range events {
		a, err := action.FromDescriptor(node.Actions[event])
		if err != nil {
			ctx.logger().LogLine("dropping action", node.Type+"."+event+":", err)
			continue
		}
		out[event] = a.MapOperands(func(s string) string {
			return ctx.Eval.Interpolate(s, scope)
		})
	}
	return out
}

func expressionOrLiteral(node *ir.Node, key string) (string, bool) {
	if expr, ok := binding.Expression(node, key); ok {
		return expr, true
	}
	p, ok := node.Prop(key)
	if !ok {
		return "", false
	}
	switch p.(type) {
	case ir.Number, ir.String:
		return p.String(), true
	}
	return "", false
}

func (c *Context) logger() evaluator.Logger {
	if c.Logger == nil {
		return evaluator.NopLogger
	}
	return c.Logger
}

// Action returns the resolved action for event.
func (n *Node) Action(event string) (action.Action, bool) {
	a, ok := n.Actions[event]
	return a, ok
}

// Change returns the action a value change to v dispatches: the node's
// onChange action with {value} bound to v, else a SET of the bound path (or
// a selection change for select-like nodes). An uncontrolled selection
// has no action; its Selected and SelectedLabel are updated in place.
func (n *Node) Change(v string) (action.Action, bool) {
	if n.source != nil {
		if _, ok := n.source.Actions["onChange"]; ok {
			scope := evaluator.Scope(n.ctx.Store.Snapshot())
			extra := evaluator.Scope{"value": value.Str{Value: v}}
			if a, ok := resolveActions(n.source, n.ctx, scope, extra)["onChange"]; ok {
				return a, true
			}
		}
	}
	if n.selection != nil {
		a, ok := n.selection.Choose(v)
		if !ok {
			n.Selected = v
			n.SelectedLabel = options.Label(n.Options, v)
		}
		return a, ok
	}
	if n.StatePath != "" {
		return action.Set(n.StatePath, v), true
	}
	return action.Action{}, false
}

// Toggle returns the action flipping a checkbox: APPEND or REMOVE for a
// membership binding, otherwise a change to the negated checked state.
func (n *Node) Toggle() (action.Action, bool) {
	if m := n.membership; m != nil {
		if n.Checked {
			return action.Remove(m.ListPath, m.Item), true
		}
		return action.Append(m.ListPath, m.Item), true
	}
	if path, ok := binding.ResolveStatePath(n.source, "checked"); ok {
		return action.Set(path, strconv.FormatBool(!n.Checked)), true
	}
	return n.Change(strconv.FormatBool(!n.Checked))
}

// Find returns the first visible node, depth first, with the given id.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Dump renders the resolved tree as indented text, one node per line.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	if !n.Visible {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Type)
	if n.ID != "" {
		sb.WriteString("#" + n.ID)
	}
	for _, key := range TextProps {
		if t, ok := n.Text[key]; ok {
			sb.WriteString(" " + key + "=" + strconv.Quote(t))
		}
	}
	if n.StatePath != "" {
		sb.WriteString(" bind=" + n.StatePath)
	}
	if n.Value != "" {
		sb.WriteString(" value=" + strconv.Quote(n.Value))
	}
	if n.Checked {
		sb.WriteString(" checked")
	}
	if n.Options != nil {
		sb.WriteString(" selected=" + strconv.Quote(n.SelectedLabel))
	}
	if n.HasNumber {
		sb.WriteString(" number=" + value.FormatNumber(n.Number) + "/" + value.FormatNumber(n.Max))
	}
	sb.WriteByte('\n')
	for _, row := range n.Rows {
		sb.WriteString(strings.Repeat("  ", depth+1))
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}
