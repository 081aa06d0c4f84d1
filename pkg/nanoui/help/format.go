package help

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
)

// FormatText formats a TopicResult for terminal output
func FormatText(result *TopicResult) string {
	var sb strings.Builder

	switch result.Kind {
	case "builtin":
		fmt.Fprintf(&sb, "%s\n\n%s\n", result.Name, result.Description)
	case "method":
		fmt.Fprintf(&sb, ".%s(%s)\n\n%s\n\nArity: %s\n", result.Name, arityToParams(result.Arity), result.Description, result.Arity)
	case "action":
		fmt.Fprintf(&sb, "%s\n\n%s\n\nPayload: %s\n", result.Name, result.Description, strings.Join(result.Params, ", "))
	case "builtin-list":
		heading(&sb, "Built-in Variables")
		rows := make([][2]string, len(result.Builtins))
		for i, b := range result.Builtins {
			rows[i] = [2]string{b.Name, b.Description}
		}
		writeAligned(&sb, rows)
	case "method-list":
		heading(&sb, "String Methods")
		rows := make([][2]string, len(result.Methods))
		for i, m := range result.Methods {
			rows[i] = [2]string{fmt.Sprintf(".%s(%s)", m.Name, arityToParams(m.Arity)), m.Description}
		}
		writeAligned(&sb, rows)
	case "operator-list":
		heading(&sb, "Operators")
		formatOperators(&sb, result.Operators)
	case "action-list":
		heading(&sb, "Action Types")
		rows := make([][2]string, len(result.Actions))
		for i, a := range result.Actions {
			rows[i] = [2]string{fmt.Sprintf("%s(%s)", a.Name, strings.Join(a.Params, ", ")), a.Description}
		}
		writeAligned(&sb, rows)
		sb.WriteString("\nState Operations:\n")
		rows = make([][2]string, len(result.Operations))
		for i, op := range result.Operations {
			rows[i] = [2]string{op.Name, op.Description}
		}
		writeAligned(&sb, rows)
	case "type-list":
		heading(&sb, "State Types")
		rows := make([][2]string, len(result.Types))
		for i, t := range result.Types {
			rows[i] = [2]string{t.Name, t.Description}
		}
		writeAligned(&sb, rows)
	case "format-list":
		heading(&sb, "Column Formats")
		rows := make([][2]string, len(result.Formats))
		for i, f := range result.Formats {
			rows[i] = [2]string{f.Spec, f.Description}
		}
		writeAligned(&sb, rows)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func heading(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

// writeAligned writes two columns, padding the first to its widest entry
func writeAligned(sb *strings.Builder, rows [][2]string) {
	maxLen := 0
	for _, r := range rows {
		if len(r[0]) > maxLen {
			maxLen = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxLen-len(r[0])+2)
		fmt.Fprintf(sb, "  %s%s%s\n", r[0], padding, r[1])
	}
}

func formatOperators(sb *strings.Builder, ops []evaluator.OperatorInfo) {
	categoryOrder := []string{"arithmetic", "comparison", "logical", "collection", "function"}
	categoryNames := map[string]string{
		"arithmetic": "Arithmetic",
		"comparison": "Comparison",
		"logical":    "Logical",
		"collection": "Collection",
		"function":   "Functions",
	}

	for _, cat := range categoryOrder {
		var rows [][2]string
		for _, op := range ops {
			if op.Category == cat {
				rows = append(rows, [2]string{op.Symbol, op.Description})
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(sb, "%s:\n", categoryNames[cat])
		writeAligned(sb, rows)
		sb.WriteString("\n")
	}
}

// arityToParams converts an arity string to a parameter representation
func arityToParams(arity string) string {
	switch arity {
	case "", "0":
		return ""
	case "1":
		return "arg"
	case "2":
		return "arg1, arg2"
	case "0-1":
		return "arg?"
	case "1-2":
		return "arg1, arg2?"
	case "1+":
		return "arg, ..."
	case "0+":
		return "..."
	default:
		return "..."
	}
}
