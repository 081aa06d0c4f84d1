package evaluator

import (
	"testing"

	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

func conditionScope() Scope {
	return Scope{
		"count":   value.Int{Value: 3},
		"zero":    value.Int{Value: 0},
		"ratio":   value.Float{Value: 0.5},
		"name":    value.Str{Value: "Ada"},
		"status":  value.Str{Value: "active"},
		"blank":   value.Str{Value: "   "},
		"strNum":  value.Str{Value: "5"},
		"zeroStr": value.Str{Value: "0"},
		"flag":    value.Bool{Value: true},
		"off":     value.Bool{Value: false},
		"nothing": value.Null{},
		"items": value.List{Items: []value.Value{
			value.Str{Value: "a"}, value.Str{Value: "b"},
		}},
		"empty": value.List{},
		"meta":  value.Map{Keys: []string{"k"}, Entries: map[string]value.Value{"k": value.Int{Value: 1}}},
	}
}

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		expr     string
		expected bool
	}{
		// absence of a guard
		{"", true},
		{"   ", true},

		// literals
		{"true", true},
		{"false", false},
		{"TRUE", true},

		// negation
		{"!flag", false},
		{"!off", true},
		{"not flag", false},
		{"not off", true},
		{"!!flag", true},
		{"!missing", true},

		// truthiness
		{"flag", true},
		{"off", false},
		{"count", true},
		{"zero", false},
		{"ratio", true},
		{"name", true},
		{"blank", false},
		{"nothing", false},
		{"missing", false},
		{"items", true},
		{"empty", true},
		{"meta", true},
		{"state.flag", true},
		{"<< flag", true},
		{"{flag}", true},

		// numeric comparisons
		{"count == 3", true},
		{"count==3", true},
		{"count == 3.0", true},
		{"count != 3", false},
		{"count > 2", true},
		{"count >= 3", true},
		{"count < 3", false},
		{"count <= 2", false},
		{"state.count == 3", true},
		{"strNum > 4", true},
		{"strNum == 5", true},
		{"count < strNum", true},
		{"ratio < 1", true},

		// ordering needs numbers on both sides
		{"name > 1", false},
		{"count > abc", false},
		{"missing > 0", false},

		// string and boolean equality
		{"name == 'Ada'", true},
		{`name == "Ada"`, true},
		{"name == Ada", true},
		{"status == active", true},
		{"status != 'inactive'", true},
		{"name == 'ada'", false},
		{"flag == true", true},
		{"off == false", true},
		{"off != true", true},
		{"missing == ''", true},
		{"name == 'a == b'", false},

		// loose equality order: number, then boolean, then string form
		{"zeroStr == false", false},
		{"zeroStr == 0", true},
		{"zero == false", false},

		// membership
		{"'a' in items", true},
		{`"b" in state.items`, true},
		{"'c' in items", false},
		{"'k' in meta", true},
		{"'d' in name", true},
		{"'x' in missing", false},
		{"!'a' in items", false},

		// grouping
		{"(count > 1)", true},
		{"!(count > 1)", false},
		{"not (count > 1)", false},
		{"((flag))", true},
		{"!(name == '(x)')", true},
	}

	scope := conditionScope()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := EvaluateCondition(tt.expr, scope); got != tt.expected {
				t.Errorf("EvaluateCondition(%q) = %v, want %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestEvaluateCondition_BlankIsAlwaysTrue(t *testing.T) {
	scopes := []Scope{nil, {}, conditionScope()}
	for i, s := range scopes {
		if !EvaluateCondition("", s) {
			t.Errorf("scope %d: blank condition should be true", i)
		}
	}
}

func TestEvaluateCondition_NegationInverts(t *testing.T) {
	exprs := []string{
		"", "flag", "off", "count > 2", "count != 3", "name == 'Ada'",
		"'a' in items", "missing", "zeroStr == false", "true",
	}
	scope := conditionScope()
	for _, expr := range exprs {
		if EvaluateCondition("!"+expr, scope) != !EvaluateCondition(expr, scope) {
			t.Errorf("!%q is not the negation of %q", expr, expr)
		}
	}
}
