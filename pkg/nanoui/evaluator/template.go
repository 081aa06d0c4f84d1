package evaluator

import (
	"regexp"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/format"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// markerPattern matches ${expr} or {expr}. The ${ alternative is tried first
// so it wins when both could match at the same position. Braces do not nest.
var markerPattern = regexp.MustCompile(`\$\{([^{}]*)\}|\{([^{}]*)\}`)

// Interpolate replaces every {expr} and ${expr} marker in text with the
// evaluated expression. Expressions see scope overlaid on the built-in time
// variables. An expression that does not resolve renders as "".
func (e *Evaluator) Interpolate(text string, scope Scope) string {
	if !strings.Contains(text, "{") {
		return text
	}
	merged := e.WithBuiltins(scope)
	return markerPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := markerPattern.FindStringSubmatch(match)
		inner := m[2]
		if strings.HasPrefix(match, "$") {
			inner = m[1]
		}
		return e.Evaluate(strings.TrimSpace(inner), merged)
	})
}

// BuiltinInfo describes a built-in variable.
type BuiltinInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Builtins lists the built-in template variables in display order.
var Builtins = []BuiltinInfo{
	{"currentYear", "Current year, e.g. 2024"},
	{"currentMonth", "Current month number, 1-12"},
	{"currentDay", "Current day of the month"},
	{"currentHour", "Current hour, 0-23"},
	{"currentMinute", "Current minute, 0-59"},
	{"currentMonthName", "Localized name of the current month"},
	{"currentWeekday", "Localized name of the current weekday"},
	{"today", "Current date as YYYY-MM-DD"},
	{"now", "Current date and time as YYYY-MM-DDTHH:MM:SS"},
}

// Builtins returns the built-in time variables for the evaluator's clock.
func (e *Evaluator) Builtins() Scope {
	t := e.now()
	return Scope{
		"currentYear":      value.Int{Value: int64(t.Year())},
		"currentMonth":     value.Int{Value: int64(t.Month())},
		"currentDay":       value.Int{Value: int64(t.Day())},
		"currentHour":      value.Int{Value: int64(t.Hour())},
		"currentMinute":    value.Int{Value: int64(t.Minute())},
		"currentMonthName": value.Str{Value: format.MonthName(t, e.Locale)},
		"currentWeekday":   value.Str{Value: format.WeekdayName(t, e.Locale)},
		"today":            value.Str{Value: t.Format("2006-01-02")},
		"now":              value.Str{Value: t.Format("2006-01-02T15:04:05")},
	}
}
