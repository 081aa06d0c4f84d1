// Package evaluator implements the NanoUI expression languages: template
// interpolation, single-expression evaluation (paths, numbers, arithmetic and
// string method chains) and boolean guard conditions.
//
// Nothing in this package returns an error. Malformed or unresolvable input
// degrades to a defined default (empty string, false or "no number") so that
// one bad expression never breaks a rendered screen.
package evaluator

import (
	"regexp"
	"strings"
	"time"

	"github.com/sambeau/nanoui/pkg/nanoui/format"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// Logger is the interface for evaluator diagnostics.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

type nopLogger struct{}

func (nopLogger) Log(values ...any)     {}
func (nopLogger) LogLine(values ...any) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

// Scope is the variable mapping an expression is evaluated against.
// Keys are flat paths such as "count" or "user.name".
type Scope map[string]value.Value

// Evaluator holds the ambient inputs of evaluation: the clock used for the
// built-in time variables, the locale used for localized names and a logger
// for fall-through diagnostics.
type Evaluator struct {
	Now    func() time.Time
	Locale string
	Logger Logger
}

// New returns an Evaluator using the wall clock and the default locale.
func New() *Evaluator {
	return &Evaluator{
		Now:    time.Now,
		Locale: format.DefaultLocale,
		Logger: NopLogger,
	}
}

// Default is the evaluator behind the package-level functions.
var Default = New()

// Evaluate evaluates expr against scope using the Default evaluator.
func Evaluate(expr string, scope Scope) string {
	return Default.Evaluate(expr, scope)
}

// Interpolate expands {expr} and ${expr} markers using the Default evaluator.
func Interpolate(text string, scope Scope) string {
	return Default.Interpolate(text, scope)
}

// EvaluateCondition evaluates a guard using the Default evaluator.
func EvaluateCondition(expr string, scope Scope) bool {
	return Default.EvaluateCondition(expr, scope)
}

// EvaluateNumberOrNull evaluates expr to a number using the Default evaluator.
func EvaluateNumberOrNull(expr string, scope Scope) (float64, bool) {
	return Default.EvaluateNumberOrNull(expr, scope)
}

var lenPattern = regexp.MustCompile(`^len\s*\(([^()]*)\)$`)

// Evaluate evaluates a single expression and returns its string form.
//
// Stages, first match wins: len(x), identifier/path lookup, numeric literal,
// arithmetic, string method chain. Anything else yields "".
// A single pair of surrounding {} or ${} is ignored.
func (e *Evaluator) Evaluate(expr string, scope Scope) string {
	expr = unwrapMarker(strings.TrimSpace(expr))
	if expr == "" {
		return ""
	}

	if m := lenPattern.FindStringSubmatch(expr); m != nil {
		v, ok := lookup(strings.TrimSpace(m[1]), scope)
		if !ok {
			return ""
		}
		return value.FormatNumber(float64(value.Len(v)))
	}

	if isIdentifierPath(expr) {
		if v, ok := lookup(expr, scope); ok {
			return v.String()
		}
	}

	if n, ok := value.ParseNumber(expr); ok {
		return value.FormatNumber(n)
	}

	if hasArithmetic(expr) {
		if n, ok := evalArithmetic(expr, scope); ok {
			return value.FormatNumber(n)
		}
	}

	if s, ok := e.evalMethodChain(expr, scope); ok {
		return s
	}

	e.logger().LogLine("unresolved expression:", expr)
	return ""
}

// EvaluateNumberOrNull resolves expr to a number for numeric controls such
// as progress bars and sliders. The second result is false when nothing
// resolves; callers apply their own default.
func (e *Evaluator) EvaluateNumberOrNull(expr string, scope Scope) (float64, bool) {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(expr, "<<"), ":="))
	expr = unwrapMarker(expr)
	if expr == "" {
		return 0, false
	}

	if isIdentifierPath(expr) {
		if v, ok := lookup(expr, scope); ok {
			return value.AsNumber(v)
		}
	}
	if n, ok := value.ParseNumber(expr); ok {
		return n, true
	}
	if hasArithmetic(expr) {
		return evalArithmetic(expr, scope)
	}
	return 0, false
}

// WithBuiltins returns a new scope holding the built-in time variables
// overlaid with scope. Entries in scope win on collision.
func (e *Evaluator) WithBuiltins(scope Scope) Scope {
	merged := e.Builtins()
	for k, v := range scope {
		merged[k] = v
	}
	return merged
}

func (e *Evaluator) logger() Logger {
	if e.Logger == nil {
		return NopLogger
	}
	return e.Logger
}

func (e *Evaluator) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// lookup resolves a path against scope. The "state." prefix is optional.
func lookup(path string, scope Scope) (value.Value, bool) {
	path = strings.TrimSpace(path)
	if v, ok := scope[state.StripPrefix(path)]; ok {
		return v, true
	}
	v, ok := scope[path]
	return v, ok
}

func isIdentifierPath(s string) bool {
	return state.IsPath(s)
}

// unwrapMarker removes one pair of surrounding ${...} or {...}.
func unwrapMarker(expr string) string {
	if !strings.HasSuffix(expr, "}") {
		return expr
	}
	var inner string
	switch {
	case strings.HasPrefix(expr, "${"):
		inner = expr[2 : len(expr)-1]
	case strings.HasPrefix(expr, "{"):
		inner = expr[1 : len(expr)-1]
	default:
		return expr
	}
	if strings.ContainsAny(inner, "{}") {
		return expr
	}
	return strings.TrimSpace(inner)
}
