package evaluator

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sambeau/nanoui/pkg/nanoui/state"
)

// MethodFunc implements a string method. Arguments arrive unquoted.
type MethodFunc func(receiver string, args []string) string

// MethodEntry defines a single method with its implementation and metadata.
type MethodEntry struct {
	Fn          MethodFunc
	Arity       string // "0", "2", "0-1", "1+"
	Description string
}

// MethodRegistry maps method names to their entries.
type MethodRegistry map[string]MethodEntry

// MethodInfo describes a method for introspection.
type MethodInfo struct {
	Name        string `json:"name"`
	Arity       string `json:"arity"`
	Description string `json:"description"`
}

// Names returns the sorted method names.
func (r MethodRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the entry for name, if it exists.
func (r MethodRegistry) Get(name string) (MethodEntry, bool) {
	entry, ok := r[name]
	return entry, ok
}

// ToMethodInfos returns the registry's methods sorted by name.
func (r MethodRegistry) ToMethodInfos() []MethodInfo {
	methods := make([]MethodInfo, 0, len(r))
	for _, name := range r.Names() {
		entry := r[name]
		methods = append(methods, MethodInfo{
			Name:        name,
			Arity:       entry.Arity,
			Description: entry.Description,
		})
	}
	return methods
}

// StringMethods is the whitelist of methods callable on a string.
var StringMethods = MethodRegistry{
	"replace": {Fn: stringReplace, Arity: "2", Description: "Replace every occurrence of the first argument with the second"},
	"title":   {Fn: stringTitle, Arity: "0", Description: "Capitalize each word, keeping short all-caps words such as NASA"},
}

// checkArity validates an argument count against an arity spec:
// "0", "2", "0-1", "1+".
func checkArity(spec string, got int) bool {
	spec = strings.TrimSpace(spec)

	if exact, err := strconv.Atoi(spec); err == nil {
		return got == exact
	}

	if lo, hi, found := strings.Cut(spec, "-"); found {
		minVal, errMin := strconv.Atoi(lo)
		maxVal, errMax := strconv.Atoi(hi)
		if errMin == nil && errMax == nil {
			return got >= minVal && got <= maxVal
		}
	}

	if suffix, found := strings.CutSuffix(spec, "+"); found {
		if minVal, err := strconv.Atoi(suffix); err == nil {
			return got >= minVal
		}
	}

	return false
}

func stringReplace(receiver string, args []string) string {
	if args[0] == "" {
		return receiver
	}
	return strings.ReplaceAll(receiver, args[0], args[1])
}

func stringTitle(receiver string, _ []string) string {
	var sb strings.Builder
	start := -1
	flush := func(end int) {
		if start >= 0 {
			sb.WriteString(titleWord(receiver[start:end]))
			start = -1
		}
	}
	for i, r := range receiver {
		if unicode.IsSpace(r) {
			flush(i)
			sb.WriteRune(r)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(receiver))
	return sb.String()
}

// titleWord capitalizes one token. Tokens of at most four characters that
// are entirely uppercase are acronyms and stay as they are.
func titleWord(w string) string {
	if utf8.RuneCountInString(w) <= 4 && isAllUpper(w) {
		return w
	}
	return cases.Title(language.Und).String(w)
}

func isAllUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}

type methodCall struct {
	name string
	args []string
}

// evalMethodChain evaluates base.m1(args).m2(args)... where base is a
// resolvable path or a quoted string literal.
func (e *Evaluator) evalMethodChain(expr string, scope Scope) (string, bool) {
	base, calls, ok := parseChain(expr)
	if !ok {
		return "", false
	}

	var receiver string
	if lit, ok := unquote(base); ok {
		receiver = lit
	} else {
		if !state.IsPath(base) {
			return "", false
		}
		v, ok := lookup(base, scope)
		if !ok {
			return "", false
		}
		receiver = v.String()
	}

	for _, c := range calls {
		entry, ok := StringMethods.Get(c.name)
		if !ok {
			e.logger().LogLine("unknown method:", c.name)
			return "", false
		}
		if !checkArity(entry.Arity, len(c.args)) {
			e.logger().LogLine("wrong number of arguments to", c.name)
			return "", false
		}
		receiver = entry.Fn(receiver, c.args)
	}
	return receiver, true
}

// parseChain splits "base.a(x, y).b()" into its base and calls.
func parseChain(expr string) (string, []methodCall, bool) {
	open := indexOutsideQuotes(expr, '(')
	if open < 0 {
		return "", nil, false
	}
	head := strings.TrimSpace(expr[:open])
	dot := strings.LastIndexByte(head, '.')
	if dot <= 0 {
		return "", nil, false
	}
	base := strings.TrimSpace(head[:dot])
	name := head[dot+1:]
	rest := expr[open:]

	var calls []methodCall
	for {
		if !isMethodName(name) {
			return "", nil, false
		}
		end := matchingParen(rest)
		if end < 0 {
			return "", nil, false
		}
		args, ok := splitArgs(rest[1:end])
		if !ok {
			return "", nil, false
		}
		calls = append(calls, methodCall{name: name, args: args})

		rest = strings.TrimSpace(rest[end+1:])
		if rest == "" {
			return base, calls, true
		}
		if rest[0] != '.' {
			return "", nil, false
		}
		rest = rest[1:]
		p := strings.IndexByte(rest, '(')
		if p < 0 {
			return "", nil, false
		}
		name = strings.TrimSpace(rest[:p])
		rest = rest[p:]
	}
}

func isMethodName(s string) bool {
	return s != "" && !strings.Contains(s, ".") && state.IsPath(s)
}

// matchingParen returns the index of the ')' closing the '(' at s[0],
// skipping quoted text.
func matchingParen(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func indexOutsideQuotes(s string, target byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
		} else if c == target {
			return i
		}
	}
	return -1
}

// splitArgs splits a call's argument text on top-level commas and strips
// quotes from each argument. An empty argument list yields no arguments.
func splitArgs(s string) ([]string, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	var args []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case ',':
			args = append(args, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, false
	}
	args = append(args, s[start:])

	for i, a := range args {
		a = strings.TrimSpace(a)
		if lit, ok := unquote(a); ok {
			a = lit
		}
		args[i] = a
	}
	return args, true
}

// unquote strips matching single or double quotes and unescapes \" or \'.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, `\`+string(q), string(q))
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner, true
}
