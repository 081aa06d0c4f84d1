// Package options normalizes the option lists of select-like controls and
// resolves which option is currently selected.
//
// Options arrive in several shapes: structured arrays of strings or
// {value, label} objects, JSON array text, or a legacy bracket literal such as
//
//	[Red, Green, {value: b, label: "Blue, dark"}]
//
// Every shape becomes a []Option. Malformed input yields an empty list.
package options

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// Option is one selectable entry. Value is its identity; Label is for
// display and defaults to Value. Meta holds any other attributes, such as a
// column's "format".
type Option struct {
	Value string            `json:"value"`
	Label string            `json:"label"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Parse normalizes a structured prop or option string.
func Parse(raw ir.Prop) []Option {
	switch raw := raw.(type) {
	case ir.Array:
		return fromProps(raw.Items)
	case ir.String:
		return ParseString(raw.Value)
	}
	return nil
}

// ParseString parses JSON array text or the legacy bracket literal.
func ParseString(s string) []Option {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if opts, ok := parseJSON(s); ok {
		return opts
	}
	if onlyEscapedQuotes(s) {
		s = itemUnescaper.Replace(s)
		if opts, ok := parseJSON(s); ok {
			return opts
		}
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	return parseLiteral(s[1 : len(s)-1])
}

// FromValue converts a state value into options: a list of scalars or of
// maps with value/label entries, or a string holding an option literal.
func FromValue(v value.Value) []Option {
	switch v := v.(type) {
	case value.List:
		var opts []Option
		for _, item := range v.Items {
			switch item := item.(type) {
			case value.Map:
				fields := make(map[string]string, len(item.Keys))
				for _, k := range item.Keys {
					fields[k] = item.Entries[k].String()
				}
				if opt, ok := fromFields(item.Keys, fields); ok {
					opts = append(opts, opt)
				}
			case value.Null, value.List:
			default:
				opts = append(opts, Option{Value: item.String(), Label: item.String()})
			}
		}
		return opts
	case value.Str:
		return ParseString(v.Value)
	}
	return nil
}

// Find returns the option whose value is v.
func Find(opts []Option, v string) (Option, bool) {
	for _, o := range opts {
		if o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

// Label returns the label of the option with value v, or v itself when no
// option matches.
func Label(opts []Option, v string) string {
	if o, ok := Find(opts, v); ok {
		return o.Label
	}
	return v
}

func parseJSON(s string) ([]Option, bool) {
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	p, err := ir.ParseJSON([]byte(s))
	if err != nil {
		return nil, false
	}
	arr, ok := p.(ir.Array)
	if !ok {
		return nil, false
	}
	return fromProps(arr.Items), true
}

func fromProps(items []ir.Prop) []Option {
	var opts []Option
	for _, item := range items {
		switch item := item.(type) {
		case ir.String, ir.Number, ir.Bool:
			opts = append(opts, Option{Value: item.String(), Label: item.String()})
		case ir.Object:
			fields := make(map[string]string, len(item.Keys))
			for _, k := range item.Keys {
				fields[k] = item.Fields[k].String()
			}
			if opt, ok := fromFields(item.Keys, fields); ok {
				opts = append(opts, opt)
			}
		}
	}
	return opts
}

// fromFields builds an option from an object's fields. A missing value
// falls back to the label and vice versa; neither means no option.
func fromFields(keys []string, fields map[string]string) (Option, bool) {
	v, hasValue := fields["value"]
	l, hasLabel := fields["label"]
	if !hasValue && !hasLabel {
		return Option{}, false
	}
	if !hasValue {
		v = l
	}
	if !hasLabel || l == "" {
		l = v
	}
	opt := Option{Value: v, Label: l}
	for _, k := range keys {
		if k == "value" || k == "label" {
			continue
		}
		if opt.Meta == nil {
			opt.Meta = map[string]string{}
		}
		opt.Meta[k] = fields[k]
	}
	return opt, true
}

// Legacy literal grammar:
//
//	list  := item (',' item)*
//	item  := object | quoted | bare
//	object:= '{' field (',' field)* '}'
//	field := key (':' | '=') (quoted | bare)
//
// Quotes are ' or " with backslash escapes.

func parseLiteral(body string) []Option {
	var opts []Option
	for _, item := range splitTopLevel(body) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.HasPrefix(item, "{") {
			if opt, ok := parseLiteralObject(item); ok {
				opts = append(opts, opt)
			}
			continue
		}
		if lit, ok := unquote(item); ok {
			item = lit
		}
		if item == "" {
			continue
		}
		opts = append(opts, Option{Value: item, Label: item})
	}
	return opts
}

var fieldPatterns sync.Map // field name -> *regexp.Regexp

// fieldPattern matches `name: value` where name may be quoted and value is
// quoted or a bare token running to the next comma or closing brace.
func fieldPattern(name string) *regexp.Regexp {
	if re, ok := fieldPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?:^|[{,\s])["']?` + regexp.QuoteMeta(name) +
		`["']?\s*[:=]\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|([^,}]*))`)
	fieldPatterns.Store(name, re)
	return re
}

var anyFieldPattern = regexp.MustCompile(
	`(?:^|[{,\s])["']?([A-Za-z_][\w-]*)["']?\s*[:=]\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|([^,}]*))`)

// extractField returns the value of a named field in an object literal.
func extractField(item, name string) (string, bool) {
	m := fieldPattern(name).FindStringSubmatch(item)
	if m == nil {
		return "", false
	}
	return fieldValue(m[1], m[2], m[3]), true
}

func fieldValue(double, single, bare string) string {
	switch {
	case double != "":
		return valueUnescaper.Replace(double)
	case single != "":
		return valueUnescaper.Replace(single)
	}
	return strings.TrimSpace(bare)
}

func parseLiteralObject(item string) (Option, bool) {
	fields := map[string]string{}
	var keys []string
	for _, m := range anyFieldPattern.FindAllStringSubmatch(item, -1) {
		if _, seen := fields[m[1]]; seen {
			continue
		}
		keys = append(keys, m[1])
		fields[m[1]] = fieldValue(m[2], m[3], m[4])
	}
	for _, name := range []string{"value", "label"} {
		if _, ok := fields[name]; ok {
			continue
		}
		if v, ok := extractField(item, name); ok {
			keys = append(keys, name)
			fields[name] = v
		}
	}
	if fields["value"] == "" && fields["label"] == "" {
		return Option{}, false
	}
	return fromFields(keys, fields)
}

var (
	// valueUnescaper undoes one or two levels of quote escaping.
	valueUnescaper = strings.NewReplacer(`\\\"`, `"`, `\"`, `"`, `\\'`, `'`, `\'`, `'`, `\\`, `\`)
	// itemUnescaper removes one level of escaping from serialized text.
	itemUnescaper = strings.NewReplacer(`\\\"`, `\"`, `\"`, `"`, `\\`, `\`)
)

// onlyEscapedQuotes reports whether every double quote in s is escaped,
// as happens when JSON text was serialized into a JSON string again.
func onlyEscapedQuotes(s string) bool {
	if !strings.Contains(s, `\"`) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			return false
		}
	}
	return true
}

// splitTopLevel splits s on commas that are outside quotes and outside
// {} and [] nesting. A single quote only opens a string at the start of a
// token, so apostrophes in bare words are literal.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
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
		case '\\':
			i++
		case '"':
			quote = c
		case '\'':
			if atTokenStart(s, i) {
				quote = c
			}
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func atTokenStart(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':', '=', '{', '[':
			return true
		default:
			return false
		}
	}
	return true
}

func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	return valueUnescaper.Replace(s[1 : len(s)-1]), true
}
