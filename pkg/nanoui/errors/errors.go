// Package errors provides structured error types for NanoUI.
//
// The evaluation core never returns errors for bad template content; these
// types cover the boundaries around it: IR decoding, configuration loading
// and command-line input.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse     ErrorClass = "parse"     // IR syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches in declarations
	ClassUndefined ErrorClass = "undefined" // Unknown names or topics
	ClassIO        ErrorClass = "io"        // File operations
	ClassFormat    ErrorClass = "format"    // Invalid values
	ClassConfig    ErrorClass = "config"    // Configuration problems
)

// NanoError represents any error raised at the NanoUI boundaries.
type NanoError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Path    string         `json:"path,omitempty"` // Location inside the IR document, e.g. root.children[2]
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Err     error          `json:"-"`
}

// Error implements the error interface.
func (e *NanoError) Error() string {
	return e.String()
}

// Unwrap exposes the underlying cause, if any.
func (e *NanoError) Unwrap() error {
	return e.Err
}

// String returns a formatted string representation of the error.
func (e *NanoError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *NanoError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse:
		sb.WriteString("IR error")
	case ClassConfig:
		sb.WriteString("Config error")
	default:
		sb.WriteString("Error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Path != "" {
			sb.WriteString("\n  at: ")
			sb.WriteString(e.Path)
		}
		sb.WriteString("\n  ")
	} else if e.Path != "" {
		fmt.Fprintf(&sb, ": %s\n  ", e.Path)
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *NanoError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *NanoError) WithFile(file string) *NanoError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPath returns a copy of the error with the document location set.
func (e *NanoError) WithPath(path string) *NanoError {
	copy := *e
	copy.Path = path
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// IR documents (IR-0xxx)
	"IR-0001": {
		Class:    ClassParse,
		Template: "invalid IR document: {{.Reason}}",
	},
	"IR-0002": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got {{.Got}}",
	},
	"IR-0003": {
		Class:    ClassType,
		Template: "unknown type '{{.Type}}' for state variable '{{.Name}}'",
		Hints:    []string{"one of: int, float, bool, str, list, map"},
	},
	"IR-0004": {
		Class:    ClassParse,
		Template: "invalid state variable name '{{.Name}}'",
		Hints:    []string{"names look like count or form.email"},
	},
	"IR-0005": {
		Class:    ClassIO,
		Template: "unsupported IR file extension '{{.Ext}}'",
		Hints:    []string{"use .json, .yaml or .yml"},
	},
	"IR-0006": {
		Class:    ClassParse,
		Template: "node has no type",
	},
	"IR-0007": {
		Class:    ClassIO,
		Template: "cannot read IR file: {{.Reason}}",
	},
	"IR-0008": {
		Class:    ClassUndefined,
		Template: "unknown action type '{{.Type}}'",
		Hints:    []string{"one of: stateMutation, sequence, navigate, showToast, fetch"},
	},
	"IR-0009": {
		Class:    ClassUndefined,
		Template: "unknown state operation '{{.Operation}}'",
		Hints:    []string{"one of: SET, ADD, SUBTRACT, APPEND, REMOVE"},
	},

	// Configuration (CFG-0xxx)
	"CFG-0001": {
		Class:    ClassConfig,
		Template: "config file not found: {{.Path}}",
	},
	"CFG-0002": {
		Class:    ClassConfig,
		Template: "failed to parse config: {{.Reason}}",
	},
	"CFG-0003": {
		Class:    ClassConfig,
		Template: "configuration errors:\n  - {{.Reasons}}",
	},

	// Command line (CLI-0xxx)
	"CLI-0001": {
		Class:    ClassUndefined,
		Template: "unknown command '{{.Command}}'",
	},
	"CLI-0002": {
		Class:    ClassFormat,
		Template: "cannot parse time '{{.Value}}'",
		Hints:    []string{"-now 2024-03-05T10:30:00", "-now \"March 5, 2024 10:30\""},
	},
	"CLI-0003": {
		Class:    ClassFormat,
		Template: "state file must hold an object of name: value pairs",
	},

	// Help topics (HELP-0xxx)
	"HELP-0001": {
		Class:    ClassUndefined,
		Template: "unknown help topic '{{.Topic}}'",
		Hints:    []string{"try: builtins, methods, operators, actions, types, formats"},
	},
}

// New creates a NanoError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *NanoError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &NanoError{
			Class:   ClassFormat,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &NanoError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// Wrap creates a catalog error that carries cause as its underlying error.
func Wrap(code string, cause error, data map[string]any) *NanoError {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Reason"]; !ok && cause != nil {
		data["Reason"] = cause.Error()
	}
	err := New(code, data)
	err.Err = cause
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FindClosestMatch returns the closest candidate to input, or "" when nothing
// is close enough to be a plausible typo.
func FindClosestMatch(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	bestMatch := ""
	bestDistance := -1
	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Short words (1-3): max 1 edit, medium (4-6): 2, longer: 3
	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// NewUnknownTopic creates a HELP-0001 error with a "Did you mean?" hint.
func NewUnknownTopic(topic string, available []string) *NanoError {
	err := New("HELP-0001", map[string]any{"Topic": topic})
	if suggestion := FindClosestMatch(topic, available); suggestion != "" {
		err.Hints = append([]string{"Did you mean `" + suggestion + "`?"}, err.Hints...)
	}
	return err
}
