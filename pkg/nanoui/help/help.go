// Package help provides topic-based documentation for the NanoUI expression
// language, accessible via CLI (`nanoui describe`) and REPL (`:help`).
package help

import (
	"sort"
	"strings"

	"github.com/sambeau/nanoui/pkg/nanoui/action"
	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
	"github.com/sambeau/nanoui/pkg/nanoui/format"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind        string                   `json:"kind"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Methods     []evaluator.MethodInfo   `json:"methods,omitempty"`
	Builtins    []evaluator.BuiltinInfo  `json:"builtins,omitempty"`
	Operators   []evaluator.OperatorInfo `json:"operators,omitempty"`
	Actions     []Entry                  `json:"actions,omitempty"`
	Operations  []Entry                  `json:"operations,omitempty"`
	Types       []Entry                  `json:"types,omitempty"`
	Formats     []format.SpecInfo        `json:"formats,omitempty"`
	Params      []string                 `json:"params,omitempty"`
	Arity       string                   `json:"arity,omitempty"`
}

// Entry is a named, described item in a list topic.
type Entry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params,omitempty"`
}

var actionDocs = map[action.Type]Entry{
	action.TypeStateMutation: {Description: "Change one state path", Params: []string{"path", "operation", "value"}},
	action.TypeSequence:      {Description: "Run child actions in order", Params: []string{"actions"}},
	action.TypeNavigate:      {Description: "Ask the host to navigate", Params: []string{"to"}},
	action.TypeShowToast:     {Description: "Ask the host to show a message", Params: []string{"message"}},
	action.TypeFetch:         {Description: "Ask the host to make a request", Params: []string{"url", "method"}},
}

var operationDocs = map[action.Operation]string{
	action.OpSet:      "Replace the value, coerced to the current type",
	action.OpAdd:      "Add a number to an int or float",
	action.OpSubtract: "Subtract a number from an int or float",
	action.OpAppend:   "Append an item to a list",
	action.OpRemove:   "Remove the first equal item from a list",
}

// StateTypes documents the declarable state variable types.
var StateTypes = []Entry{
	{Name: "int", Description: "Whole number (aliases integer, long)"},
	{Name: "float", Description: "Decimal number (aliases double, number)"},
	{Name: "bool", Description: "true or false (alias boolean)"},
	{Name: "str", Description: "Text (alias string); the default type"},
	{Name: "list", Description: "Ordered items (alias array)"},
	{Name: "map", Description: "Keyed values (aliases object, dict)"},
}

// Topics are the keyword topics DescribeTopic understands.
var Topics = []string{"builtins", "methods", "operators", "actions", "types", "formats"}

// DescribeTopic returns help information for the given topic.
// Topics can be keywords (builtins, methods, operators, actions, types,
// formats) or the name of a builtin, method or action type.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nerrors.NewUnknownTopic(topic, nil)
	}

	switch strings.ToLower(topic) {
	case "builtins":
		return &TopicResult{Kind: "builtin-list", Name: "builtins", Builtins: evaluator.Builtins}, nil
	case "methods", "string":
		return &TopicResult{Kind: "method-list", Name: "methods", Methods: evaluator.StringMethods.ToMethodInfos()}, nil
	case "operators":
		return &TopicResult{Kind: "operator-list", Name: "operators", Operators: evaluator.Operators}, nil
	case "actions":
		return describeActions(), nil
	case "types":
		return &TopicResult{Kind: "type-list", Name: "types", Types: StateTypes}, nil
	case "formats":
		return &TopicResult{Kind: "format-list", Name: "formats", Formats: format.Specs}, nil
	}

	if result := describeByName(topic); result != nil {
		return result, nil
	}

	return nil, nerrors.NewUnknownTopic(topic, AvailableTopics())
}

func describeActions() *TopicResult {
	result := &TopicResult{Kind: "action-list", Name: "actions"}
	for _, t := range action.Types {
		doc := actionDocs[t]
		result.Actions = append(result.Actions, Entry{Name: string(t), Description: doc.Description, Params: doc.Params})
	}
	for _, op := range action.Operations {
		result.Operations = append(result.Operations, Entry{Name: string(op), Description: operationDocs[op]})
	}
	return result
}

// describeByName finds a single builtin, method or action type by name
func describeByName(name string) *TopicResult {
	for _, b := range evaluator.Builtins {
		if b.Name == name {
			return &TopicResult{Kind: "builtin", Name: b.Name, Description: b.Description}
		}
	}

	if entry, ok := evaluator.StringMethods.Get(strings.TrimPrefix(name, ".")); ok {
		return &TopicResult{
			Kind:        "method",
			Name:        strings.TrimPrefix(name, "."),
			Description: entry.Description,
			Arity:       entry.Arity,
		}
	}

	if t, ok := action.ParseType(name); ok {
		doc := actionDocs[t]
		return &TopicResult{Kind: "action", Name: string(t), Description: doc.Description, Params: doc.Params}
	}

	return nil
}

// AvailableTopics returns every topic name, keywords first, for suggestions
// and completion.
func AvailableTopics() []string {
	names := append([]string(nil), Topics...)
	var rest []string
	for _, b := range evaluator.Builtins {
		rest = append(rest, b.Name)
	}
	rest = append(rest, evaluator.StringMethods.Names()...)
	for _, t := range action.Types {
		rest = append(rest, string(t))
	}
	sort.Strings(rest)
	return append(names, rest...)
}
