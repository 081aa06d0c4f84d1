package evaluator

// OperatorInfo describes an operator for introspection.
type OperatorInfo struct {
	Symbol      string `json:"symbol"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Operators lists what expressions and conditions understand.
var Operators = []OperatorInfo{
	{"+", "arithmetic", "Addition"},
	{"-", "arithmetic", "Subtraction, or negation before an operand"},
	{"*", "arithmetic", "Multiplication"},
	{"/", "arithmetic", "Division; a zero divisor leaves the dividend unchanged"},
	{"( )", "arithmetic", "Grouping"},
	{"==", "comparison", "Loose equality: numeric, then boolean, then text"},
	{"!=", "comparison", "Loose inequality"},
	{">", "comparison", "Greater than (numbers only)"},
	{">=", "comparison", "Greater than or equal (numbers only)"},
	{"<", "comparison", "Less than (numbers only)"},
	{"<=", "comparison", "Less than or equal (numbers only)"},
	{"!", "logical", "Negates a condition"},
	{"not", "logical", "Negates a condition"},
	{"in", "collection", "'item' in state.list: list membership, map key or substring"},
	{"len()", "function", "Length of a string, list or map"},
	{".method()", "function", "String method call, see 'methods'"},
}
