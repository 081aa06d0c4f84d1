package evaluator

import (
	"strings"
	"unicode"

	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// Arithmetic grammar:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := ('+' | '-') unary | primary
//	primary := NUMBER | IDENT | '(' expr ')'
//
// IDENT is a dotted path with an optional "state." prefix.

// zeroDivisor is the magnitude below which a divisor is treated as zero.
const zeroDivisor = 1e-12

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// hasArithmetic reports whether expr contains an operator or parenthesis.
func hasArithmetic(expr string) bool {
	return strings.ContainsAny(expr, "+-*/()")
}

func evalArithmetic(expr string, scope Scope) (float64, bool) {
	toks, ok := tokenize(expr)
	if !ok {
		return 0, false
	}
	p := &arithParser{toks: toks, scope: scope}
	n, ok := p.expr()
	if !ok || p.peek().kind != tokEOF {
		return 0, false
	}
	return n, true
}

func tokenize(expr string) ([]token, bool) {
	var toks []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			// exponent
			if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
				j := i + 1
				if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
					j++
				}
				if j < len(runes) && unicode.IsDigit(runes[j]) {
					for j < len(runes) && unicode.IsDigit(runes[j]) {
						j++
					}
					i = j
				}
			}
			text := string(runes[start:i])
			n, ok := value.ParseNumber(text)
			if !ok {
				return nil, false
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: n})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || runes[i] == '.' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			text := string(runes[start:i])
			if !state.IsPath(text) {
				return nil, false
			}
			toks = append(toks, token{kind: tokIdent, text: text})
		default:
			return nil, false
		}
	}
	return append(toks, token{kind: tokEOF}), true
}

type arithParser struct {
	toks  []token
	pos   int
	scope Scope
}

func (p *arithParser) peek() token {
	return p.toks[p.pos]
}

func (p *arithParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *arithParser) expr() (float64, bool) {
	left, ok := p.term()
	if !ok {
		return 0, false
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, true
		}
		p.next()
		right, ok := p.term()
		if !ok {
			return 0, false
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *arithParser) term() (float64, bool) {
	left, ok := p.unary()
	if !ok {
		return 0, false
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, true
		}
		p.next()
		right, ok := p.unary()
		if !ok {
			return 0, false
		}
		if t.text == "*" {
			left *= right
		} else {
			left = safeDivide(left, right)
		}
	}
}

func (p *arithParser) unary() (float64, bool) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		p.next()
		n, ok := p.unary()
		if !ok {
			return 0, false
		}
		if t.text == "-" {
			return -n, true
		}
		return n, true
	}
	return p.primary()
}

func (p *arithParser) primary() (float64, bool) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, true
	case tokIdent:
		if t.text == "len" && p.peek().kind == tokLParen {
			return p.length()
		}
		return p.resolve(t.text), true
	case tokLParen:
		n, ok := p.expr()
		if !ok || p.next().kind != tokRParen {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// length evaluates the rest of len(path) as the length of the value at path.
func (p *arithParser) length() (float64, bool) {
	p.next()
	arg := p.next()
	if arg.kind != tokIdent || p.next().kind != tokRParen {
		return 0, false
	}
	v, ok := lookup(arg.text, p.scope)
	if !ok {
		return 0, false
	}
	return float64(value.Len(v)), true
}

// resolve returns the numeric value of an identifier. Booleans count as 1/0;
// missing or non-numeric identifiers take the name-based default.
func (p *arithParser) resolve(name string) float64 {
	if v, ok := lookup(name, p.scope); ok {
		if n, ok := value.AsNumber(v); ok {
			return n
		}
		if b, ok := v.(value.Bool); ok {
			if b.Value {
				return 1
			}
			return 0
		}
	}
	return DefaultForName(state.StripPrefix(name))
}

// safeDivide returns the dividend unchanged when the divisor is near zero.
func safeDivide(a, b float64) float64 {
	if b < zeroDivisor && b > -zeroDivisor {
		return a
	}
	return a / b
}

var nameDefaults = []struct {
	substrings []string
	value      float64
}{
	{[]string{"day"}, 1},
	{[]string{"month"}, 1},
	{[]string{"year"}, 2024},
	{[]string{"count", "index", "amount", "price", "total"}, 0},
	{[]string{"page", "step", "quantity"}, 1},
}

// DefaultForName returns the stand-in number for an identifier that cannot
// be resolved inside arithmetic, chosen from its name: day and month 1, year
// 2024, page/step/quantity 1, everything else 0.
func DefaultForName(name string) float64 {
	lower := strings.ToLower(name)
	for _, d := range nameDefaults {
		for _, s := range d.substrings {
			if strings.Contains(lower, s) {
				return d.value
			}
		}
	}
	return 0
}
