// Package repl is an interactive shell over a nanoui Runtime: type an
// expression or a template to see it evaluated against the tree's state, and
// use ':' commands to inspect and mutate that state.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/sahilm/fuzzy"

	"github.com/sambeau/nanoui/pkg/nanoui/action"
	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
	"github.com/sambeau/nanoui/pkg/nanoui/help"
	"github.com/sambeau/nanoui/pkg/nanoui/nanoui"
	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

const DefaultPrompt = "nanoui> "

// Options configures Start.
type Options struct {
	Prompt      string
	HistoryFile string
	Version     string
}

// Commands lists the REPL meta-commands for help and completion.
var Commands = []string{
	":help", ":state", ":set", ":add", ":sub", ":append", ":remove",
	":render", ":if", ":num", ":quit",
}

// Session evaluates REPL input against one runtime.
type Session struct {
	rt  *nanoui.Runtime
	out io.Writer
}

// NewSession returns a session writing results to out.
func NewSession(rt *nanoui.Runtime, out io.Writer) *Session {
	return &Session{rt: rt, out: out}
}

// Start runs the REPL with line editing, history, and tab completion until
// the user quits.
func Start(rt *nanoui.Runtime, out io.Writer, opts Options) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	s := NewSession(rt, out)
	line.SetCompleter(s.Complete)

	historyFile := expandHome(opts.HistoryFile)
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".nanoui_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if opts.Version != "" {
		fmt.Fprintln(out, "nanoui", opts.Version)
	}
	fmt.Fprintln(out, "Type ':help' for commands, Tab for completion, Ctrl+D to quit")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("error reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if quit := s.Execute(input); quit {
			return nil
		}
	}
}

// Execute handles one line of input and reports whether the user asked to
// quit.
func (s *Session) Execute(input string) bool {
	trimmed := strings.TrimSpace(input)
	switch trimmed {
	case "":
		return false
	case "exit", "quit", ":quit", ":q":
		return true
	}

	if strings.HasPrefix(trimmed, ":") {
		s.command(trimmed)
		return false
	}

	var result string
	if strings.Contains(trimmed, "{") && !isWrapped(trimmed) {
		result = s.rt.Interpolate(trimmed)
	} else {
		result = s.rt.Evaluate(trimmed)
	}
	if result == "" {
		result = "(empty)"
	}
	fmt.Fprintln(s.out, result)
	return false
}

// isWrapped reports whether expr is a single {expr} or ${expr}.
func isWrapped(expr string) bool {
	expr = strings.TrimPrefix(expr, "$")
	return strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") &&
		strings.Count(expr, "{") == 1 && strings.Count(expr, "}") == 1
}

func (s *Session) command(cmd string) {
	name, rest, _ := strings.Cut(cmd, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case ":help", ":h", ":?", ":describe":
		if rest == "" {
			printCommands(s.out)
			return
		}
		result, err := help.DescribeTopic(rest)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		fmt.Fprint(s.out, help.FormatText(result))

	case ":state":
		printState(s.rt.Store(), s.out)

	case ":set", ":add", ":sub", ":append", ":remove":
		path, arg, ok := strings.Cut(rest, " ")
		if !ok || !state.IsPath(state.StripPrefix(path)) {
			fmt.Fprintf(s.out, "usage: %s PATH VALUE\n", name)
			return
		}
		a := mutation(name, path, strings.TrimSpace(arg))
		if err := s.rt.Dispatch(a); err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		v, _ := s.rt.Store().Get(path)
		fmt.Fprintf(s.out, "%s = %s\n", state.StripPrefix(path), display(v))

	case ":render":
		tree := s.rt.Render()
		if tree == nil {
			fmt.Fprintln(s.out, "(no tree loaded)")
			return
		}
		fmt.Fprint(s.out, tree.Dump())

	case ":if":
		fmt.Fprintln(s.out, s.rt.Condition(rest))

	case ":num":
		if n, ok := s.rt.Number(rest); ok {
			fmt.Fprintln(s.out, value.FormatNumber(n))
		} else {
			fmt.Fprintln(s.out, "null")
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", name)
	}
}

func mutation(cmd, path, arg string) action.Action {
	arg = unquote(arg)
	switch cmd {
	case ":add":
		return action.Add(path, arg)
	case ":sub":
		return action.Subtract(path, arg)
	case ":append":
		return action.Append(path, arg)
	case ":remove":
		return action.Remove(path, arg)
	default:
		return action.Set(path, arg)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func printCommands(out io.Writer) {
	fmt.Fprintln(out, "REPL Commands:")
	fmt.Fprintln(out, "  :help [TOPIC]       Show this help, or describe a topic")
	fmt.Fprintln(out, "  :state              Show state variables")
	fmt.Fprintln(out, "  :set PATH VALUE     Set a state variable")
	fmt.Fprintln(out, "  :add PATH N         Add to a number")
	fmt.Fprintln(out, "  :sub PATH N         Subtract from a number")
	fmt.Fprintln(out, "  :append PATH ITEM   Append to a list")
	fmt.Fprintln(out, "  :remove PATH ITEM   Remove from a list")
	fmt.Fprintln(out, "  :render             Render the loaded tree")
	fmt.Fprintln(out, "  :if CONDITION       Evaluate a condition")
	fmt.Fprintln(out, "  :num EXPR           Evaluate to a number or null")
	fmt.Fprintln(out, "  :quit, exit         Exit the REPL")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Anything else is evaluated; text containing {expr} is interpolated.")
	fmt.Fprintln(out, "Help topics: "+strings.Join(help.Topics, ", "))
}

// printState displays all state variables sorted by name
func printState(store *state.Store, out io.Writer) {
	keys := store.Keys()
	if len(keys) == 0 {
		fmt.Fprintln(out, "(no state)")
		return
	}
	for _, k := range keys {
		v, _ := store.Get(k)
		fmt.Fprintf(out, "  %s: %s = %s\n", k, strings.ToLower(string(v.Kind())), display(v))
	}
}

func display(v value.Value) string {
	if v == nil {
		return "(unset)"
	}
	s := v.String()
	if _, ok := v.(value.Str); ok {
		s = fmt.Sprintf("%q", s)
	}
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

// Complete returns completions for line, ranked by fuzzy match score. Only
// the word under the cursor at the end of line is completed.
func (s *Session) Complete(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !isWordRune(r)
	}) + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var head, query string
	var candidates []string
	switch {
	case strings.HasPrefix(word, ":"):
		if start != 0 {
			return nil
		}
		query, candidates = word, Commands
	case strings.Contains(word, "."):
		dot := strings.LastIndexByte(word, '.')
		head, query = word[:dot+1], word[dot+1:]
		candidates = s.memberCandidates(head)
	default:
		query, candidates = word, s.identifierCandidates()
	}
	if query == "" {
		return nil
	}

	matches := fuzzy.Find(query, candidates)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, prefix+head+m.Str)
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// identifierCandidates are state keys, built-ins and the len function.
func (s *Session) identifierCandidates() []string {
	seen := map[string]bool{}
	var words []string
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, k := range s.rt.Store().Keys() {
		add(strings.SplitN(k, ".", 2)[0])
	}
	for _, b := range evaluator.Builtins {
		add(b.Name)
	}
	for _, w := range []string{"state", "len(", "true", "false", "not"} {
		add(w)
	}
	return words
}

// memberCandidates completes after a dot: nested state keys under head, and
// string methods.
func (s *Session) memberCandidates(head string) []string {
	base := state.StripPrefix(head)
	var words []string
	seen := map[string]bool{}
	for _, k := range s.rt.Store().Keys() {
		if rest, ok := strings.CutPrefix(k, base); ok && rest != "" {
			next := strings.SplitN(rest, ".", 2)[0]
			if !seen[next] {
				seen[next] = true
				words = append(words, next)
			}
		}
	}
	if head != "state." {
		for _, name := range evaluator.StringMethods.Names() {
			words = append(words, name+"(")
		}
	}
	return words
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
