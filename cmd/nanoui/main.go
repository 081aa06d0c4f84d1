package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sambeau/nanoui/config"
	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
	"github.com/sambeau/nanoui/pkg/nanoui/format"
	"github.com/sambeau/nanoui/pkg/nanoui/help"
	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/nanoui"
	"github.com/sambeau/nanoui/pkg/nanoui/repl"
)

// Version information, set at build time via -ldflags
var (
	Version = "dev"     // -X main.Version=$(git describe --tags --always)
	Commit  = "unknown" // -X main.Commit=$(git rev-parse --short HEAD)
)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("nanoui", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "nanoui version %s (%s)\n", Version, Commit)
		return nil
	}

	rest := flags.Args()
	if *showHelp || len(rest) == 0 {
		printUsage(stdout)
		return nil
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "help":
		printUsage(stdout)
		return nil
	case "describe":
		return runDescribe(cmdArgs, stdout, stderr)
	case "eval", "render", "repl":
	default:
		return nerrors.New("CLI-0001", map[string]any{"Command": cmd})
	}

	cfg, _, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := nanoui.NewLoggerFromConfig(cfg.Logging, stdout, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	app := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	switch cmd {
	case "eval":
		return app.eval(cmdArgs)
	case "render":
		return app.render(ctx, cmdArgs)
	default:
		return app.repl(cmdArgs)
	}
}

// app carries what every command needs once config is loaded.
type app struct {
	cfg    *config.Config
	logger *nanoui.LevelLogger
	stdout io.Writer
	stderr io.Writer
}

// runtimeFlags are shared by eval and render.
type runtimeFlags struct {
	statePath string
	now       string
}

func (f *runtimeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.statePath, "state", "", "JSON or YAML file of state values")
	fs.StringVar(&f.now, "now", "", "Fixed time for the current* built-ins")
}

// options turns config and flags into runtime options. State from the file
// is merged into root's declarations.
func (a *app) options(root *ir.Node, f runtimeFlags) ([]nanoui.Option, error) {
	opts := []nanoui.Option{
		nanoui.WithLocale(a.cfg.Locale),
		nanoui.WithLogger(a.logger),
	}

	if f.now != "" {
		loc, err := a.cfg.Location()
		if err != nil {
			return nil, err
		}
		t, ok := format.ParseTime(f.now, loc)
		if !ok {
			return nil, nerrors.New("CLI-0002", map[string]any{"Value": f.now})
		}
		opts = append(opts, nanoui.WithClock(func() time.Time { return t }))
	}

	if f.statePath != "" {
		vars, err := loadState(f.statePath)
		if err != nil {
			return nil, err
		}
		root.State = mergeState(root.State, vars)
	}
	return opts, nil
}

func (a *app) eval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var rf runtimeFlags
	rf.register(fs)
	condition := fs.Bool("c", false, "Evaluate as a condition (true/false)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if expr == "" {
		return fmt.Errorf("eval requires an expression")
	}

	root := &ir.Node{Type: "Column"}
	opts, err := a.options(root, rf)
	if err != nil {
		return err
	}
	rt, err := nanoui.New(root, opts...)
	if err != nil {
		return err
	}

	switch {
	case *condition:
		fmt.Fprintln(a.stdout, rt.Condition(expr))
	case strings.Contains(expr, "{") && !isSingleMarker(expr):
		fmt.Fprintln(a.stdout, rt.Interpolate(expr))
	default:
		fmt.Fprintln(a.stdout, rt.Evaluate(expr))
	}
	return nil
}

// isSingleMarker reports whether expr is exactly one {expr} or ${expr}.
func isSingleMarker(expr string) bool {
	expr = strings.TrimPrefix(expr, "$")
	return strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") &&
		strings.Count(expr, "{") == 1 && strings.Count(expr, "}") == 1
}

func (a *app) render(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var rf runtimeFlags
	rf.register(fs)
	asJSON := fs.Bool("json", false, "Print the resolved tree as JSON")
	watch := fs.Bool("watch", false, "Re-render when the file changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("render requires exactly one IR file")
	}
	path := fs.Arg(0)
	jsonOut := *asJSON || strings.EqualFold(a.cfg.Render.Format, "json")

	if err := a.renderOnce(path, rf, jsonOut); err != nil {
		if !*watch {
			return err
		}
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
	if !*watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fw, err := newFileWatcher(path)
	if err != nil {
		return err
	}
	defer fw.Close()
	a.logger.Info("watching", path)

	return fw.Run(ctx, a.cfg.Watch.Debounce, func() {
		fmt.Fprintf(a.stdout, "--- %s changed ---\n", filepath.Base(path))
		if err := a.renderOnce(path, rf, jsonOut); err != nil {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		}
	}, func(err error) {
		a.logger.Error("watcher error:", err)
	})
}

// renderOnce loads path into a fresh runtime and prints its resolved tree.
func (a *app) renderOnce(path string, rf runtimeFlags, jsonOut bool) error {
	root, err := ir.LoadFile(path)
	if err != nil {
		return err
	}
	opts, err := a.options(root, rf)
	if err != nil {
		return err
	}
	rt, err := nanoui.New(root, opts...)
	if err != nil {
		return err
	}

	tree := rt.Render()
	if !jsonOut {
		fmt.Fprint(a.stdout, tree.Dump())
		return nil
	}
	data, err := json.MarshalIndent(tree, "", strings.Repeat(" ", a.cfg.Render.Indent))
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	fmt.Fprintf(a.stdout, "%s\n", data)
	return nil
}

func (a *app) repl(args []string) error {
	var (
		rt  *nanoui.Runtime
		err error
	)
	opts := []nanoui.Option{nanoui.WithLocale(a.cfg.Locale), nanoui.WithLogger(a.logger)}
	if len(args) > 0 {
		rt, err = nanoui.LoadFile(args[0], opts...)
	} else {
		rt, err = nanoui.New(nil, opts...)
	}
	if err != nil {
		return err
	}
	return repl.Start(rt, a.stdout, repl.Options{
		Prompt:      a.cfg.REPL.Prompt,
		HistoryFile: a.cfg.REPL.HistoryFile,
		Version:     Version,
	})
}

// loadState reads a state file: an object of name: value pairs, or full
// {type, defaultValue} declarations.
func loadState(path string) ([]ir.StateVar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var p ir.Prop
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = ir.ParseYAML(data)
	default:
		p, err = ir.ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if _, ok := p.(ir.Object); !ok {
		return nil, nerrors.New("CLI-0003", nil).WithFile(path)
	}
	return ir.DecodeState(p)
}

// mergeState overrides declared defaults with values from a state file. A
// declared variable keeps its type; undeclared ones are added.
func mergeState(declared, overrides []ir.StateVar) []ir.StateVar {
	out := append([]ir.StateVar(nil), declared...)
	for _, o := range overrides {
		found := false
		for i := range out {
			if out[i].Name == o.Name {
				out[i].Default = o.Default
				found = true
				break
			}
		}
		if !found {
			out = append(out, o)
		}
	}
	return out
}

// runDescribe implements the 'nanoui describe <topic>' subcommand
func runDescribe(args []string, stdout, stderr io.Writer) error {
	jsonOutput := false
	var topic string
	for _, arg := range args {
		if arg == "--json" || arg == "-json" {
			jsonOutput = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if topic == "" {
		fmt.Fprintln(stderr, `Usage: nanoui describe [--json] <topic>

Topics:
  builtins      Built-in template variables
  methods       String methods
  operators     Operators in expressions and conditions
  actions       Action types and state operations
  types         State variable types
  formats       Table column formats
  <name>        A single builtin, method or action type`)
		return fmt.Errorf("describe requires a topic")
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := help.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", data)
		return nil
	}
	fmt.Fprint(stdout, help.FormatText(result))
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `nanoui - NanoUI expression and tree evaluator

Usage:
  nanoui [--config FILE] eval [-state FILE] [-now TIME] [-c] EXPR
  nanoui [--config FILE] render [-state FILE] [-now TIME] [-json] [-watch] IR_FILE
  nanoui describe [--json] TOPIC
  nanoui [--config FILE] repl [IR_FILE]

Commands:
  eval        Evaluate an expression, template or (-c) condition
  render      Resolve an IR tree (.json, .yaml) and print it
  describe    Show help for builtins, methods, operators, actions, types
  repl        Interactive evaluator over a tree's state

Options:
  --config FILE   Config file (default: $NANOUI_CONFIG, ./nanoui.yaml,
                  ~/.config/nanoui/nanoui.yaml)
  --version       Show version
  --help          Show this help

Examples:
  nanoui eval "1 + 2 * 3"
  nanoui eval -state state.json "Hello {user.name.title()}"
  nanoui eval -c -state state.json "'admin' in state.roles"
  nanoui eval -now "March 5, 2024" "{currentMonthName} {currentYear}"
  nanoui render -watch screen.yaml
  nanoui describe operators
`)
}
