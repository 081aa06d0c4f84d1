package nanoui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sambeau/nanoui/config"
	"github.com/sambeau/nanoui/pkg/nanoui/evaluator"
)

// Logger is an alias for evaluator.Logger for convenience
type Logger = evaluator.Logger

// writerLogger writes to an io.Writer
type writerLogger struct {
	w io.Writer
}

func (l *writerLogger) Log(values ...any) {
	fmt.Fprint(l.w, formatLogValues(values...))
}

func (l *writerLogger) LogLine(values ...any) {
	fmt.Fprintln(l.w, formatLogValues(values...))
}

// WriterLogger returns a logger that writes to an io.Writer
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// BufferedLogger captures log output for later retrieval
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

// NewBufferedLogger creates a new buffered logger
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{
		lines: make([]string, 0),
	}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(formatLogValues(values...))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := l.buf.String() + formatLogValues(values...)
	l.lines = append(l.lines, line)
	l.buf.Reset()
}

// String returns all captured output as a single string
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := strings.Join(l.lines, "\n")
	if len(l.lines) > 0 {
		result += "\n"
	}
	if l.buf.Len() > 0 {
		result += l.buf.String()
	}
	return result
}

// Lines returns a copy of the captured log lines
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.lines))
	copy(result, l.lines)
	return result
}

// Reset clears all captured output
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = l.lines[:0]
	l.buf.Reset()
}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return evaluator.NopLogger
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel maps a config level name to a Level. Unknown names are warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// LogEntry is one line of JSON log output.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Tree      string `json:"tree,omitempty"`
	Message   string `json:"message"`
}

// LevelLogger filters by level and writes text or JSON lines. Log and
// LogLine, which the evaluator and dispatcher call, write at debug level.
type LevelLogger struct {
	mu     *sync.Mutex
	w      io.Writer
	min    Level
	json   bool
	tree   string
	now    func() time.Time
	closer io.Closer
}

// NewLevelLogger returns a logger writing entries at or above min to w.
// format is "text" or "json".
func NewLevelLogger(w io.Writer, min Level, format string) *LevelLogger {
	return &LevelLogger{
		mu:   &sync.Mutex{},
		w:    w,
		min:  min,
		json: strings.EqualFold(format, "json"),
		now:  time.Now,
	}
}

// NewLoggerFromConfig builds a LevelLogger from the logging section of the
// config. Output is "stderr", "stdout" or a file path opened for append.
func NewLoggerFromConfig(cfg config.LoggingConfig, stdout, stderr io.Writer) (*LevelLogger, error) {
	var w io.Writer
	var closer io.Closer
	switch cfg.Output {
	case "", "stderr":
		w = stderr
	case "stdout":
		w = stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}
	l := NewLevelLogger(w, ParseLevel(cfg.Level), cfg.Format)
	l.closer = closer
	return l, nil
}

// WithTree returns a copy of l that tags every entry with a tree id.
func (l *LevelLogger) WithTree(id string) *LevelLogger {
	return &LevelLogger{mu: l.mu, w: l.w, min: l.min, json: l.json, tree: id, now: l.now, closer: l.closer}
}

// Close closes the log file, if the logger opened one.
func (l *LevelLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *LevelLogger) Log(values ...any)     { l.write(LevelDebug, values) }
func (l *LevelLogger) LogLine(values ...any) { l.write(LevelDebug, values) }

func (l *LevelLogger) Debug(values ...any) { l.write(LevelDebug, values) }
func (l *LevelLogger) Info(values ...any)  { l.write(LevelInfo, values) }
func (l *LevelLogger) Warn(values ...any)  { l.write(LevelWarn, values) }
func (l *LevelLogger) Error(values ...any) { l.write(LevelError, values) }

// Enabled reports whether entries at level would be written.
func (l *LevelLogger) Enabled(level Level) bool {
	return level >= l.min
}

func (l *LevelLogger) write(level Level, values []any) {
	if !l.Enabled(level) {
		return
	}
	entry := LogEntry{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     level.String(),
		Tree:      l.tree,
		Message:   formatLogValues(values...),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.json {
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(l.w, "%s\n", data)
		return
	}
	if entry.Tree != "" {
		fmt.Fprintf(l.w, "%s %-5s [%s] %s\n", entry.Timestamp, entry.Level, shortID(entry.Tree), entry.Message)
		return
	}
	fmt.Fprintf(l.w, "%s %-5s %s\n", entry.Timestamp, entry.Level, entry.Message)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatLogValues joins values with single spaces
func formatLogValues(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
