package nanoui

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sambeau/nanoui/config"
)

func TestBufferedLogger(t *testing.T) {
	l := NewBufferedLogger()
	l.Log("partial")
	l.LogLine("line", 1)
	l.LogLine("second")

	lines := l.Lines()
	if len(lines) != 2 || lines[0] != "partialline 1" || lines[1] != "second" {
		t.Errorf("lines = %q", lines)
	}
	if got := l.String(); got != "partialline 1\nsecond\n" {
		t.Errorf("String() = %q", got)
	}

	l.Reset()
	if got := l.String(); got != "" {
		t.Errorf("after Reset String() = %q", got)
	}
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := WriterLogger(&buf)
	l.LogLine("unresolved expression:", "x.y")
	if got := buf.String(); got != "unresolved expression: x.y\n" {
		t.Errorf("got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelWarn},
		{"loud", LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelLogger_Filters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger(&buf, LevelInfo, "text")
	l.now = fixedNow

	l.LogLine("hidden")
	l.Debug("hidden too")
	l.Info("shown")
	l.Error("bad", 42)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug output leaked: %q", got)
	}
	want := "2024-03-05T14:07:09Z info  shown\n2024-03-05T14:07:09Z error bad 42\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLevelLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger(&buf, LevelDebug, "json").WithTree("0123456789abcdef")
	l.now = fixedNow

	l.Warn("careful")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	want := LogEntry{Timestamp: "2024-03-05T14:07:09Z", Level: "warn", Tree: "0123456789abcdef", Message: "careful"}
	if entry != want {
		t.Errorf("entry = %+v, want %+v", entry, want)
	}
}

func TestLevelLogger_TextTree(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger(&buf, LevelDebug, "text").WithTree("0123456789abcdef")
	l.now = fixedNow

	l.LogLine("applied", "count")
	if got := buf.String(); got != "2024-03-05T14:07:09Z debug [01234567] applied count\n" {
		t.Errorf("got %q", got)
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer

	l, err := NewLoggerFromConfig(config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"}, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to stdout")
	if !strings.Contains(stdout.String(), "to stdout") || stderr.Len() != 0 {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}

	path := filepath.Join(t.TempDir(), "nanoui.log")
	fl, err := NewLoggerFromConfig(config.LoggingConfig{Level: "warn", Format: "json", Output: path}, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	fl.now = func() time.Time { return time.Unix(0, 0).UTC() }
	fl.Warn("to file")
	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"message":"to file"`) {
		t.Errorf("file contents = %q", data)
	}
}
