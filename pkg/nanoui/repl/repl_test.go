package repl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/nanoui"
)

const doc = `{
	"type": "Column",
	"state": {
		"count": 3,
		"name": "ada",
		"tags": ["go"],
		"user.name": "grace"
	},
	"children": [
		{"type": "Text", "props": {"id": "label", "content": "{count} items"}}
	]
}`

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	root, err := ir.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	rt, err := nanoui.New(root, nanoui.WithClock(func() time.Time {
		return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var buf bytes.Buffer
	return NewSession(rt, &buf), &buf
}

func TestExecute(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"count + 1", "4\n"},
		{"{count}", "3\n"},
		{"Hello {name.title()}, it is {currentYear}", "Hello Ada, it is 2024\n"},
		{"user.name", "grace\n"},
		{"len(tags)", "1\n"},
		{"missing", "(empty)\n"},
		{":if count > 2", "true\n"},
		{":if 'go' in state.tags", "true\n"},
		{":num count / 2", "1.5\n"},
		{":num nosuch", "null\n"},
		{":set", "usage: :set PATH VALUE\n"},
		{":bogus", "Unknown command: :bogus (type :help for commands)\n"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, buf := newSession(t)
			if quit := s.Execute(tt.input); quit {
				t.Fatal("unexpected quit")
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecute_Mutations(t *testing.T) {
	s, buf := newSession(t)

	script := []string{
		":set count 10",
		":add count 5",
		":sub state.count 1",
		":append tags 'rust'",
		":remove tags go",
		":set name \"Grace Hopper\"",
		"count",
	}
	for _, line := range script {
		s.Execute(line)
	}

	want := strings.Join([]string{
		"count = 10",
		"count = 15",
		"count = 14",
		"tags = [go, rust]",
		"tags = [rust]",
		`name = "Grace Hopper"`,
		"14",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExecute_StateAndRender(t *testing.T) {
	s, buf := newSession(t)

	s.Execute(":state")
	want := "  count: int = 3\n  name: str = \"ada\"\n  tags: list = [go]\n  user.name: str = \"grace\"\n"
	if got := buf.String(); got != want {
		t.Errorf(":state got %q, want %q", got, want)
	}

	buf.Reset()
	s.Execute(":render")
	if got := buf.String(); !strings.Contains(got, `Text#label content="3 items"`) {
		t.Errorf(":render got %q", got)
	}
}

func TestExecute_Help(t *testing.T) {
	s, buf := newSession(t)

	s.Execute(":help")
	if !strings.Contains(buf.String(), ":append PATH ITEM") {
		t.Errorf(":help got %q", buf.String())
	}

	buf.Reset()
	s.Execute(":help operators")
	if !strings.Contains(buf.String(), "Comparison:") {
		t.Errorf(":help operators got %q", buf.String())
	}

	buf.Reset()
	s.Execute(":help nope")
	if !strings.Contains(buf.String(), "unknown help topic") {
		t.Errorf(":help nope got %q", buf.String())
	}
}

func TestExecute_Quit(t *testing.T) {
	for _, input := range []string{"exit", "quit", ":quit", ":q", "  quit  "} {
		s, _ := newSession(t)
		if !s.Execute(input) {
			t.Errorf("Execute(%q) should quit", input)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		line      string
		wantFirst string
	}{
		{":st", ":state"},
		{"cou", "count"},
		{"1 + na", "1 + name"},
		{"name.ti", "name.title("},
		{"state.ta", "state.tags"},
		{"user.n", "user.name"},
		{"currentY", "currentYear"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, _ := newSession(t)
			got := s.Complete(tt.line)
			if len(got) == 0 || got[0] != tt.wantFirst {
				t.Errorf("Complete(%q) = %q, want first %q", tt.line, got, tt.wantFirst)
			}
		})
	}
}

func TestComplete_Nothing(t *testing.T) {
	s, _ := newSession(t)
	for _, line := range []string{"", "   ", "count ", "count.", "1 + :st"} {
		if got := s.Complete(line); len(got) != 0 {
			t.Errorf("Complete(%q) = %q, want none", line, got)
		}
	}
}

func TestIsWrapped(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"{count}", true},
		{"${count}", true},
		{"{a} and {b}", false},
		{"a {b}", false},
	}
	for _, tt := range tests {
		if got := isWrapped(tt.in); got != tt.want {
			t.Errorf("isWrapped(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
