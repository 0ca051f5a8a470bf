package main

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"
)

type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func TestLineREPLEvaluatesAndKeepsState(t *testing.T) {
	var stdout, stderr bytes.Buffer
	repl := newLineREPL(defaultConfig(), &stdout, &stderr)
	reader := &scriptedReader{lines: []string{
		"x = 1;",
		"func f(a) {",
		"  return a + x;",
		"}",
		"echo f(41);",
		".exit",
		"echo 99;",
	}}

	repl.loop(reader)

	out := stdout.String()
	if !strings.HasPrefix(out, "Welcome to Chonk "+version+".") {
		t.Fatalf("missing banner: %q", out)
	}
	if !strings.HasSuffix(out, "42\n") {
		t.Fatalf("unexpected output: %q", out)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}

	wantPrompts := []string{">> ", ">> ", ".. ", ".. ", ">> ", ">> "}
	if !slices.Equal(reader.prompts, wantPrompts) {
		t.Fatalf("unexpected prompts %q", reader.prompts)
	}
	if len(reader.history) != 4 || reader.history[1] != "func f(a) {   return a + x; }" {
		t.Fatalf("unexpected history %q", reader.history)
	}
}

func TestLineREPLReportsErrorsAndContinues(t *testing.T) {
	var stdout, stderr bytes.Buffer
	repl := newLineREPL(defaultConfig(), &stdout, &stderr)
	reader := &scriptedReader{lines: []string{
		"echo missing;",
		"echo 1 +;",
		"echo \"still here\";",
	}}

	repl.loop(reader)

	if !strings.Contains(stderr.String(), `Undefined variable "missing"`) {
		t.Fatalf("expected runtime error on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "ParseError") {
		t.Fatalf("expected parse error on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "still here\n") {
		t.Fatalf("repl should keep running after errors, got %q", stdout.String())
	}
}

func TestLineREPLCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	repl := newLineREPL(defaultConfig(), &stdout, &stderr)
	reader := &scriptedReader{lines: []string{
		"x = 5;",
		".help",
		".clear",
		"echo x;",
		".bogus",
	}}

	repl.loop(reader)

	out := stdout.String()
	if !strings.Contains(out, ".clear  reset the interpreter") {
		t.Fatalf("expected help text, got %q", out)
	}
	if !strings.Contains(out, "Interpreter reset.") {
		t.Fatalf("expected reset message, got %q", out)
	}
	errOut := stderr.String()
	if !strings.Contains(errOut, `Undefined variable "x"`) {
		t.Fatalf(".clear should drop definitions, got %q", errOut)
	}
	if !strings.Contains(errOut, "Unknown command .bogus") {
		t.Fatalf("expected unknown command message, got %q", errOut)
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"echo 1;", false},
		{"func f() {", true},
		{"func f() {\n}", false},
		{"echo (1 +", true},
		{"echo \"open", true},
		{"echo \"closed\";", false},
		{"}", false},
		{"echo @;", false},
	}
	for _, tt := range tests {
		if got := needsMoreInput(tt.source); got != tt.want {
			t.Fatalf("needsMoreInput(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}
