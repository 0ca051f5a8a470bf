package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/mgomes/chonk/chonk"
)

const lineREPLHelp = `.clear  reset the interpreter and forget all definitions
.exit   leave the REPL (also ctrl+d)
.help   show this message
`

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	tui := fs.Bool("tui", false, "start the full-screen REPL")
	verbose := fs.Bool("verbose", false, "log pipeline phases to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || *verbose
	if *tui || cfg.TUI {
		return runTUI(cfg)
	}
	return runLineREPL(cfg)
}

// promptReader is the part of *liner.State the REPL loop needs.
type promptReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type lineREPL struct {
	interp         *chonk.Interpreter
	cfg            cliConfig
	stdout         io.Writer
	stderr         io.Writer
	newInterpreter func() *chonk.Interpreter
}

func newLineREPL(cfg cliConfig, stdout, stderr io.Writer) *lineREPL {
	r := &lineREPL{cfg: cfg, stdout: stdout, stderr: stderr}
	r.newInterpreter = func() *chonk.Interpreter {
		return chonk.NewInterpreter(chonk.Config{Stdout: r.stdout, Logger: newLogger(cfg.Verbose)})
	}
	r.interp = r.newInterpreter()
	return r
}

func runLineREPL(cfg cliConfig) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	repl := newLineREPL(cfg, os.Stdout, os.Stderr)
	repl.loop(ln)

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

func (r *lineREPL) loop(reader promptReader) {
	fmt.Fprintf(r.stdout, "Welcome to Chonk %s.\nType \".help\" for more information.\n", version)
	for {
		input, ok := r.read(reader)
		if !ok {
			fmt.Fprintln(r.stdout)
			return
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		reader.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if strings.HasPrefix(trimmed, ".") {
			if r.command(trimmed) {
				return
			}
			continue
		}
		r.eval(input)
	}
}

// read collects lines until brackets and strings are closed. ok is false on
// ctrl+c, ctrl+d or end of input.
func (r *lineREPL) read(reader promptReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := r.cfg.Prompt
		if b.Len() > 0 {
			prompt = r.cfg.ContinuationPrompt
		}
		line, err := reader.Prompt(prompt)
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}

func (r *lineREPL) command(input string) (exit bool) {
	switch strings.Fields(input)[0] {
	case ".exit":
		return true
	case ".help":
		fmt.Fprint(r.stdout, lineREPLHelp)
	case ".clear":
		r.interp = r.newInterpreter()
		fmt.Fprintln(r.stdout, "Interpreter reset.")
	default:
		fmt.Fprintf(r.stderr, "Unknown command %s. Type \".help\" for help.\n", input)
	}
	return false
}

func (r *lineREPL) eval(input string) {
	err := r.interp.Run(input)
	for _, diag := range r.interp.Diagnostics() {
		fmt.Fprintln(r.stderr, mutedStyle.Render("warning: "+diag.Error()))
	}
	if err != nil {
		fmt.Fprintln(r.stderr, errorStyle.Render(chonk.FormatError(err, input)))
	}
}

// needsMoreInput reports whether source stops inside a string literal or
// with an unclosed ( or {.
func needsMoreInput(source string) bool {
	tokens, err := chonk.Scan(source)
	if err != nil {
		var lexErr *chonk.LexError
		return errors.As(err, &lexErr) && lexErr.Kind == chonk.LexUnterminatedString
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case chonk.TokenLParen, chonk.TokenLBrace:
			depth++
		case chonk.TokenRParen, chonk.TokenRBrace:
			depth--
		}
	}
	return depth > 0
}
