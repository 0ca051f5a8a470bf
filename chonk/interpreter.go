package chonk

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/oarkflow/log"
)

// Config controls the host side of an Interpreter. Zero fields take the
// defaults noted on each.
type Config struct {
	// Stdout receives echo output. Defaults to os.Stdout.
	Stdout io.Writer
	// Now backs the clock builtin. Defaults to time.Now.
	Now func() time.Time
	// Logger, when set, receives pipeline summaries and parser diagnostics.
	Logger *log.Logger
}

// Interpreter evaluates programs against a global environment that persists
// across calls, so a REPL can feed it one line at a time.
type Interpreter struct {
	stdout io.Writer
	now    func() time.Time
	logger *log.Logger

	globals     *Env
	builtins    []string
	callStack   []callFrame
	diagnostics []*ParseError
}

type callFrame struct {
	Function string
	Pos      Position
}

func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	in := &Interpreter{
		stdout:  cfg.Stdout,
		now:     cfg.Now,
		logger:  cfg.Logger,
		globals: NewEnv(nil),
	}
	registerCoreBuiltins(in)
	return in
}

// Globals returns the outermost environment level.
func (in *Interpreter) Globals() *Env { return in.globals }

// SetOutput redirects echo output for subsequent runs.
func (in *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	in.stdout = w
}

// Diagnostics returns the non-fatal parser diagnostics from the last Run.
func (in *Interpreter) Diagnostics() []*ParseError {
	return in.diagnostics
}

// Interpret executes a parsed program. A runtime error stops the program but
// keeps every binding made before the failing statement.
func (in *Interpreter) Interpret(statements []Statement) error {
	in.callStack = in.callStack[:0]

	sig, err := in.execBlock(statements, in.globals)
	if err != nil {
		return err
	}
	switch sig.Kind {
	case SignalBreak, SignalContinue:
		return in.attachFrames(invalidControl(sig.Keyword))
	}
	return nil
}

// Run scans, parses and interprets source. Runtime errors carry a code frame
// for the failing line.
func (in *Interpreter) Run(source string) error {
	start := in.now()
	in.diagnostics = nil

	tokens, err := Scan(source)
	if err != nil {
		return err
	}

	parser := NewParser(tokens)
	statements, err := parser.Parse()
	in.diagnostics = parser.Diagnostics()
	if in.logger != nil {
		for _, diag := range in.diagnostics {
			in.logger.Warn().Int("line", diag.Line()).Str("diagnostic", diag.Error()).Msg("parser diagnostic")
		}
	}
	if err != nil {
		return err
	}
	if in.logger != nil {
		in.logger.Info().Int("tokens", len(tokens)).Int("statements", len(statements)).Msg("parsed program")
	}

	err = in.Interpret(statements)
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) && runtimeErr.CodeFrame == "" {
		runtimeErr.CodeFrame = formatCodeFrame(source, runtimeErr.Pos)
	}
	if in.logger != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		in.logger.Info().Dur("duration", in.now().Sub(start)).Str("status", status).Msg("program finished")
	}
	return err
}

// Run executes source on a fresh interpreter writing to stdout.
func Run(source string, stdout io.Writer) error {
	return NewInterpreter(Config{Stdout: stdout}).Run(source)
}
