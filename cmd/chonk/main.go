package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/oarkflow/log"

	"github.com/mgomes/chonk/chonk"
)

const version = "0.1.0"

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return runDefault()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "lsp":
		return runLSP()
	case "version", "-v", "--version":
		fmt.Printf("chonk %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		if isScriptPath(args[1]) {
			return runCommand(args[1:])
		}
		return usageError()
	}
}

// runDefault starts the REPL on a terminal and otherwise runs stdin as a
// program.
func runDefault() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		if cfg.TUI {
			return runTUI(cfg)
		}
		return runLineREPL(cfg)
	}
	return runStdin(os.Stdin, os.Stdout, newLogger(cfg.Verbose))
}

func runStdin(r io.Reader, stdout io.Writer, logger *log.Logger) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return runSource(string(input), stdout, logger)
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("verbose", false, "log pipeline phases to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("chonk run: script path required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	return runSource(source, os.Stdout, newLogger(*verbose || cfg.Verbose))
}

func runSource(source string, stdout io.Writer, logger *log.Logger) error {
	in := chonk.NewInterpreter(chonk.Config{Stdout: stdout, Logger: logger})
	err := in.Run(source)
	for _, diag := range in.Diagnostics() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", diag)
	}
	if err != nil {
		return &scriptError{err: err, source: source}
	}
	return nil
}

func readScript(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(input), nil
}

func isScriptPath(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if filepath.Ext(arg) == chonkExt {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// scriptError renders a language error with its code frame.
type scriptError struct {
	err    error
	source string
}

func (e *scriptError) Error() string {
	return chonk.FormatError(e.err, e.source)
}

func (e *scriptError) Unwrap() error {
	return e.err
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return nil
	}
	return &log.DefaultLogger
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [command] [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-verbose] <script>   run a script (also: chonk <script>)")
	fmt.Fprintln(os.Stderr, "  tokens [-json] <script>   print the token stream")
	fmt.Fprintln(os.Stderr, "  ast <script>              print the parsed program")
	fmt.Fprintln(os.Stderr, "  analyze <script>          report unreachable code and stray break/continue")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path>  normalize whitespace in .chonk files")
	fmt.Fprintln(os.Stderr, "  repl [-tui]               start an interactive session")
	fmt.Fprintln(os.Stderr, "  lsp                       serve the language server protocol on stdio")
	fmt.Fprintln(os.Stderr, "  version                   print the version")
	fmt.Fprintln(os.Stderr, "With no command, a terminal starts the REPL and piped input is run as a script.")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
