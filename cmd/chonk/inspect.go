package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/oarkflow/json"

	"github.com/mgomes/chonk/chonk"
)

type tokenRecord struct {
	Type    string `json:"type"`
	Lexeme  string `json:"lexeme"`
	Literal any    `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	asJSON := fs.Bool("json", false, "print tokens as a JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("chonk tokens: script path required")
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	tokens, err := chonk.Scan(source)
	if err != nil {
		return &scriptError{err: err, source: source}
	}
	if *asJSON {
		return writeTokensJSON(os.Stdout, tokens)
	}
	return writeTokensText(os.Stdout, tokens)
}

func writeTokensText(w io.Writer, tokens []chonk.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		literal := ""
		if tok.Literal != nil && tok.Type != chonk.TokenTrue && tok.Type != chonk.TokenFalse && tok.Type != chonk.TokenNull {
			literal = tok.Literal.String()
		}
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Lexeme, literal)
	}
	return tw.Flush()
}

func writeTokensJSON(w io.Writer, tokens []chonk.Token) error {
	records := make([]tokenRecord, 0, len(tokens))
	for _, tok := range tokens {
		records = append(records, tokenRecord{
			Type:    string(tok.Type),
			Lexeme:  tok.Lexeme,
			Literal: literalJSON(tok.Literal),
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// literalJSON maps a literal onto a JSON value. Non-finite numbers have no
// JSON form and are written as strings.
func literalJSON(lit chonk.Literal) any {
	switch l := lit.(type) {
	case chonk.NumberLiteral:
		f := float64(l)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return l.String()
		}
		return f
	case chonk.StringLiteral:
		return string(l)
	case chonk.BoolLiteral:
		return bool(l)
	default:
		return nil
	}
}

func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("chonk ast: script path required")
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	program, err := parseProgram(source)
	if err != nil {
		return err
	}
	fmt.Print(chonk.PrintProgram(program))
	return nil
}

func parseProgram(source string) ([]chonk.Statement, error) {
	tokens, err := chonk.Scan(source)
	if err != nil {
		return nil, &scriptError{err: err, source: source}
	}
	program, err := chonk.Parse(tokens)
	if err != nil {
		return nil, &scriptError{err: err, source: source}
	}
	return program, nil
}
