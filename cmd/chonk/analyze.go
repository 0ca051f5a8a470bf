package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"

	"github.com/mgomes/chonk/chonk"
)

const scriptScope = "<script>"

type lintWarning struct {
	Function string
	Pos      chonk.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("chonk analyze: script path required")
	}

	scriptPath := remaining[0]
	source, err := readScript(scriptPath)
	if err != nil {
		return err
	}
	program, err := parseProgram(source)
	if err != nil {
		return err
	}

	warnings := analyzeProgram(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func analyzeProgram(program []chonk.Statement) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(scriptScope, program, false, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

// lintStatements reports whether control never falls off the end of the
// list.
func lintStatements(function string, statements []chonk.Statement, inLoop bool, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, inLoop, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt chonk.Statement, inLoop bool, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *chonk.ReturnStmt:
		return true
	case *chonk.BreakStmt, *chonk.ContinueStmt:
		if !inLoop {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "break or continue outside of a loop",
			})
		}
		return true
	case *chonk.IfStmt:
		consequent := lintStatements(function, typed.Consequent, inLoop, warnings)
		if typed.Alternate == nil {
			return false
		}
		alternate := lintStatements(function, typed.Alternate, inLoop, warnings)
		return consequent && alternate
	case *chonk.WhileStmt:
		lintStatements(function, typed.Body, true, warnings)
		return false
	case *chonk.FunctionStmt:
		lintStatements(typed.Name.Lexeme, typed.Body, false, warnings)
		return false
	default:
		return false
	}
}
