package chonk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatError renders err for a terminal: the one-line header, a code frame
// pointing into source, and the call stack for runtime errors. Errors that
// did not come from this package are returned as err.Error().
func FormatError(err error, source string) string {
	if err == nil {
		return ""
	}

	var (
		lexErr     *LexError
		parseErr   *ParseError
		runtimeErr *RuntimeError
		pos        Position
		codeFrame  string
	)
	switch {
	case errors.As(err, &lexErr):
		pos = lexErr.Pos
	case errors.As(err, &parseErr):
		pos = parseErr.Found.Pos
	case errors.As(err, &runtimeErr):
		pos = runtimeErr.Pos
		codeFrame = runtimeErr.CodeFrame
	default:
		return err.Error()
	}
	if codeFrame == "" {
		codeFrame = formatCodeFrame(source, pos)
	}

	var b strings.Builder
	b.WriteString(err.Error())
	if codeFrame != "" {
		b.WriteString("\n")
		b.WriteString(codeFrame)
	}
	if runtimeErr != nil {
		if trace := runtimeErr.StackTrace(); trace != "" {
			b.WriteString("\n")
			b.WriteString(trace)
		}
	}
	return b.String()
}

func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}
