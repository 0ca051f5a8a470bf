package chonk

import "fmt"

// LexErrorKind classifies a *LexError.
type LexErrorKind int

const (
	LexUnexpectedChar LexErrorKind = iota + 1
	LexUnterminatedString
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnexpectedChar:
		return "UnexpectedChar"
	case LexUnterminatedString:
		return "UnterminatedString"
	default:
		return "LexError"
	}
}

// LexError aborts scanning of the current unit.
type LexError struct {
	Kind LexErrorKind
	// Char is the offending character for LexUnexpectedChar.
	Char rune
	Pos  Position
}

func (e *LexError) Line() int { return e.Pos.Line }

func (e *LexError) Error() string {
	switch e.Kind {
	case LexUnterminatedString:
		return fmt.Sprintf("[line %d] LexError: Unterminated string", e.Pos.Line)
	default:
		return fmt.Sprintf("[line %d] LexError: Unexpected character %q", e.Pos.Line, e.Char)
	}
}
