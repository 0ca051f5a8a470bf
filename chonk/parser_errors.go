package chonk

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies a *ParseError.
type ParseErrorKind int

const (
	ParseExpectedExpression ParseErrorKind = iota + 1
	ParseTokenMismatch
	ParseInvalidTarget
	// ParseTooManyArguments is only ever reported as a non-fatal diagnostic.
	ParseTooManyArguments
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseExpectedExpression:
		return "ExpectedExpression"
	case ParseTokenMismatch:
		return "TokenMismatch"
	case ParseInvalidTarget:
		return "InvalidTarget"
	case ParseTooManyArguments:
		return "TooManyArguments"
	default:
		return "ParseError"
	}
}

// ParseError identifies the token the parser stopped at.
type ParseError struct {
	Kind ParseErrorKind
	// Expected is set for ParseTokenMismatch.
	Expected TokenType
	Found    Token
	Message  string
}

func (e *ParseError) Line() int { return e.Found.Pos.Line }

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[line %d] ParseError: ", e.Found.Pos.Line)
	switch e.Kind {
	case ParseExpectedExpression:
		fmt.Fprintf(&b, "Expected expression, but found %s", tokenLabel(e.Found.Type))
	case ParseTokenMismatch:
		fmt.Fprintf(&b, "Expected %s but found %s: %s", tokenLabel(e.Expected), tokenLabel(e.Found.Type), e.Message)
	default:
		fmt.Fprintf(&b, "%s %s", e.Message, tokenLocation(e.Found))
	}
	return b.String()
}

func tokenLocation(tok Token) string {
	if tok.Type == TokenEOF {
		return "at end"
	}
	return fmt.Sprintf("at %q", tok.Lexeme)
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	}
	if _, ok := keywords[strings.ToLower(string(tt))]; ok {
		return fmt.Sprintf("'%s'", strings.ToLower(string(tt)))
	}
	return fmt.Sprintf("'%s'", string(tt))
}
