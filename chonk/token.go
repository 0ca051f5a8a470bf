package chonk

import (
	"strconv"
	"strings"
)

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenEOF TokenType = "EOF"

	TokenIdent  TokenType = "IDENT"
	TokenNumber TokenType = "NUMBER"
	TokenString TokenType = "STRING"

	TokenLParen    TokenType = "("
	TokenRParen    TokenType = ")"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"
	TokenComma     TokenType = ","
	TokenSemicolon TokenType = ";"

	TokenPlus    TokenType = "+"
	TokenMinus   TokenType = "-"
	TokenStar    TokenType = "*"
	TokenSlash   TokenType = "/"
	TokenPercent TokenType = "%"
	TokenAssign  TokenType = "="
	TokenBang    TokenType = "!"
	TokenLT      TokenType = "<"
	TokenGT      TokenType = ">"

	TokenEQ    TokenType = "=="
	TokenNotEQ TokenType = "!="
	TokenLTE   TokenType = "<="
	TokenGTE   TokenType = ">="
	TokenAnd   TokenType = "&&"
	TokenOr    TokenType = "||"
	TokenIncr  TokenType = "++"
	TokenDecr  TokenType = "--"

	TokenPlusAssign    TokenType = "+="
	TokenMinusAssign   TokenType = "-="
	TokenStarAssign    TokenType = "*="
	TokenSlashAssign   TokenType = "/="
	TokenPercentAssign TokenType = "%="

	TokenNull     TokenType = "NULL"
	TokenTrue     TokenType = "TRUE"
	TokenFalse    TokenType = "FALSE"
	TokenFunc     TokenType = "FUNC"
	TokenIf       TokenType = "IF"
	TokenElse     TokenType = "ELSE"
	TokenWhile    TokenType = "WHILE"
	TokenReturn   TokenType = "RETURN"
	TokenDel      TokenType = "DEL"
	TokenEcho     TokenType = "ECHO"
	TokenBreak    TokenType = "BREAK"
	TokenContinue TokenType = "CONTINUE"
)

var keywords = map[string]TokenType{
	"null":     TokenNull,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"func":     TokenFunc,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"return":   TokenReturn,
	"del":      TokenDel,
	"echo":     TokenEcho,
	"break":    TokenBreak,
	"continue": TokenContinue,
}

// Keywords returns the reserved words of the language in sorted order.
func Keywords() []string {
	return []string{"break", "continue", "del", "echo", "else", "false", "func", "if", "null", "return", "true", "while"}
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdent
}

// Position identifies a location in the source text. Lines and columns are
// 1-based.
type Position struct {
	Line   int
	Column int
}

// Token captures lexical information for the parser. Lexeme is the exact
// source text the token was scanned from.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Literal
	Pos     Position
}

// Line reports the source line of the token.
func (t Token) Line() int { return t.Pos.Line }

// Literal is a constant known at parse time. It is a closed set:
// NumberLiteral, StringLiteral, BoolLiteral and NullLiteral.
type Literal interface {
	literal()
	String() string
}

type NumberLiteral float64

type StringLiteral string

type BoolLiteral bool

type NullLiteral struct{}

func (NumberLiteral) literal() {}
func (StringLiteral) literal() {}
func (BoolLiteral) literal()   {}
func (NullLiteral) literal()   {}

func (n NumberLiteral) String() string { return formatNumber(float64(n)) }
func (s StringLiteral) String() string { return string(s) }
func (b BoolLiteral) String() string   { return strconv.FormatBool(bool(b)) }
func (NullLiteral) String() string     { return "null" }

// FormatTokens renders tokens back into source text, one space between
// lexemes. Scanning the result yields the same token types and literals.
func FormatTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == TokenEOF {
			continue
		}
		parts = append(parts, tok.Lexeme)
	}
	return strings.Join(parts, " ")
}
