package chonk

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Scan converts source text into tokens. The returned slice always ends with
// a single TokenEOF. The only failures are *LexError values.
func Scan(source string) ([]Token, error) {
	l := newLexer(source)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch  rune
	eof bool
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.eof {
		return
	}

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		l.eof = true
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

// currentOffset is the byte offset of l.ch.
func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	start := l.currentOffset()
	pos := Position{Line: l.line, Column: l.column}

	if l.eof {
		return Token{Type: TokenEOF, Pos: pos}, nil
	}

	switch l.ch {
	case '(':
		return l.single(TokenLParen, start, pos), nil
	case ')':
		return l.single(TokenRParen, start, pos), nil
	case '{':
		return l.single(TokenLBrace, start, pos), nil
	case '}':
		return l.single(TokenRBrace, start, pos), nil
	case ',':
		return l.single(TokenComma, start, pos), nil
	case ';':
		return l.single(TokenSemicolon, start, pos), nil
	case '+':
		switch l.peekRune() {
		case '+':
			return l.double(TokenIncr, start, pos), nil
		case '=':
			return l.double(TokenPlusAssign, start, pos), nil
		}
		return l.single(TokenPlus, start, pos), nil
	case '-':
		switch l.peekRune() {
		case '-':
			return l.double(TokenDecr, start, pos), nil
		case '=':
			return l.double(TokenMinusAssign, start, pos), nil
		}
		return l.single(TokenMinus, start, pos), nil
	case '*':
		return l.withAssign(TokenStar, TokenStarAssign, start, pos), nil
	case '/':
		return l.withAssign(TokenSlash, TokenSlashAssign, start, pos), nil
	case '%':
		return l.withAssign(TokenPercent, TokenPercentAssign, start, pos), nil
	case '=':
		return l.withAssign(TokenAssign, TokenEQ, start, pos), nil
	case '!':
		return l.withAssign(TokenBang, TokenNotEQ, start, pos), nil
	case '<':
		return l.withAssign(TokenLT, TokenLTE, start, pos), nil
	case '>':
		return l.withAssign(TokenGT, TokenGTE, start, pos), nil
	case '&':
		if l.peekRune() == '&' {
			return l.double(TokenAnd, start, pos), nil
		}
		return Token{}, l.unexpected(pos)
	case '|':
		if l.peekRune() == '|' {
			return l.double(TokenOr, start, pos), nil
		}
		return Token{}, l.unexpected(pos)
	case '"', '\'':
		return l.readString(start, pos)
	}

	switch {
	case isIdentifierStart(l.ch):
		return l.readIdentifier(start, pos), nil
	case isDigit(l.ch):
		return l.readNumber(start, pos), nil
	default:
		return Token{}, l.unexpected(pos)
	}
}

func (l *lexer) emit(tt TokenType, start int, pos Position, lit Literal) Token {
	return Token{Type: tt, Lexeme: l.input[start:l.currentOffset()], Literal: lit, Pos: pos}
}

func (l *lexer) single(tt TokenType, start int, pos Position) Token {
	l.readRune()
	return l.emit(tt, start, pos, nil)
}

func (l *lexer) double(tt TokenType, start int, pos Position) Token {
	l.readRune()
	l.readRune()
	return l.emit(tt, start, pos, nil)
}

// withAssign scans a one-character operator that has a compound form ending
// in '='.
func (l *lexer) withAssign(plain, compound TokenType, start int, pos Position) Token {
	if l.peekRune() == '=' {
		return l.double(compound, start, pos)
	}
	return l.single(plain, start, pos)
}

func (l *lexer) unexpected(pos Position) error {
	return &LexError{Kind: LexUnexpectedChar, Char: l.ch, Pos: pos}
}

func (l *lexer) skipWhitespaceAndComments() {
	for !l.eof {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readRune()
		case '#':
			l.skipComment()
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for !l.eof && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier(start int, pos Position) Token {
	for !l.eof && isIdentifierRune(l.ch) {
		l.readRune()
	}
	tok := l.emit(TokenIdent, start, pos, nil)
	tok.Type = lookupIdent(tok.Lexeme)
	switch tok.Type {
	case TokenTrue:
		tok.Literal = BoolLiteral(true)
	case TokenFalse:
		tok.Literal = BoolLiteral(false)
	case TokenNull:
		tok.Literal = NullLiteral{}
	}
	return tok
}

func (l *lexer) readNumber(start int, pos Position) Token {
	for isDigit(l.ch) {
		l.readRune()
	}
	if l.ch == '.' && isDigit(l.peekRune()) {
		l.readRune()
		for isDigit(l.ch) {
			l.readRune()
		}
	}
	text := l.input[start:l.currentOffset()]
	// Only ASCII digits reach here; out of range values saturate to ±Inf.
	value, _ := strconv.ParseFloat(text, 64)
	return l.emit(TokenNumber, start, pos, NumberLiteral(value))
}

func (l *lexer) readString(start int, pos Position) (Token, error) {
	quote := l.ch
	for {
		l.readRune()
		if l.eof {
			return Token{}, &LexError{Kind: LexUnterminatedString, Pos: Position{Line: l.line, Column: l.column}}
		}
		if l.ch == quote {
			l.readRune()
			break
		}
	}
	end := l.currentOffset()
	value := l.input[start+1 : end-1]
	return l.emit(TokenString, start, pos, StringLiteral(value)), nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
