package chonk

// maxArgs bounds the number of call arguments and function parameters.
// Exceeding it is reported through Diagnostics but does not stop parsing.
const maxArgs = 255

// Parser is a recursive descent parser over a scanned token slice.
type Parser struct {
	tokens      []Token
	current     int
	diagnostics []*ParseError
}

// NewParser prepares a parser for tokens. A slice that does not end in an
// EOF token gets one appended.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		eof := Token{Type: TokenEOF, Pos: Position{Line: 1, Column: 1}}
		if len(tokens) > 0 {
			eof.Pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	return &Parser{tokens: tokens}
}

// Parse builds a program from tokens. The first syntax error aborts the
// whole unit.
func Parse(tokens []Token) ([]Statement, error) {
	return NewParser(tokens).Parse()
}

// Parse consumes the token stream. Calling it again re-parses from the start.
func (p *Parser) Parse() ([]Statement, error) {
	p.current = 0
	p.diagnostics = nil

	statements := make([]Statement, 0)
	for !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// Diagnostics returns the non-fatal problems found by the last Parse.
func (p *Parser) Diagnostics() []*ParseError {
	out := make([]*ParseError, len(p.diagnostics))
	copy(out, p.diagnostics)
	return out
}

func (p *Parser) parseStatement() (Statement, error) {
	switch {
	case p.match(TokenFunc):
		return p.parseFunctionStatement()
	case p.match(TokenReturn):
		return p.parseReturnStatement()
	case p.match(TokenDel):
		return p.parseDeleteStatement()
	case p.match(TokenWhile):
		return p.parseWhileStatement()
	case p.match(TokenIf):
		return p.parseIfStatement()
	case p.match(TokenEcho):
		return p.parseEchoStatement()
	case p.match(TokenBreak):
		keyword := p.previous()
		if _, err := p.consume(TokenSemicolon, "Expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return &BreakStmt{Keyword: keyword}, nil
	case p.match(TokenContinue):
		keyword := p.previous()
		if _, err := p.consume(TokenSemicolon, "Expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ContinueStmt{Keyword: keyword}, nil
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseFunctionStatement() (Statement, error) {
	name, err := p.consume(TokenIdent, "Expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenLParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}

	params := make([]Token, 0)
	if !p.check(TokenRParen) {
		for {
			if len(params) >= maxArgs {
				p.diagnose(p.peek(), "Can't have more than 255 parameters")
			}
			param, err := p.consume(TokenIdent, "Expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after parameters"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock("function body")
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (Statement, error) {
	keyword := p.previous()
	var value Expression
	if !p.check(TokenSemicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) parseDeleteStatement() (Statement, error) {
	keyword := p.previous()
	targets := make([]Token, 0, 1)
	for {
		name, err := p.consume(TokenIdent, "Expected variable name after 'del'")
		if err != nil {
			return nil, err
		}
		targets = append(targets, name)
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after 'del' statement"); err != nil {
		return nil, err
	}
	return &DeleteStmt{Keyword: keyword, Targets: targets}, nil
}

func (p *Parser) parseWhileStatement() (Statement, error) {
	keyword := p.previous()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock("while body")
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Keyword: keyword, Condition: condition, Body: body}, nil
}

func (p *Parser) parseIfStatement() (Statement, error) {
	keyword := p.previous()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock("if body")
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Keyword: keyword, Condition: condition, Consequent: consequent}
	if !p.match(TokenElse) {
		return stmt, nil
	}

	if p.match(TokenIf) {
		nested, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		stmt.Alternate = []Statement{nested}
		return stmt, nil
	}

	alternate, err := p.parseBlock("else body")
	if err != nil {
		return nil, err
	}
	stmt.Alternate = alternate
	return stmt, nil
}

func (p *Parser) parseEchoStatement() (Statement, error) {
	keyword := p.previous()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after value"); err != nil {
		return nil, err
	}
	return &EchoStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) parseExpressionStatement() (Statement, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// parseBlock reads `{ stmt* }`. The result is never nil.
func (p *Parser) parseBlock(context string) ([]Statement, error) {
	if _, err := p.consume(TokenLBrace, "Expected '{' before "+context); err != nil {
		return nil, err
	}
	statements := make([]Statement, 0)
	for !p.check(TokenRBrace) && !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(TokenRBrace, "Expected '}' after "+context); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, &ParseError{
		Kind:     ParseTokenMismatch,
		Expected: tt,
		Found:    p.peek(),
		Message:  message,
	}
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == TokenEOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) diagnose(tok Token, message string) {
	p.diagnostics = append(p.diagnostics, &ParseError{Kind: ParseTooManyArguments, Found: tok, Message: message})
}

func (p *Parser) invalidTarget(tok Token, message string) error {
	return &ParseError{Kind: ParseInvalidTarget, Found: tok, Message: message}
}
