package chonk

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is right associative: `a = b = 1` assigns b first.
func (p *Parser) parseAssignment() (Expression, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.match(TokenAssign) {
		op := p.previous()
		target, ok := expr.(*VariableExpr)
		if !ok {
			return nil, p.invalidTarget(op, "Invalid assignment target")
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Name: target.Name, Value: value}, nil
	}

	if p.match(TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign, TokenPercentAssign) {
		op := p.previous()
		target, ok := expr.(*VariableExpr)
		if !ok {
			return nil, p.invalidTarget(op, "Invalid assignment target")
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &AugAssignExpr{Name: target.Name, Operator: op, Value: value}, nil
	}

	return expr, nil
}

func (p *Parser) parseOr() (Expression, error) {
	return p.parseLogical(p.parseAnd, TokenOr)
}

func (p *Parser) parseAnd() (Expression, error) {
	return p.parseLogical(p.parseEquality, TokenAnd)
}

func (p *Parser) parseLogical(operand func() (Expression, error), op TokenType) (Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Operator: operator, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expression, error) {
	return p.parseBinary(p.parseComparison, TokenEQ, TokenNotEQ)
}

func (p *Parser) parseComparison() (Expression, error) {
	return p.parseBinary(p.parseTerm, TokenLT, TokenLTE, TokenGT, TokenGTE)
}

func (p *Parser) parseTerm() (Expression, error) {
	return p.parseBinary(p.parseFactor, TokenPlus, TokenMinus)
}

func (p *Parser) parseFactor() (Expression, error) {
	return p.parseBinary(p.parseUnary, TokenStar, TokenSlash, TokenPercent)
}

// parseBinary folds a left associative chain of operators at one precedence
// level.
func (p *Parser) parseBinary(operand func() (Expression, error), ops ...TokenType) (Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: operator, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expression, error) {
	if p.match(TokenBang, TokenMinus, TokenPlus) {
		operator := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: operator, Right: right}, nil
	}
	return p.parsePrefix()
}

func (p *Parser) parsePrefix() (Expression, error) {
	if !p.match(TokenIncr, TokenDecr) {
		return p.parseCall()
	}
	operator := p.previous()
	operand, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	target, ok := operand.(*VariableExpr)
	if !ok {
		return nil, p.invalidTarget(operator, "Invalid target in prefix operation")
	}
	return &PrefixExpr{Operator: operator, Name: target.Name}, nil
}

func (p *Parser) parseCall() (Expression, error) {
	expr, err := p.parseSuffix()
	if err != nil {
		return nil, err
	}
	for p.match(TokenLParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expression) (Expression, error) {
	args := make([]Expression, 0)
	if !p.check(TokenRParen) {
		for {
			if len(args) >= maxArgs {
				p.diagnose(p.peek(), "Can't have more than 255 arguments")
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	paren, err := p.consume(TokenRParen, "Expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

// parseSuffix handles `x++` and `x--`. They evaluate like their prefix forms.
func (p *Parser) parseSuffix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenIncr, TokenDecr) {
		return expr, nil
	}
	operator := p.previous()
	target, ok := expr.(*VariableExpr)
	if !ok {
		return nil, p.invalidTarget(operator, "Invalid target in suffix operation")
	}
	return &PrefixExpr{Operator: operator, Name: target.Name}, nil
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenTrue, TokenFalse, TokenNull, TokenNumber, TokenString:
		p.advance()
		return &ConstantExpr{Value: literalFor(tok), position: tok.Pos}, nil
	case TokenIdent:
		p.advance()
		return &VariableExpr{Name: tok}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenRParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner, position: tok.Pos}, nil
	}
	return nil, &ParseError{Kind: ParseExpectedExpression, Found: tok}
}

// literalFor returns the payload of a literal token, filling in the keyword
// constants for tokens that were built without one.
func literalFor(tok Token) Literal {
	if tok.Literal != nil {
		return tok.Literal
	}
	switch tok.Type {
	case TokenTrue:
		return BoolLiteral(true)
	case TokenFalse:
		return BoolLiteral(false)
	case TokenString:
		return StringLiteral("")
	case TokenNumber:
		return NumberLiteral(0)
	default:
		return NullLiteral{}
	}
}
