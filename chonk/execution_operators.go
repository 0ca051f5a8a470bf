package chonk

import "math"

// compoundOperators maps each compound assignment to its arithmetic operator.
var compoundOperators = map[TokenType]TokenType{
	TokenPlusAssign:    TokenPlus,
	TokenMinusAssign:   TokenMinus,
	TokenStarAssign:    TokenStar,
	TokenSlashAssign:   TokenSlash,
	TokenPercentAssign: TokenPercent,
}

func (in *Interpreter) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := in.eval(expr.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := in.eval(expr.Right, env)
	if err != nil {
		return Value{}, err
	}
	result, ok := binaryOp(expr.Operator.Type, left, right)
	if !ok {
		return Value{}, in.attachFrames(invalidOperands(expr.Operator, left, right))
	}
	return result, nil
}

// binaryOp applies op to a pair of values. Only number pairs and, for +, string
// pairs are defined.
func binaryOp(op TokenType, left, right Value) (Value, bool) {
	if left.Kind() == KindString && right.Kind() == KindString {
		if op == TokenPlus {
			return NewString(left.Str() + right.Str()), true
		}
		return Value{}, false
	}
	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return Value{}, false
	}

	a, b := left.Number(), right.Number()
	switch op {
	case TokenPlus:
		return NewNumber(a + b), true
	case TokenMinus:
		return NewNumber(a - b), true
	case TokenStar:
		return NewNumber(a * b), true
	case TokenSlash:
		return NewNumber(a / b), true
	case TokenPercent:
		return NewNumber(math.Mod(a, b)), true
	case TokenLT:
		return NewBool(a < b), true
	case TokenLTE:
		return NewBool(a <= b), true
	case TokenGT:
		return NewBool(a > b), true
	case TokenGTE:
		return NewBool(a >= b), true
	case TokenEQ:
		return NewBool(a == b), true
	case TokenNotEQ:
		return NewBool(a != b), true
	default:
		return Value{}, false
	}
}

func (in *Interpreter) evalUnary(expr *UnaryExpr, env *Env) (Value, error) {
	right, err := in.eval(expr.Right, env)
	if err != nil {
		return Value{}, err
	}
	switch expr.Operator.Type {
	case TokenBang:
		return NewBool(!right.Truthy()), nil
	case TokenMinus:
		if right.Kind() == KindNumber {
			return NewNumber(-right.Number()), nil
		}
	case TokenPlus:
		if right.Kind() == KindNumber {
			return right, nil
		}
	}
	return Value{}, in.attachFrames(invalidOperands(expr.Operator, right))
}

func (in *Interpreter) evalLogical(expr *LogicalExpr, env *Env) (Value, error) {
	left, err := in.eval(expr.Left, env)
	if err != nil {
		return Value{}, err
	}
	if expr.Operator.Type == TokenOr {
		if left.Truthy() {
			return left, nil
		}
	} else if !left.Truthy() {
		return left, nil
	}
	return in.eval(expr.Right, env)
}

// evalAugAssign reads the current value through the chain and writes the
// result to the local level.
func (in *Interpreter) evalAugAssign(expr *AugAssignExpr, env *Env) (Value, error) {
	current, err := env.Get(expr.Name)
	if err != nil {
		return Value{}, in.attachFrames(err)
	}
	operand, err := in.eval(expr.Value, env)
	if err != nil {
		return Value{}, err
	}
	result, ok := binaryOp(compoundOperators[expr.Operator.Type], current, operand)
	if !ok {
		return Value{}, in.attachFrames(invalidOperands(expr.Operator, current, operand))
	}
	env.Set(expr.Name.Lexeme, result)
	return result, nil
}

// evalPrefix steps a number by one and yields the new value.
func (in *Interpreter) evalPrefix(expr *PrefixExpr, env *Env) (Value, error) {
	current, err := env.Get(expr.Name)
	if err != nil {
		return Value{}, in.attachFrames(err)
	}
	if current.Kind() != KindNumber {
		return Value{}, in.attachFrames(invalidOperands(expr.Operator, current))
	}
	delta := 1.0
	if expr.Operator.Type == TokenDecr {
		delta = -1
	}
	result := NewNumber(current.Number() + delta)
	env.Set(expr.Name.Lexeme, result)
	return result, nil
}
