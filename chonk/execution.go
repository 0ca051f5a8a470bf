package chonk

import "fmt"

// SignalKind says how a statement finished.
type SignalKind int

const (
	SignalNormal SignalKind = iota
	SignalReturn
	SignalBreak
	SignalContinue
)

// ExecSignal is the result of executing a statement. Anything other than
// SignalNormal unwinds the enclosing statement lists until a loop or call
// consumes it.
type ExecSignal struct {
	Kind SignalKind
	// Value is the returned value for SignalReturn.
	Value Value
	// Keyword is the statement keyword that raised the signal.
	Keyword Token
}

var normal = ExecSignal{Kind: SignalNormal}

func (in *Interpreter) execBlock(statements []Statement, env *Env) (ExecSignal, error) {
	for _, stmt := range statements {
		sig, err := in.exec(stmt, env)
		if err != nil {
			return normal, err
		}
		if sig.Kind != SignalNormal {
			return sig, nil
		}
	}
	return normal, nil
}

func (in *Interpreter) exec(stmt Statement, env *Env) (ExecSignal, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := in.eval(s.Expr, env)
		return normal, err
	case *EchoStmt:
		val, err := in.eval(s.Value, env)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.stdout, val.String())
		return normal, nil
	case *FunctionStmt:
		fn := &Function{Name: s.Name.Lexeme, Params: s.Params, Body: s.Body, Closure: env}
		env.Set(s.Name.Lexeme, NewFunction(fn))
		return normal, nil
	case *ReturnStmt:
		val := NewNull()
		if s.Value != nil {
			v, err := in.eval(s.Value, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return ExecSignal{Kind: SignalReturn, Value: val, Keyword: s.Keyword}, nil
	case *DeleteStmt:
		for _, target := range s.Targets {
			if err := env.Remove(target); err != nil {
				return normal, in.attachFrames(err)
			}
		}
		return normal, nil
	case *IfStmt:
		cond, err := in.eval(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return in.execBlock(s.Consequent, env)
		}
		if s.Alternate != nil {
			return in.execBlock(s.Alternate, env)
		}
		return normal, nil
	case *WhileStmt:
		return in.execWhile(s, env)
	case *BreakStmt:
		return ExecSignal{Kind: SignalBreak, Keyword: s.Keyword}, nil
	case *ContinueStmt:
		return ExecSignal{Kind: SignalContinue, Keyword: s.Keyword}, nil
	default:
		return normal, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// execWhile runs the body in the enclosing environment; blocks do not open
// a scope.
func (in *Interpreter) execWhile(s *WhileStmt, env *Env) (ExecSignal, error) {
	for {
		cond, err := in.eval(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
		sig, err := in.execBlock(s.Body, env)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SignalBreak:
			return normal, nil
		case SignalReturn:
			return sig, nil
		}
	}
}

func (in *Interpreter) eval(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *ConstantExpr:
		return literalValue(e.Value), nil
	case *GroupingExpr:
		return in.eval(e.Inner, env)
	case *VariableExpr:
		val, err := env.Get(e.Name)
		if err != nil {
			return Value{}, in.attachFrames(err)
		}
		return val, nil
	case *AssignExpr:
		val, err := in.eval(e.Value, env)
		if err != nil {
			return Value{}, err
		}
		env.Set(e.Name.Lexeme, val)
		return val, nil
	case *AugAssignExpr:
		return in.evalAugAssign(e, env)
	case *PrefixExpr:
		return in.evalPrefix(e, env)
	case *UnaryExpr:
		return in.evalUnary(e, env)
	case *BinaryExpr:
		return in.evalBinary(e, env)
	case *LogicalExpr:
		return in.evalLogical(e, env)
	case *CallExpr:
		return in.evalCall(e, env)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}
