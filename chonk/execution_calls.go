package chonk

func (in *Interpreter) evalCall(expr *CallExpr, env *Env) (Value, error) {
	callee, err := in.eval(expr.Callee, env)
	if err != nil {
		return Value{}, err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		val, err := in.eval(arg, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, val)
	}

	switch callee.Kind() {
	case KindFunction:
		fn := callee.Function()
		if len(args) != fn.Arity() {
			return Value{}, in.attachFrames(arityMismatch(expr.Paren, fn.Arity(), len(args)))
		}
		return in.callFunction(fn, args, expr.Paren)
	case KindBuiltin:
		builtin := callee.Builtin()
		if len(args) != builtin.Arity {
			return Value{}, in.attachFrames(arityMismatch(expr.Paren, builtin.Arity, len(args)))
		}
		result, err := builtin.Fn(in, args)
		if err != nil {
			if _, ok := err.(*RuntimeError); ok {
				return Value{}, in.attachFrames(err)
			}
			return Value{}, in.attachFrames(nativeFailure(expr.Paren, builtin.Name, err))
		}
		return result, nil
	default:
		return Value{}, in.attachFrames(notCallable(expr.Paren, callee))
	}
}

// callFunction runs fn in a fresh level chained to its closure, never to the
// caller's environment.
func (in *Interpreter) callFunction(fn *Function, args []Value, paren Token) (Value, error) {
	env := NewEnv(fn.Closure)
	for i, param := range fn.Params {
		env.Set(param.Lexeme, args[i])
	}

	in.pushFrame(fn.Name, paren.Pos)
	defer in.popFrame()

	sig, err := in.execBlock(fn.Body, env)
	if err != nil {
		return Value{}, err
	}
	switch sig.Kind {
	case SignalReturn:
		return sig.Value, nil
	case SignalBreak, SignalContinue:
		return Value{}, in.attachFrames(invalidControl(sig.Keyword))
	}
	return NewNull(), nil
}

func (in *Interpreter) pushFrame(function string, pos Position) {
	in.callStack = append(in.callStack, callFrame{Function: function, Pos: pos})
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) > 0 {
		in.callStack = in.callStack[:len(in.callStack)-1]
	}
}
