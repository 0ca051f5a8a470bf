package chonk

// ValueKind enumerates the runtime types.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindBuiltin
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "native function"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The zero Value is null.
type Value struct {
	kind ValueKind
	data any
}

// Function is a user-defined function together with the environment it was
// declared in.
type Function struct {
	Name    string
	Params  []Token
	Body    []Statement
	Closure *Env
}

func (f *Function) Arity() int { return len(f.Params) }

// BuiltinFunc implements a native function. args has already been checked
// against the declared arity.
type BuiltinFunc func(in *Interpreter, args []Value) (Value, error)

type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

func NewNull() Value { return Value{kind: KindNull} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewNumber(f float64) Value { return Value{kind: KindNumber, data: f} }

func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }

func NewBuiltin(name string, arity int, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Arity: arity, Fn: fn}}
}

func literalValue(lit Literal) Value {
	switch l := lit.(type) {
	case NumberLiteral:
		return NewNumber(float64(l))
	case StringLiteral:
		return NewString(string(l))
	case BoolLiteral:
		return NewBool(bool(l))
	default:
		return NewNull()
	}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Number() float64 {
	f, _ := v.data.(float64)
	return f
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Function() *Function {
	fn, _ := v.data.(*Function)
	return fn
}

func (v Value) Builtin() *Builtin {
	b, _ := v.data.(*Builtin)
	return b
}

// Truthy reports whether v counts as true in a condition. Only null and false
// are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares two values of the same kind. Functions compare by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.Str() == other.Str()
	case KindFunction:
		return v.Function() == other.Function()
	case KindBuiltin:
		return v.Builtin() == other.Builtin()
	default:
		return false
	}
}
