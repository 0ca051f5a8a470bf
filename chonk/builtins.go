package chonk

import (
	"slices"
	"sort"
)

// RegisterBuiltin binds a native function in the global environment.
// Registering an existing name replaces it.
func (in *Interpreter) RegisterBuiltin(name string, arity int, fn BuiltinFunc) {
	if !slices.Contains(in.builtins, name) {
		in.builtins = append(in.builtins, name)
		sort.Strings(in.builtins)
	}
	in.globals.Set(name, NewBuiltin(name, arity, fn))
}

// Builtins lists the names registered with RegisterBuiltin.
func (in *Interpreter) Builtins() []string {
	return slices.Clone(in.builtins)
}

func registerCoreBuiltins(in *Interpreter) {
	in.RegisterBuiltin("clock", 0, builtinClock)
}

// builtinClock returns wall-clock seconds since the Unix epoch.
func builtinClock(in *Interpreter, args []Value) (Value, error) {
	return NewNumber(float64(in.now().UnixNano()) / 1e9), nil
}
