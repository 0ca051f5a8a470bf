package chonk

import "sort"

// Env is one level of the environment chain. Levels are shared by pointer so
// a closure observes later writes to the level it captured.
type Env struct {
	outer  *Env
	values map[string]Value
}

func NewEnv(outer *Env) *Env {
	return &Env{outer: outer, values: make(map[string]Value)}
}

func (e *Env) Outer() *Env { return e.outer }

// Get resolves name against this level and then each enclosing level.
func (e *Env) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.outer {
		if val, ok := env.values[name.Lexeme]; ok {
			return val, nil
		}
	}
	return Value{}, undefinedVariable(name)
}

// Lookup is Get without the error, keyed by plain name.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Set binds name in this level only, shadowing any outer binding.
func (e *Env) Set(name string, val Value) {
	e.values[name] = val
}

// Remove deletes the binding from the nearest level that has it.
func (e *Env) Remove(name Token) error {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.values[name.Lexeme]; ok {
			delete(env.values, name.Lexeme)
			return nil
		}
	}
	return undefinedVariable(name)
}

// Names lists the bindings of this level in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
