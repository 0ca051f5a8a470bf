package chonk

import (
	"fmt"
	"strings"
)

// RuntimeErrorKind classifies a *RuntimeError.
type RuntimeErrorKind int

const (
	RuntimeUndefinedVariable RuntimeErrorKind = iota + 1
	RuntimeInvalidOperands
	RuntimeArityMismatch
	RuntimeNotCallable
	// RuntimeInvalidControl is a break or continue outside of any loop.
	RuntimeInvalidControl
	// RuntimeNativeFailure wraps an error returned by a builtin.
	RuntimeNativeFailure
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case RuntimeUndefinedVariable:
		return "UndefinedVariable"
	case RuntimeInvalidOperands:
		return "InvalidOperands"
	case RuntimeArityMismatch:
		return "ArityMismatch"
	case RuntimeNotCallable:
		return "NotCallable"
	case RuntimeInvalidControl:
		return "InvalidControl"
	case RuntimeNativeFailure:
		return "NativeFailure"
	default:
		return "RuntimeError"
	}
}

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts the current unit. Only the fields relevant to Kind are
// set.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Pos     Position

	Name     string
	Operator string
	Expected int
	Actual   int

	// CodeFrame points at the failing source line when the source is known.
	CodeFrame string

	// Frames runs from the innermost call outwards.
	Frames []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
	scriptFrameName       = "<script>"
)

func (e *RuntimeError) Line() int { return e.Pos.Line }

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] RuntimeError: %s", e.Pos.Line, e.Message)
}

// StackTrace renders Frames, eliding the middle of very deep stacks.
func (e *RuntimeError) StackTrace() string {
	var b strings.Builder
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(e.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return strings.TrimPrefix(b.String(), "\n")
	}

	for _, frame := range e.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return strings.TrimPrefix(b.String(), "\n")
}

func undefinedVariable(name Token) *RuntimeError {
	return &RuntimeError{
		Kind:    RuntimeUndefinedVariable,
		Message: fmt.Sprintf("Undefined variable %q", name.Lexeme),
		Pos:     name.Pos,
		Name:    name.Lexeme,
	}
}

func invalidOperands(op Token, operands ...Value) *RuntimeError {
	kinds := make([]string, len(operands))
	for i, v := range operands {
		kinds[i] = v.Kind().String()
	}
	var message string
	if len(kinds) == 1 {
		message = fmt.Sprintf("Operand of %q must be a number, got %s", op.Lexeme, kinds[0])
	} else {
		message = fmt.Sprintf("Invalid operands for %q: %s", op.Lexeme, strings.Join(kinds, " and "))
	}
	return &RuntimeError{
		Kind:     RuntimeInvalidOperands,
		Message:  message,
		Pos:      op.Pos,
		Operator: op.Lexeme,
	}
}

func arityMismatch(paren Token, expected, actual int) *RuntimeError {
	return &RuntimeError{
		Kind:     RuntimeArityMismatch,
		Message:  fmt.Sprintf("Expected %d arguments but got %d", expected, actual),
		Pos:      paren.Pos,
		Expected: expected,
		Actual:   actual,
	}
}

func notCallable(paren Token, callee Value) *RuntimeError {
	return &RuntimeError{
		Kind:    RuntimeNotCallable,
		Message: fmt.Sprintf("Can only call functions, got %s", callee.Kind()),
		Pos:     paren.Pos,
	}
}

func nativeFailure(paren Token, name string, err error) *RuntimeError {
	return &RuntimeError{
		Kind:    RuntimeNativeFailure,
		Message: fmt.Sprintf("%s: %v", name, err),
		Pos:     paren.Pos,
		Name:    name,
	}
}

func invalidControl(keyword Token) *RuntimeError {
	return &RuntimeError{
		Kind:    RuntimeInvalidControl,
		Message: fmt.Sprintf("%q outside of a loop", keyword.Lexeme),
		Pos:     keyword.Pos,
	}
}

// attachFrames records the active call stack on a runtime error that does
// not have one yet. Other errors pass through unchanged.
func (in *Interpreter) attachFrames(err error) error {
	re, ok := err.(*RuntimeError)
	if !ok || re.Frames != nil {
		return err
	}

	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) == 0 {
		frames = append(frames, StackFrame{Function: scriptFrameName, Pos: re.Pos})
		re.Frames = frames
		return re
	}

	// The innermost frame is where the error happened. Each further frame is
	// the call site in the enclosing function.
	frames = append(frames, StackFrame{Function: in.callStack[len(in.callStack)-1].Function, Pos: re.Pos})
	for i := len(in.callStack) - 1; i >= 0; i-- {
		caller := scriptFrameName
		if i > 0 {
			caller = in.callStack[i-1].Function
		}
		frames = append(frames, StackFrame{Function: caller, Pos: in.callStack[i].Pos})
	}
	re.Frames = frames
	return re
}
