package chonk

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/oarkflow/log"
)

func runProgram(t *testing.T, source string) string {
	t.Helper()
	var out bytes.Buffer
	in := NewInterpreter(Config{Stdout: &out})
	if err := in.Run(source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func runtimeError(t *testing.T, source string) *RuntimeError {
	t.Helper()
	var out bytes.Buffer
	in := NewInterpreter(Config{Stdout: &out})
	err := in.Run(source)
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected runtime error for %q, got %v", source, err)
	}
	return runtimeErr
}

func TestInterpretOutput(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "arithmetic", source: "echo 1 + 2 * 3;", want: "7\n"},
		{name: "concat", source: `echo "foo" + 'bar';`, want: "foobar\n"},
		{name: "fraction", source: "echo 0.1 + 0.2; echo 1.5; echo 10 / 4;", want: "0.30000000000000004\n1.5\n2.5\n"},
		{name: "modulo", source: "echo 7 % 3; echo -7 % 3; echo 5.5 % 2;", want: "1\n-1\n1.5\n"},
		{name: "special numbers", source: "echo 1 / 0; echo -1 / 0; echo 0 / 0;", want: "inf\n-inf\nNaN\n"},
		{name: "literals", source: "echo true; echo false; echo null; echo '';", want: "true\nfalse\nnull\n\n"},
		{name: "comparison", source: "echo 1 < 2; echo 2 <= 1; echo 3 == 3; echo 3 != 3;", want: "true\nfalse\ntrue\nfalse\n"},
		{name: "unary", source: "echo -3; echo +4; echo !null; echo !0; echo !!true;", want: "-3\n4\ntrue\nfalse\ntrue\n"},
		{name: "logical operands", source: "echo 0 || 1; echo null || 'x'; echo false && nope; echo 1 && 2;", want: "0\nx\nfalse\n2\n"},
		{name: "functions print", source: "func f() {} echo f; echo clock;", want: "<function f>\n<native function clock>\n"},
		{name: "implicit null return", source: "func f() { 1; } echo f();", want: "null\n"},
		{name: "chained assignment", source: "a = b = 3; echo a + b;", want: "6\n"},
		{name: "assignment value", source: "echo x = 4; echo x;", want: "4\n4\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := runProgram(t, tc.source); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestInterpretTruthiness(t *testing.T) {
	source := `
if 0 { echo "zero"; }
if "" { echo "empty"; }
if null { echo "null"; } else { echo "not null"; }
if false { echo "false"; } else if true { echo "chain"; }
`
	want := "zero\nempty\nnot null\nchain\n"
	if got := runProgram(t, source); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretParameterShadowsGlobal(t *testing.T) {
	source := "x = 1; func f(x) { return x + 1; } echo f(10); echo x;"
	if got := runProgram(t, source); got != "11\n1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretLexicalScope(t *testing.T) {
	source := `
func outer() {
  y = "outer";
  func get() { return y; }
  return get;
}
func caller(fn) {
  y = "caller";
  return fn();
}
echo caller(outer());
`
	if got := runProgram(t, source); got != "outer\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretClosureSeesLaterWrites(t *testing.T) {
	source := "x = 1; func show() { echo x; } x = 2; show();"
	if got := runProgram(t, source); got != "2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretAssignmentIsLocal(t *testing.T) {
	source := `
func counter() {
  count = 0;
  func inc() {
    count += 1;
    return count;
  }
  return inc;
}
c = counter();
echo c();
echo c();
`
	if got := runProgram(t, source); got != "1\n1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretRecursion(t *testing.T) {
	source := "func fib(n) { if n < 2 { return n; } return fib(n - 1) + fib(n - 2); } echo fib(15);"
	if got := runProgram(t, source); got != "610\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretIncrementAndCompound(t *testing.T) {
	source := `
x = 1;
echo ++x;
echo x++;
echo x;
echo --x;
echo x--;
y = 2;
y *= 3; echo y;
y -= 1; echo y;
y /= 2; echo y;
y %= 2; echo y;
s = "a";
s += "b"; echo s;
`
	want := "2\n3\n3\n2\n1\n6\n5\n2.5\n0.5\nab\n"
	if got := runProgram(t, source); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretLoops(t *testing.T) {
	source := `
i = 0;
while i < 10 {
  i += 1;
  if i % 2 == 0 { continue; }
  if i > 7 { break; }
  echo i;
}
echo "done";
`
	want := "1\n3\n5\n7\ndone\n"
	if got := runProgram(t, source); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretReturnUnwindsLoops(t *testing.T) {
	source := `
func first() {
  i = 0;
  while true {
    i++;
    while true {
      if i == 3 { return i; }
      break;
    }
  }
}
echo first();
`
	if got := runProgram(t, source); got != "3\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretTopLevelReturnEndsProgram(t *testing.T) {
	if got := runProgram(t, "echo 1; return; echo 2;"); got != "1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretDelete(t *testing.T) {
	err := runtimeError(t, "x = 1; del x; echo x;")
	if err.Kind != RuntimeUndefinedVariable || err.Name != "x" {
		t.Fatalf("unexpected error %#v", err)
	}

	err = runtimeError(t, "x = 1; func f() { del x; } f(); echo x;")
	if err.Kind != RuntimeUndefinedVariable {
		t.Fatalf("expected del to reach the global, got %#v", err)
	}

	err = runtimeError(t, "a = 1; del a, b;")
	if err.Kind != RuntimeUndefinedVariable || err.Name != "b" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestInterpretInvalidOperands(t *testing.T) {
	for _, source := range []string{
		`echo "a" - 1;`,
		`echo 1 + "a";`,
		`echo "a" < "b";`,
		`echo "a" == "a";`,
		`echo null == null;`,
		`echo -"a";`,
		`echo +true;`,
		`s = "a"; s++;`,
		`n = 1; n -= "x";`,
	} {
		err := runtimeError(t, source)
		if err.Kind != RuntimeInvalidOperands {
			t.Fatalf("%q: expected invalid operands, got %s", source, err.Kind)
		}
		if err.Operator == "" {
			t.Fatalf("%q: expected operator to be recorded", source)
		}
	}
}

func TestInterpretShortCircuitSkipsRight(t *testing.T) {
	if got := runProgram(t, "false && undefined_fn(); true || undefined_fn(); echo 'ok';"); got != "ok\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInterpretCallErrors(t *testing.T) {
	err := runtimeError(t, "func f() { return 1; } f(1);")
	if err.Kind != RuntimeArityMismatch || err.Expected != 0 || err.Actual != 1 {
		t.Fatalf("unexpected error %#v", err)
	}

	err = runtimeError(t, "clock(1);")
	if err.Kind != RuntimeArityMismatch {
		t.Fatalf("expected builtin arity mismatch, got %#v", err)
	}

	err = runtimeError(t, "x = 1; x();")
	if err.Kind != RuntimeNotCallable {
		t.Fatalf("unexpected error %#v", err)
	}

	err = runtimeError(t, "'text'();")
	if err.Kind != RuntimeNotCallable {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestInterpretInvalidControl(t *testing.T) {
	err := runtimeError(t, "break;")
	if err.Kind != RuntimeInvalidControl {
		t.Fatalf("unexpected error %#v", err)
	}

	err = runtimeError(t, "func f() { continue; } while true { f(); }")
	if err.Kind != RuntimeInvalidControl {
		t.Fatalf("expected continue not to cross the call, got %#v", err)
	}
	if len(err.Frames) != 2 || err.Frames[0].Function != "f" {
		t.Fatalf("unexpected frames %#v", err.Frames)
	}
}

func TestInterpretStackFrames(t *testing.T) {
	source := "func inner() {\n  return nope;\n}\nfunc outer() {\n  return inner();\n}\nouter();"
	err := runtimeError(t, source)
	if len(err.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %#v", err.Frames)
	}
	want := []StackFrame{
		{Function: "inner", Pos: Position{Line: 2, Column: 10}},
		{Function: "outer", Pos: Position{Line: 5, Column: 16}},
		{Function: scriptFrameName, Pos: Position{Line: 7, Column: 7}},
	}
	for i := range want {
		if err.Frames[i] != want[i] {
			t.Fatalf("frame %d: expected %#v, got %#v", i, want[i], err.Frames[i])
		}
	}
	if !strings.Contains(err.CodeFrame, "return nope;") {
		t.Fatalf("expected code frame to point at the failing line, got %q", err.CodeFrame)
	}
}

func TestInterpretGlobalsSurviveErrors(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(Config{Stdout: &out})
	if err := in.Run("a = 1; echo b; a = 2;"); err == nil {
		t.Fatalf("expected runtime error")
	}
	if err := in.Run("echo a;"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestInterpretPersistsAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(Config{Stdout: &out})
	for _, line := range []string{"func sq(n) { return n * n; }", "x = sq(4);", "echo x;"} {
		if err := in.Run(line); err != nil {
			t.Fatalf("run %q failed: %v", line, err)
		}
	}
	if out.String() != "16\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if _, ok := in.Globals().Lookup("sq"); !ok {
		t.Fatalf("expected sq in globals")
	}
}

func TestClockBuiltin(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(Config{
		Stdout: &out,
		Now:    func() time.Time { return time.Unix(1700000000, 0) },
	})
	if err := in.Run("echo clock();"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "1700000000\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRegisterBuiltin(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(Config{Stdout: &out})
	in.RegisterBuiltin("double", 1, func(in *Interpreter, args []Value) (Value, error) {
		return NewNumber(args[0].Number() * 2), nil
	})
	in.RegisterBuiltin("fail", 0, func(in *Interpreter, args []Value) (Value, error) {
		return Value{}, fmt.Errorf("boom")
	})

	if err := in.Run("echo double(21);"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	err := in.Run("fail();")
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) || runtimeErr.Kind != RuntimeNativeFailure {
		t.Fatalf("expected native failure, got %v", err)
	}
	if runtimeErr.Message != "fail: boom" {
		t.Fatalf("unexpected message %q", runtimeErr.Message)
	}

	if got := in.Builtins(); len(got) != 3 || got[0] != "clock" || got[1] != "double" || got[2] != "fail" {
		t.Fatalf("unexpected builtins %v", got)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	args := strings.TrimSuffix(strings.Repeat("0, ", 256), ", ")
	in := NewInterpreter(Config{Stdout: &bytes.Buffer{}, Logger: &log.DefaultLogger})
	err := in.Run("func f() {} f(" + args + ");")
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) || runtimeErr.Kind != RuntimeArityMismatch {
		t.Fatalf("expected arity mismatch, got %v", err)
	}
	if len(in.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(in.Diagnostics()))
	}
}

func TestRunAbortsOnParseError(t *testing.T) {
	var out bytes.Buffer
	err := Run("echo 1; echo ;", &out)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing to run, got %q", out.String())
	}
}
