package tinyscript

import (
	"strings"
	"testing"
)

// newTestInterp returns an interpreter with an out() capture function
// registered, so scripts under test can record what executed and in which
// order.
func newTestInterp() (*Interp, *[]string) {
	ip := New()
	var seen []string
	ip.Register("out", func(ip *Interp, argv []Value) Value {
		parts := make([]string, len(argv))
		for i, v := range argv {
			parts[i] = v.String()
		}
		seen = append(seen, strings.Join(parts, " "))
		return IntVal(len(argv))
	})
	return ip, &seen
}

func mustRun(t *testing.T, ip *Interp, src string) {
	t.Helper()
	if err := ip.Run(src); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want int
	}{
		{"precedence", "2 + 3 * 4", 14},
		{"parentheses", "(2 + 3) * 4", 20},
		{"division", "10 / 3", 3},
		{"modulo", "10 % 3", 1},
		{"unary minus", "-5 + 1", -4},
		{"unary plus", "+5", 5},
		{"bitwise or", "1 OR 2", 3},
		{"bitwise and", "6 AND 3", 2},
		{"not true", "NOT 0", 1},
		{"not false", "NOT 7", 0},
		{"equal", "3 = 3", 1},
		{"not equal", "3 ~ 3", 0},
		{"less", "2 < 3", 1},
		{"greater", "2 > 3", 0},
		{"comparison binds below arithmetic", "1 + 1 = 2", 1},
		{"string coerces in arithmetic", `"42" + 1`, 43},
		{"concat result in numeric context", `"1" & "0" + 0`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := New()
			mustRun(t, ip, "x = "+tt.expr)
			if got := ip.GetInt("x"); got != tt.want {
				t.Errorf("x = %s: got %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestStringExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"literal", `"hello"`, "hello"},
		{"concatenation", `"foo" & "bar"`, "foobar"},
		{"number renders in concat", `"n=" & 42`, "n=42"},
		{"number coerced by target type", "123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := New()
			mustRun(t, ip, "s$ = "+tt.expr)
			if got := ip.GetString("s$"); got != tt.want {
				t.Errorf("s$ = %s: got %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

// TestStringComparison checks that a comparison goes string-wise as soon as
// either operand is a string.
func TestStringComparison(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want int
	}{
		{"equal strings", `"abc" = "abc"`, 1},
		{"unequal strings", `"abc" ~ "abd"`, 1},
		{"lexicographic less", `"abc" < "abd"`, 1},
		{"lexicographic not greater", `"abc" > "abd"`, 0},
		{"mixed compares as strings", `"10" = 10`, 1},
		{"mixed lexicographic", `"9" > 10`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := New()
			mustRun(t, ip, "x = ("+tt.expr+")")
			if got := ip.GetInt("x"); got != tt.want {
				t.Errorf("(%s): got %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestAssignmentCoercion(t *testing.T) {
	ip := New()
	mustRun(t, ip, `x = "42abc"
s$ = 7 * 6`)
	if got := ip.GetInt("x"); got != 42 {
		t.Errorf("numeric target: got %d, want 42", got)
	}
	if got := ip.GetString("s$"); got != "42" {
		t.Errorf("string target: got %q, want \"42\"", got)
	}
}

func TestHostAccessors(t *testing.T) {
	ip := New()
	ip.SetInt("n", 99)
	ip.SetString("s$", "123abc")
	if got := ip.GetString("n"); got != "99" {
		t.Errorf("GetString over int: %q, want \"99\"", got)
	}
	if got := ip.GetInt("s$"); got != 123 {
		t.Errorf("GetInt over string: %d, want 123", got)
	}
	if got := ip.GetInt("missing"); got != 0 {
		t.Errorf("undefined GetInt: %d, want 0", got)
	}
	if got := ip.GetString("missing$"); got != "" {
		t.Errorf("undefined GetString: %q, want \"\"", got)
	}
	// names are case-insensitive on both sides
	ip.SetInt("MiXeD", 5)
	mustRun(t, ip, "y = mixed")
	if got := ip.GetInt("y"); got != 5 {
		t.Errorf("case folding: %d, want 5", got)
	}
}

func TestVariablesPersistAcrossRuns(t *testing.T) {
	ip := New()
	mustRun(t, ip, "counter = 1")
	mustRun(t, ip, "counter = counter + 1")
	if got := ip.GetInt("counter"); got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestIfThen(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `x = 3
if x > 2 then out("big")
if x > 5 then out("bigger")
if x then out("truthy") : out("chained")
`)
	want := []string{"big", "truthy", "chained"}
	if strings.Join(*seen, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", *seen, want)
	}
}

// TestSuppressedBranch checks that untaken branches are parsed but never
// evaluated: an undefined function or variable there is not an error, a
// divide by zero still is.
func TestSuppressedBranch(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `if 0 then no_such_function(1, 2)
if 0 then x = ghost + 1
out("alive")`)
	if len(*seen) != 1 || (*seen)[0] != "alive" {
		t.Errorf("got %v, want [alive]", *seen)
	}

	if err := ip.Run("if 1 then no_such_function(1)"); err == nil {
		t.Error("taken branch: expected undefined function error")
	} else if !strings.Contains(err.Error(), "no_such_function") {
		t.Errorf("error %q does not name the function", err)
	}

	if err := ip.Run("if 0 then x = 1 / 0"); err == nil {
		t.Error("divide by zero must stay fatal in untaken branches")
	}
}

func TestGotoLabels(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `out("one")
goto skip
out("never")
skip:
out("two")
goto 40
out("never either")
40 out("three")
`)
	want := "one,two,three"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGosubReturn(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `out(1)
gosub sub1
out(5)
end
sub1:
out(2)
gosub sub2
out(4)
return
sub2:
out(3)
return
`)
	want := "1,2,3,4,5"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestGosubChained checks that RETURN resumes before any ':'-chained
// statement that follows the GOSUB's label.
func TestGosubChained(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `gosub sub : out("after")
end
sub:
out("inside")
return
`)
	want := "inside,after"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGosubNumericChained(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `10 gosub 30 : out("A") : end
30 out("B") : return
`)
	want := "B,A"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGosubStackLimits(t *testing.T) {
	ip := New()
	err := ip.Run(`deeper:
gosub deeper`)
	if err == nil || !strings.Contains(err.Error(), "GOSUB stack overflow") {
		t.Errorf("unbounded recursion: got %v, want overflow error", err)
	}

	err = ip.Run("return")
	if err == nil || !strings.Contains(err.Error(), "GOSUB stack underflow") {
		t.Errorf("bare RETURN: got %v, want underflow error", err)
	}
}

func TestOnGoto(t *testing.T) {
	tests := []struct {
		pick int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{2, "c"},
		{5, "fell through"}, // out of range continues past the statement
	}
	for _, tt := range tests {
		ip, seen := newTestInterp()
		ip.SetInt("pick", tt.pick)
		mustRun(t, ip, `on pick goto a, b, c
out("fell through")
end
a:
out("a")
end
b:
out("b")
end
c:
out("c")
end
`)
		if len(*seen) != 1 || (*seen)[0] != tt.want {
			t.Errorf("pick=%d: got %v, want [%s]", tt.pick, *seen, tt.want)
		}
	}
}

func TestOnGosubResumes(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `on 1 gosub a, b
out("back")
end
a:
out("a")
return
b:
out("b")
return
`)
	want := "b,back"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestForNext(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `for i = 1 to 3 do
out(i)
next
out("i=" & i)
`)
	want := "1,2,3,i=3"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestForStep(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `for i = 10 to 2 step -2 do
out(i)
next
`)
	want := "10,8,6,4,2"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// NEXT terminates on exact equality with the stop value only. A step
// that jumps over it keeps the loop running; a halting extension bounds
// the test.
func TestForStepOvershootsStop(t *testing.T) {
	ip, seen := newTestInterp()
	rounds := 0
	ip.Register("tick", func(ip *Interp, argv []Value) Value {
		rounds++
		if rounds == 6 {
			ip.Halt()
		}
		return IntVal(rounds)
	})
	mustRun(t, ip, `for i = 1 to 4 step 2 do
out(i)
tick()
next
`)
	want := "1,3,5,7,9,11"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestForCountsDown(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `for i = 3 to 1 do
out(i)
next
`)
	want := "3,2,1"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestForNested(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `for i = 1 to 2 do
for j = 1 to 2 do
out(i * 10 + j)
next
next
`)
	want := "11,12,21,22"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestForSkipped checks the untaken-branch path: the whole loop body is
// scanned to its NEXT without running, including statements that would
// fail if executed.
func TestForSkipped(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `if 0 then for i = 1 to 3 do
out(i)
x = would_fail(1)
next
out("after")
`)
	if len(*seen) != 1 || (*seen)[0] != "after" {
		t.Errorf("got %v, want [after]", *seen)
	}
}

func TestForErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing NEXT while skipping", "if 0 then for i = 1 to 2 do\nout(i)", "FOR without NEXT"},
		{"NEXT without FOR", "next", "FOR stack underflow"},
		{"depth limit", `for a = 1 to 2 do
for b = 1 to 2 do
for c = 1 to 2 do
for d = 1 to 2 do
for e = 1 to 2 do
for f = 1 to 2 do
next
next
next
next
next
next`, "FOR stack overflow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, _ := newTestInterp()
			err := ip.Run(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestPseudoArrays(t *testing.T) {
	ip := New()
	mustRun(t, ip, `a[1] = 10
i = 2
a[i] = 20
a["x"] = 30
b$[1] = "one"
total = a[1] + a[2] + a["x"]
`)
	if got := ip.GetInt("total"); got != 60 {
		t.Errorf("total = %d, want 60", got)
	}
	if got := ip.GetInt("a[2]"); got != 20 {
		t.Errorf("a[2] via host accessor = %d, want 20", got)
	}
	if got := ip.GetString("b$[1]"); got != "one" {
		t.Errorf("b$[1] = %q, want \"one\"", got)
	}
}

func TestLabelErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"numeric labels must increase", "20 x = 1\n10 x = 2", "out of sequence"},
		{"duplicate named label", "a:\nx = 1\na:\nx = 2", "duplicate label"},
		{"duplicate numeric label", "10 x = 1\n10 x = 2", "out of sequence"},
		{"goto nowhere", "goto nowhere", "undefined label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Run(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"divide by zero", "x = 1 / 0", "divide by zero"},
		{"modulo by zero", "x = 1 % 0", "divide by zero"},
		{"undefined variable read", "x = ghost", "undefined variable"},
		{"undefined function", "x = ghost(1)", "undefined function"},
		{"missing THEN", "if 1 out(1)", "THEN expected"},
		{"missing close paren", "x = (1 + 2", "missing ')'"},
		{"missing close bracket", "x = a[1", "missing ']'"},
		{"garbage after statement", "x = 1 y = 2", "':' or end of line expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Run(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestErrorCarriesLine(t *testing.T) {
	ip := New()
	err := ip.Run("x = 1\ny = 2\nz = 1 / 0\n")
	if err == nil {
		t.Fatal("expected error")
	}
	se, ok := err.(*ScriptError)
	if !ok {
		t.Fatalf("error type %T, want *ScriptError", err)
	}
	if se.Line != 3 {
		t.Errorf("line = %d, want 3", se.Line)
	}
	if se.Msg != "divide by zero" {
		t.Errorf("msg = %q", se.Msg)
	}
}

func TestEndStopsExecution(t *testing.T) {
	ip, seen := newTestInterp()
	mustRun(t, ip, `out(1)
end
out(2)
`)
	if len(*seen) != 1 || (*seen)[0] != "1" {
		t.Errorf("got %v, want [1]", *seen)
	}
}

func TestHaltFromExtension(t *testing.T) {
	ip, seen := newTestInterp()
	ip.Register("stop", func(ip *Interp, argv []Value) Value {
		ip.Halt()
		return IntVal(0)
	})
	mustRun(t, ip, `out(1)
stop()
out(2)
`)
	if len(*seen) != 1 || (*seen)[0] != "1" {
		t.Errorf("got %v, want [1]", *seen)
	}
}

// TestInvokeLabel drives a script subroutine from inside an extension
// function, the way a host-side callback dispatcher would.
func TestInvokeLabel(t *testing.T) {
	ip, seen := newTestInterp()
	ip.Register("invoke", func(ip *Interp, argv []Value) Value {
		if err := ip.InvokeLabel(ip.ArgString(argv, 0)); err != nil {
			ip.Throw("%s", err.Error())
		}
		return IntVal(1)
	})
	mustRun(t, ip, `out(1)
invoke("sub")
out(3)
end
sub:
out(2)
return
`)
	want := "1,2,3"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestInvokeLabelNested re-enters the interpreter from inside an already
// nested callback; each level must get its own sentinel frame and the outer
// resumption positions must survive both returns.
func TestInvokeLabelNested(t *testing.T) {
	ip, seen := newTestInterp()
	ip.Register("invoke", func(ip *Interp, argv []Value) Value {
		if err := ip.InvokeLabel(ip.ArgString(argv, 0)); err != nil {
			ip.Throw("%s", err.Error())
		}
		return IntVal(1)
	})
	mustRun(t, ip, `out(1)
invoke("outer")
out(5)
end
outer:
out(2)
invoke("inner")
out(4)
return
inner:
out(3)
return
`)
	want := "1,2,3,4,5"
	if got := strings.Join(*seen, ","); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestInvokeLabelError checks that a failure inside the nested invocation
// comes back as an error return and leaves the outer run able to continue.
func TestInvokeLabelError(t *testing.T) {
	ip, seen := newTestInterp()
	var nested error
	ip.Register("tryinvoke", func(ip *Interp, argv []Value) Value {
		nested = ip.InvokeLabel(ip.ArgString(argv, 0))
		return IntVal(0)
	})
	mustRun(t, ip, `tryinvoke("bad")
out("survived")
end
bad:
x = 1 / 0
return
`)
	if nested == nil || !strings.Contains(nested.Error(), "divide by zero") {
		t.Errorf("nested error = %v, want divide by zero", nested)
	}
	if len(*seen) != 1 || (*seen)[0] != "survived" {
		t.Errorf("got %v, want [survived]", *seen)
	}
}

func TestInvokeLabelUndefined(t *testing.T) {
	ip := New()
	var nested error
	ip.Register("tryinvoke", func(ip *Interp, argv []Value) Value {
		nested = ip.InvokeLabel(ip.ArgString(argv, 0))
		return IntVal(0)
	})
	mustRun(t, ip, `tryinvoke("nowhere")`)
	if nested == nil || !strings.Contains(nested.Error(), "undefined label") {
		t.Errorf("got %v, want undefined label error", nested)
	}
}

func TestRegisterReplaceAndDisable(t *testing.T) {
	ip := New()
	ip.Register("len", func(ip *Interp, argv []Value) Value {
		return IntVal(-1)
	})
	mustRun(t, ip, `x = len("abc")`)
	if got := ip.GetInt("x"); got != -1 {
		t.Errorf("replaced len: %d, want -1", got)
	}

	ip.Register("len", nil)
	if err := ip.Run(`x = len("abc")`); err == nil {
		t.Error("disabled function should be an undefined-function error")
	}
}

func TestTooManyParams(t *testing.T) {
	ip := NewWithLimits(Limits{
		MaxToken:     80,
		MaxParams:    3,
		MaxGosub:     20,
		MaxFor:       5,
		MaxErrorText: 80,
	})
	ip.Register("out", func(ip *Interp, argv []Value) Value { return IntVal(0) })
	err := ip.Run("out(1, 2, 3, 4)")
	if err == nil || !strings.Contains(err.Error(), "too many parameters") {
		t.Errorf("got %v, want too many parameters", err)
	}
}

func TestStdlib(t *testing.T) {
	tests := []struct {
		name string
		src  string
		get  string
		num  int
		str  string
	}{
		{"val", `x = val("17 pigs")`, "x", 17, ""},
		{"str$", `s$ = str$(17)`, "s$", 0, "17"},
		{"len", `x = len("hello")`, "x", 5, ""},
		{"left$", `s$ = left$("hello world", 5)`, "s$", 0, "hello"},
		{"left$ clamps", `s$ = left$("hi", 99)`, "s$", 0, "hi"},
		{"right$", `s$ = right$("hello world", 5)`, "s$", 0, "world"},
		{"mid$", `s$ = mid$("Hello World", 7, 11)`, "s$", 0, "World"},
		{"ucase$", `s$ = ucase$("mixed Case")`, "s$", 0, "MIXED CASE"},
		{"lcase$", `s$ = lcase$("Mixed CASE")`, "s$", 0, "mixed case"},
		{"trim$", `s$ = trim$("  padded  ")`, "s$", 0, "padded"},
		{"instr found", `x = instr("haystack", "stack")`, "x", 4, ""},
		{"instr missing", `x = instr("haystack", "needle")`, "x", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := New()
			mustRun(t, ip, tt.src)
			if strings.HasSuffix(tt.get, "$") {
				if got := ip.GetString(tt.get); got != tt.str {
					t.Errorf("%s = %q, want %q", tt.get, got, tt.str)
				}
			} else {
				if got := ip.GetInt(tt.get); got != tt.num {
					t.Errorf("%s = %d, want %d", tt.get, got, tt.num)
				}
			}
		})
	}
}

func TestDataFillsPseudoArray(t *testing.T) {
	ip := New()
	mustRun(t, ip, `n = data("names$", "alice", "bob")
m = data("nums", 10, 20, 30)
`)
	if got := ip.GetInt("n"); got != 2 {
		t.Errorf("n = %d, want 2", got)
	}
	if got := ip.GetString("names$[1]"); got != "alice" {
		t.Errorf("names$[1] = %q", got)
	}
	if got := ip.GetString("names$[2]"); got != "bob" {
		t.Errorf("names$[2] = %q", got)
	}
	if got := ip.GetInt("nums[3]"); got != 30 {
		t.Errorf("nums[3] = %d, want 30", got)
	}

	if err := ip.Run(`x = data("not an ident!", 1)`); err == nil {
		t.Error("invalid DATA() target should fail")
	}
}

func TestStdlibArgErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"len of number", "x = len(5)"},
		{"mid$ backwards", `s$ = mid$("abc", 3, 1)`},
		{"left$ negative", `s$ = left$("abc", -1)`},
		{"missing arg", "x = len()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New().Run(tt.src); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLetIsOptional(t *testing.T) {
	ip := New()
	mustRun(t, ip, "let x = 1\ny = 2")
	if ip.GetInt("x") != 1 || ip.GetInt("y") != 2 {
		t.Errorf("x=%d y=%d", ip.GetInt("x"), ip.GetInt("y"))
	}
}
