package generator

import (
	stderrors "errors"
	"strings"
	"testing"

	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/lexer"
	"jsadvpl/pkg/parser"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Date = "2024-01-01"
	return opts
}

func generate(t *testing.T, input string, opts Options) string {
	t.Helper()
	tokens, err := lexer.Lex(input)
	if err != nil {
		t.Fatalf("lex error for %q: %v", input, err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error for %q: %v", input, err)
	}
	out, err := Generate(program, opts)
	if err != nil {
		t.Fatalf("generate error for %q: %v", input, err)
	}
	return out
}

// body returns the generated lines following the header.
func body(out string) []string {
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	for i, line := range lines {
		if line == "/*/" {
			if i+2 > len(lines) {
				return nil
			}
			return lines[i+2:]
		}
	}
	return lines
}

func countLines(lines []string, match func(string) bool) int {
	n := 0
	for _, line := range lines {
		if match(strings.TrimSpace(line)) {
			n++
		}
	}
	return n
}

func TestFunctionWithTrailingReturn(t *testing.T) {
	lines := body(generate(t, "function add(a, b) { return a + b; }", testOptions()))
	expected := []string{
		"User Function add(a, b)",
		"Return (a + b)",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
	if n := countLines(lines, func(l string) bool { return strings.HasPrefix(l, "Return") }); n != 1 {
		t.Errorf("expected a single Return, got %d", n)
	}
}

func TestFunctionWithoutReturn(t *testing.T) {
	lines := body(generate(t, "function hello() { console.log('hi'); }", testOptions()))
	expected := []string{
		"User Function hello()",
		`    ConOut("hi")`,
		"Return",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
}

func TestEarlyReturnStaysInBody(t *testing.T) {
	lines := body(generate(t, "function f(x) { if (x) { return 1; } return 2; }", testOptions()))
	expected := []string{
		"User Function f(x)",
		"    If x",
		"        Return 1",
		"    EndIf",
		"Return 2",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
}

func TestIfOperatorMapping(t *testing.T) {
	lines := body(generate(t, "if (a === b && c) { console.log(a); }", testOptions()))
	var ifLines []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "If ") {
			ifLines = append(ifLines, line)
		}
	}
	if len(ifLines) != 1 {
		t.Fatalf("expected one If line, got %v", ifLines)
	}
	if !strings.Contains(ifLines[0], "==") || !strings.Contains(ifLines[0], ".And.") || strings.Contains(ifLines[0], "===") {
		t.Errorf("unexpected If line %q", ifLines[0])
	}
	if n := countLines(lines, func(l string) bool { return l == "EndIf" }); n != 1 {
		t.Errorf("expected one EndIf, got %d", n)
	}
}

func TestIfElseIfElse(t *testing.T) {
	tests := []struct {
		input   string
		elseIfs int
	}{
		{"if (a) { x(); } else if (b) { y(); } else { z(); }", 1},
		{"if (a) { x(); } else if (b) { y(); } else if (c) { w(); } else { z(); }", 2},
	}
	for _, tt := range tests {
		lines := body(generate(t, tt.input, testOptions()))
		counts := map[string]int{
			"If":     countLines(lines, func(l string) bool { return strings.HasPrefix(l, "If ") }),
			"ElseIf": countLines(lines, func(l string) bool { return strings.HasPrefix(l, "ElseIf ") }),
			"Else":   countLines(lines, func(l string) bool { return l == "Else" }),
			"EndIf":  countLines(lines, func(l string) bool { return l == "EndIf" }),
		}
		expected := map[string]int{"If": 1, "ElseIf": tt.elseIfs, "Else": 1, "EndIf": 1}
		for k, want := range expected {
			if counts[k] != want {
				t.Errorf("%q: expected %d %s, got %d:\n%s", tt.input, want, k, counts[k], strings.Join(lines, "\n"))
			}
		}
	}
}

func TestEmptyProgramIsHeaderOnly(t *testing.T) {
	out, err := Generate(&parser.Program{}, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	expected := `#Include "TOTVS.ch"
#Include "Protheus.ch"

/*/{Protheus.doc} Main
Transpiled from JavaScript
@type function
@author jsadvpl
@since 2024-01-01
@version 1.0
/*/
`
	if out != expected {
		t.Fatalf("expected header only:\n%q\ngot:\n%q", expected, out)
	}
}

func TestHeaderOptions(t *testing.T) {
	opts := Options{Name: "ZFAT001", Description: "Billing", Author: "dev", Date: "01/02/2025", Includes: []string{"rwmake.ch"}}
	out := generate(t, "", opts)
	for _, want := range []string{`#Include "rwmake.ch"`, "{Protheus.doc} ZFAT001", "\nBilling\n", "@author dev", "@since 01/02/2025"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "TOTVS.ch") {
		t.Errorf("custom includes should replace the defaults")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	input := `function f(x) { return x; }
class A { constructor() { this.v = 1; } get() { return this.v; } }
for (let i = 0; i < 3; i++) { print(f(i)); }`
	first := generate(t, input, testOptions())
	second := generate(t, input, testOptions())
	if first != second {
		t.Fatalf("outputs differ:\n%s\n---\n%s", first, second)
	}
}

func TestMappings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x = true, y = null;", "Local x := .T., y := Nil"},
		{"let u = undefined, f = false;", "Local u := Nil, f := .F."},
		{"let n = !a;", "Local n := .Not. a"},
		{"let m = -a;", "Local m := -a"},
		{"x = a !== b || c;", "x = ((a != b) .Or. c)"},
		{"x = a == b;", "x = (a == b)"},
		{"console.log('a', 1, `v=${v}`);", `ConOut("a" + " " + cValToChar(1) + " " + "v=" + cValToChar(v))`},
		{"print();", `ConOut("")`},
		{"print(`${a}${b}`);", "ConOut(cValToChar(a) + cValToChar(b))"},
		{"items.push(x);", "aAdd(items, x)"},
		{"n = items.length;", "n = Len(items)"},
		{"u = s.toUpperCase();", "u = Upper(s)"},
		{"l = s.toLowerCase();", "l = Lower(s)"},
		{"w = s.trim();", "w = AllTrim(s)"},
		{"t = s.substring(i, j);", "t = SubStr(s, (i) + 1, (j) - (i))"},
		{"t = s.substring(2);", "t = SubStr(s, 3)"},
		{"t = s.substring(1, 4);", "t = SubStr(s, 2, 3)"},
		{"p = s.indexOf('x');", `p = (At("x", s) - 1)`},
		{"o = {a: 1, 'b': [1, 2]};", `o = {"a" => 1, "b" => {1, 2}}`},
		{"o = {};", "o = {=>}"},
		{"v = a[0] + a[i];", "v = (a[1] + a[(i) + 1])"},
		{"v = o.p;", "v = o:p"},
		{"v = o['k'];", `v = o["k"]`},
		{"o.save(1);", "o:save(1)"},
		{"c = new Client(1);", "c = Client():New(1)"},
		{"f = (a, b) => a + b;", "f = {|a, b| (a + b)}"},
		{"v = a ? 1 : 2;", "v = IIf(a, 1, 2)"},
		{"r = /a+/g;", `r = "a+"`},
		{"v = 0xFF + 1e3 + .5;", "v = ((255 + 1000) + 0.5)"},
		{`s = 'say "hi"';`, `s = 'say "hi"'`},
		{`s = "a\nb";`, `s = "a" + Chr(10) + "b"`},
		{"i++;", "i++"},
		{"--i;", "--i"},
		{"x += 2;", "x += 2"},
		{"await save(x);", "save(x)"},
		{"n = parseInt(s);", "n = Int(Val(s))"},
		{"n = String(5);", "n = cValToChar(5)"},
		{"// note", "// note"},
		{"/* multi\nline */", "/* multi\nline */"},
		{"import { a } from './m';", `// import "./m" has no ADVPL equivalent`},
		{"export default 42;", "// export default 42 has no ADVPL equivalent"},
		{"throw new Error('bad');", `UserException("bad")`},
		{"throw err;", "UserException(err)"},
		{"while (i < 3) { i++; }", "While (i < 3)\n    i++\nEndDo"},
		{"{ a(); }", "a()"},
		{"let y = -(-x);", "Local y := -(-x)"},
		{"let y = - +x;", "Local y := -(+x)"},
		{"let y = +(+x);", "Local y := +(+x)"},
		{"let y = -(--x);", "Local y := -(--x)"},
		{"let y = !!a;", "Local y := .Not. (.Not. a)"},
		{"a = b = c;", "a = (b := c)"},
		{"let from = 1, as = from;", "Local from := 1, as := from"},
		{"a = b += 1;", "a = (b += 1)"},
		{"print(x = 1);", "ConOut(cValToChar((x := 1)))"},
		{"if ((x = f())) { g(); }", "If (x := f())"},
	}

	for _, tt := range tests {
		out := generate(t, tt.input, testOptions())
		if !strings.Contains(out, tt.expected) {
			t.Errorf("%q: expected output to contain %q, got:\n%s", tt.input, tt.expected, strings.Join(body(out), "\n"))
		}
	}
}

func TestUserFunctionCalls(t *testing.T) {
	out := generate(t, "function helper(x) { return x * 2; }\nlet y = helper(3);\nlet z = other(3);", testOptions())
	for _, want := range []string{"User Function helper(x)", "Local y := U_helper(3)", "Local z := other(3)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	out = generate(t, "export function f() {}\nf();", testOptions())
	for _, want := range []string{"User Function f()", "U_f()"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestForLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"for (let i = 0; i < 10; i++) { print(i); }", []string{"For i := 0 To 9", "    ConOut(cValToChar(i))", "Next"}},
		{"for (let i = 1; i <= n; i++) {}", []string{"For i := 1 To n", "Next"}},
		{"for (let i = n; i > 0; i--) {}", []string{"For i := n To 1 Step -1"}},
		{"for (i = 0; i < n; i += 2) {}", []string{"For i := 0 To (n) - 1 Step 2"}},
		{"for (let i = 10; i >= 0; i -= 5) {}", []string{"For i := 10 To 0 Step -5"}},
		{"for (let i = 0; i < n; j++) { f(); }", []string{"Local i := 0", "While (i < n)", "    f()", "    j++", "EndDo"}},
		{"for (let i = 0; i > n; i++) {}", []string{"While (i > n)", "EndDo"}},
		{"for (;;) { f(); }", []string{"While .T.", "EndDo"}},
		{"for (let i = 0; i < 2.5; i++) {}", []string{"Local i := 0", "While (i < 2.5)", "    i++", "EndDo"}},
		{"for (let i = 0.5; i < 3; i++) {}", []string{"While (i < 3)"}},
		{"for (let i = 0; i < 3; i += 0.5) {}", []string{"While (i < 3)", "    i += 0.5"}},
		{"for (let i = 3; i > 0.5; i--) {}", []string{"While (i > 0.5)"}},
		{"for (let i = 0; i <= 2.5; i++) {}", []string{"For i := 0 To 2.5"}},
		{"for (i = 0; i < n; i = i + 2) { f(); }", []string{"i = 0", "While (i < n)", "    i = (i + 2)"}},
	}
	for _, tt := range tests {
		out := generate(t, tt.input, testOptions())
		for _, want := range tt.expected {
			if !strings.Contains(out, want+"\n") {
				t.Errorf("%q: expected %q in:\n%s", tt.input, want, strings.Join(body(out), "\n"))
			}
		}
	}
}

func TestForOf(t *testing.T) {
	lines := body(generate(t, "for (const item of items) { print(item); }", testOptions()))
	expected := []string{
		"For nItemIdx := 1 To Len(items)",
		"    item := items[nItemIdx]",
		"    ConOut(cValToChar(item))",
		"Next",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
}

func TestTryCatchFinally(t *testing.T) {
	lines := body(generate(t, "try { risky(); } catch (e) { print(e); } finally { done(); }", testOptions()))
	expected := []string{
		"Begin Sequence",
		"    risky()",
		"Recover Using e",
		"    ConOut(cValToChar(e))",
		"End Sequence",
		"done()",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}

	lines = body(generate(t, "try { risky(); } catch { }", testOptions()))
	if lines[2] != "Recover Using oError" {
		t.Errorf("expected default recover variable, got %q", lines[2])
	}
}

func TestClass(t *testing.T) {
	input := `class Client extends Base {
  constructor(name) {
    super(name);
    this.name = name;
    this.orders = [];
  }
  add(order) {
    this.orders.push(order);
    return this.orders.length;
  }
}`
	lines := body(generate(t, input, testOptions()))
	expected := []string{
		"Class Client From Base",
		"    Data name",
		"    Data orders",
		"",
		"    Method New(name) Constructor",
		"    Method add(order)",
		"EndClass",
		"",
		"Method New(name) Class Client",
		"    _Super:New(name)",
		"    ::name = name",
		"    ::orders = {}",
		"Return Self",
		"",
		"Method add(order) Class Client",
		"    aAdd(::orders, order)",
		"Return Len(::orders)",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
}

func TestClassWithoutConstructor(t *testing.T) {
	lines := body(generate(t, "class Empty { run() { print(1); } }", testOptions()))
	for _, want := range []string{"Class Empty", "    Method New() Constructor", "Method New() Class Empty", "Return Self", "Method run() Class Empty"} {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %q in:\n%s", want, strings.Join(lines, "\n"))
		}
	}
}

func TestIndentOption(t *testing.T) {
	opts := testOptions()
	opts.Indent = 2
	lines := body(generate(t, "function f() { if (a) { g(); } }", opts))
	expected := []string{"User Function f()", "  If a", "    g()", "  EndIf", "Return"}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(expected, "\n"), strings.Join(lines, "\n"))
	}
}

func TestGenerationErrors(t *testing.T) {
	tests := []struct {
		name    string
		program *parser.Program
	}{
		{"nil program", nil},
		{"nil statement", &parser.Program{Body: []parser.Statement{nil}}},
		{"nil expression", &parser.Program{Body: []parser.Statement{&parser.ExpressionStmt{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Generate(tt.program, testOptions())
			if out != "" {
				t.Errorf("expected no output, got %q", out)
			}
			var ge *errors.GenerationError
			if !stderrors.As(err, &ge) {
				t.Fatalf("expected *errors.GenerationError, got %T: %v", err, err)
			}
		})
	}
}

func TestNestedFunctionIsRejected(t *testing.T) {
	tests := []string{
		"function outer() { function inner() { return 1; } return inner(); }",
		"if (x) { function f() {} }",
		"class A { run() { function step() {} } }",
	}
	for _, input := range tests {
		tokens, err := lexer.Lex(input)
		if err != nil {
			t.Fatal(err)
		}
		program, err := parser.Parse(tokens)
		if err != nil {
			t.Fatalf("parse error for %q: %v", input, err)
		}
		out, err := Generate(program, testOptions())
		var ge *errors.GenerationError
		if !stderrors.As(err, &ge) {
			t.Fatalf("%q: expected *errors.GenerationError, got %T: %v", input, err, err)
		}
		if out != "" {
			t.Errorf("%q: expected no output, got %q", input, out)
		}
		if ge.Line != 1 {
			t.Errorf("%q: expected error on line 1, got %d", input, ge.Line)
		}
	}
}
