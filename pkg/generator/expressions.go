package generator

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"jsadvpl/pkg/parser"
)

var binaryOperators = map[string]string{
	"===": "==",
	"!==": "!=",
	"&&":  ".And.",
	"||":  ".Or.",
}

func (g *Generator) expr(e parser.Expression) string {
	switch e := e.(type) {
	case *parser.NumberLiteral:
		return formatNumber(e)
	case *parser.StringLiteral:
		return quoteString(e.Value)
	case *parser.TemplateLiteral:
		return g.template(e)
	case *parser.RegexLiteral:
		return quoteString(e.Pattern)
	case *parser.BooleanLiteral:
		if e.Value {
			return ".T."
		}
		return ".F."
	case *parser.NullLiteral:
		return "Nil"
	case *parser.Identifier:
		if e.Value == "super" {
			return "_Super"
		}
		return e.Value
	case *parser.ThisExpr:
		return "Self"
	case *parser.BinaryExpr:
		op := e.Operator
		if mapped, ok := binaryOperators[op]; ok {
			op = mapped
		}
		return "(" + g.expr(e.Left) + " " + op + " " + g.expr(e.Right) + ")"
	case *parser.UnaryExpr:
		if e.Operator == "!" {
			return ".Not. " + g.operand(e.Operand)
		}
		return e.Operator + g.operand(e.Operand)
	case *parser.UpdateExpr:
		if e.Prefix {
			return e.Operator + g.operand(e.Operand)
		}
		return g.expr(e.Operand) + e.Operator
	case *parser.AssignmentExpr:
		// inside an expression a bare = compares
		op := e.Operator
		if op == "=" {
			op = ":="
		}
		return "(" + g.expr(e.Target) + " " + op + " " + g.expr(e.Value) + ")"
	case *parser.ConditionalExpr:
		return "IIf(" + g.expr(e.Test) + ", " + g.expr(e.Consequent) + ", " + g.expr(e.Alternate) + ")"
	case *parser.ObjectLiteral:
		if len(e.Properties) == 0 {
			return "{=>}"
		}
		props := lo.Map(e.Properties, func(p *parser.Property, _ int) string {
			return quoteString(p.Key) + " => " + g.expr(p.Value)
		})
		return "{" + strings.Join(props, ", ") + "}"
	case *parser.ArrayLiteral:
		return "{" + g.args(e.Elements) + "}"
	case *parser.MemberExpr:
		return g.member(e)
	case *parser.IndexExpr:
		if _, ok := e.Index.(*parser.StringLiteral); ok {
			return g.expr(e.Object) + "[" + g.expr(e.Index) + "]"
		}
		return g.expr(e.Object) + "[" + g.offset(e.Index, 1) + "]"
	case *parser.CallExpr:
		return g.call(e)
	case *parser.NewExpr:
		return g.expr(e.Callee) + "():New(" + g.args(e.Arguments) + ")"
	case *parser.AwaitExpr:
		return g.expr(e.Argument)
	case *parser.ArrowFunction:
		return "{|" + joinParams(e.Params) + "| " + g.expr(e.Body) + "}"
	case nil:
		return g.fail(nil, "nil expression")
	default:
		return g.fail(e, "")
	}
}

// statementExpr renders e in statement position, where = assigns.
func (g *Generator) statementExpr(e parser.Expression) string {
	if a, ok := e.(*parser.AssignmentExpr); ok {
		return g.expr(a.Target) + " " + a.Operator + " " + g.expr(a.Value)
	}
	return g.expr(e)
}

// operand renders the operand of a prefix operator. Nested prefix operators
// are parenthesised so that - -x never becomes the decrement --x.
func (g *Generator) operand(e parser.Expression) string {
	switch e.(type) {
	case *parser.UnaryExpr, *parser.UpdateExpr:
		return "(" + g.expr(e) + ")"
	}
	return g.expr(e)
}

func (g *Generator) args(exprs []parser.Expression) string {
	return strings.Join(lo.Map(exprs, func(e parser.Expression, _ int) string { return g.expr(e) }), ", ")
}

// member renders property access: this.x is ::x, a.length is Len(a),
// anything else is a message send o:p.
func (g *Generator) member(e *parser.MemberExpr) string {
	prop := e.Property.Value
	switch obj := e.Object.(type) {
	case *parser.ThisExpr:
		return "::" + prop
	case *parser.Identifier:
		if obj.Value == "super" {
			return "_Super:" + prop
		}
	}
	if prop == "length" {
		return "Len(" + g.expr(e.Object) + ")"
	}
	return g.expr(e.Object) + ":" + prop
}

// methodTarget renders the receiver and name of a method call.
func (g *Generator) methodTarget(e *parser.MemberExpr) string {
	prop := e.Property.Value
	switch obj := e.Object.(type) {
	case *parser.ThisExpr:
		return "::" + prop
	case *parser.Identifier:
		if obj.Value == "super" {
			return "_Super:" + prop
		}
	}
	return g.expr(e.Object) + ":" + prop
}

func (g *Generator) call(e *parser.CallExpr) string {
	switch callee := e.Callee.(type) {
	case *parser.MemberExpr:
		if out, ok := g.rewriteMethod(callee.Property.Value, callee.Object, e.Arguments); ok {
			return out
		}
		return g.methodTarget(callee) + "(" + g.args(e.Arguments) + ")"
	case *parser.Identifier:
		name := callee.Value
		if name == "super" {
			return "_Super:New(" + g.args(e.Arguments) + ")"
		}
		if g.functions[name] {
			return "U_" + name + "(" + g.args(e.Arguments) + ")"
		}
		if out, ok := g.rewriteFunction(name, e.Arguments); ok {
			return out
		}
	}
	return g.expr(e.Callee) + "(" + g.args(e.Arguments) + ")"
}

// template renders a template string as a concatenation.
func (g *Generator) template(t *parser.TemplateLiteral) string {
	var parts []string
	for i, quasi := range t.Quasis {
		if quasi != "" {
			parts = append(parts, quoteString(quasi))
		}
		if i < len(t.Expressions) {
			parts = append(parts, g.stringValue(t.Expressions[i]))
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " + ")
}

// concatArgs joins ConOut arguments with single spaces, as console.log does.
func (g *Generator) concatArgs(args []parser.Expression) string {
	if len(args) == 0 {
		return `""`
	}
	parts := lo.Map(args, func(a parser.Expression, _ int) string { return g.stringValue(a) })
	return strings.Join(parts, ` + " " + `)
}

// stringValue renders e, converting it to character type unless it is
// statically a string.
func (g *Generator) stringValue(e parser.Expression) string {
	if isStringExpr(e) {
		return g.expr(e)
	}
	return "cValToChar(" + g.expr(e) + ")"
}

func isStringExpr(e parser.Expression) bool {
	switch e := e.(type) {
	case *parser.StringLiteral, *parser.TemplateLiteral, *parser.RegexLiteral:
		return true
	case *parser.BinaryExpr:
		return e.Operator == "+" && (isStringExpr(e.Left) || isStringExpr(e.Right))
	}
	return false
}

// offset renders e + delta, folding integer literals.
func (g *Generator) offset(e parser.Expression, delta int64) string {
	if n, ok := intLiteral(e); ok {
		return strconv.FormatInt(n+delta, 10)
	}
	if delta < 0 {
		return "(" + g.expr(e) + ") - " + strconv.FormatInt(-delta, 10)
	}
	return "(" + g.expr(e) + ") + " + strconv.FormatInt(delta, 10)
}

// intLiteral reports the value of an integral numeric literal, including a
// negated one.
func intLiteral(e parser.Expression) (int64, bool) {
	sign := 1.0
	if u, ok := e.(*parser.UnaryExpr); ok && u.Operator == "-" {
		sign = -1
		e = u.Operand
	}
	n, ok := e.(*parser.NumberLiteral)
	if !ok || n.Value != math.Trunc(n.Value) || math.Abs(n.Value) > 1<<53 {
		return 0, false
	}
	return int64(sign * n.Value), true
}

// integral reports whether e is assumed to hold an integer. Only fractional
// numeric literals are known not to; other expressions are taken as integers.
func integral(e parser.Expression) bool {
	if u, ok := e.(*parser.UnaryExpr); ok && u.Operator == "-" {
		e = u.Operand
	}
	if _, ok := e.(*parser.NumberLiteral); !ok {
		return true
	}
	_, ok := intLiteral(e)
	return ok
}

// formatNumber keeps decimal spellings and rewrites hex, exponent and
// leading-dot forms, which ADVPL does not accept.
func formatNumber(n *parser.NumberLiteral) string {
	raw := n.Raw
	if raw != "" && raw[0] != '.' && strings.IndexFunc(raw, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	}) < 0 {
		return raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// quoteString renders s as an ADVPL string expression. ADVPL strings have no
// escapes, so control characters become Chr() calls and a run containing
// double quotes is delimited with single quotes.
func quoteString(s string) string {
	var parts []string
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		text := run.String()
		run.Reset()
		switch {
		case !strings.Contains(text, `"`):
			parts = append(parts, `"`+text+`"`)
		case !strings.Contains(text, `'`):
			parts = append(parts, `'`+text+`'`)
		default:
			parts = append(parts, `"`+strings.ReplaceAll(text, `"`, `" + Chr(34) + "`)+`"`)
		}
	}
	for _, r := range s {
		if r < 0x20 {
			flush()
			parts = append(parts, "Chr("+strconv.Itoa(int(r))+")")
			continue
		}
		run.WriteRune(r)
	}
	flush()
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " + ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
