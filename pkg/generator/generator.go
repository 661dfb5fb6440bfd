package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/parser"
)

// Options control the generated file header and layout.
type Options struct {
	Name        string   // documented symbol in the Protheus.doc header
	Description string   // first line of the Protheus.doc header
	Author      string   // @author
	Date        string   // @since, supplied by the caller so output stays deterministic
	Indent      int      // spaces per nesting level
	Includes    []string // #Include directives
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		Name:        "Main",
		Description: "Transpiled from JavaScript",
		Author:      "jsadvpl",
		Indent:      4,
		Includes:    []string{"TOTVS.ch", "Protheus.ch"},
	}
}

// Generator transforms AST nodes into ADVPL source. A Generator is cheap
// and meant to be used for a single program.
type Generator struct {
	opts        Options
	indentLevel int
	buffer      bytes.Buffer

	functions map[string]bool // user functions declared at top level
	err       error           // first failure; generation stops producing output once set
}

// Generate renders program as ADVPL source.
func Generate(program *parser.Program, opts Options) (string, error) {
	return New(opts).Emit(program)
}

// New creates a Generator. Zero Indent and empty Includes take their defaults.
func New(opts Options) *Generator {
	defaults := DefaultOptions()
	if opts.Indent <= 0 {
		opts.Indent = defaults.Indent
	}
	if len(opts.Includes) == 0 {
		opts.Includes = defaults.Includes
	}
	return &Generator{opts: opts}
}

// Emit converts a program AST to ADVPL code.
func (g *Generator) Emit(program *parser.Program) (string, error) {
	if program == nil {
		return "", &errors.GenerationError{NodeKind: string(parser.ProgramNode), Msg: "nil program"}
	}

	g.buffer.Reset()
	g.indentLevel = 0
	g.err = nil
	g.functions = declaredFunctions(program.Body)

	g.emitHeader()
	if len(program.Body) > 0 {
		g.blankLine()
		g.emitStatements(program.Body)
	}

	if g.err != nil {
		return "", g.err
	}
	return strings.TrimRight(g.buffer.String(), "\n") + "\n", nil
}

func declaredFunctions(body []parser.Statement) map[string]bool {
	functions := make(map[string]bool)
	for _, stmt := range body {
		if export, ok := stmt.(*parser.ExportDecl); ok {
			stmt = export.Declaration
		}
		if fn, ok := stmt.(*parser.FunctionDecl); ok {
			functions[fn.Name.Value] = true
		}
	}
	return functions
}

func (g *Generator) emitHeader() {
	for _, include := range g.opts.Includes {
		g.writeLine(`#Include "%s"`, include)
	}
	g.blankLine()
	g.writeLine("/*/{Protheus.doc} %s", g.opts.Name)
	g.writeLine("%s", g.opts.Description)
	g.writeLine("@type function")
	g.writeLine("@author %s", g.opts.Author)
	g.writeLine("@since %s", g.opts.Date)
	g.writeLine("@version 1.0")
	g.writeLine("/*/")
}

// Helper methods

func (g *Generator) indent() {
	g.indentLevel++
}

func (g *Generator) dedent() {
	if g.indentLevel > 0 {
		g.indentLevel--
	}
}

func (g *Generator) writeIndent() {
	g.buffer.WriteString(strings.Repeat(" ", g.indentLevel*g.opts.Indent))
}

func (g *Generator) writeLine(format string, args ...interface{}) {
	g.writeIndent()
	fmt.Fprintf(&g.buffer, format, args...)
	g.buffer.WriteString("\n")
}

func (g *Generator) blankLine() {
	g.buffer.WriteString("\n")
}

// fail records a GenerationError for node and returns an empty rendering.
func (g *Generator) fail(node parser.Node, msg string) string {
	if g.err != nil {
		return ""
	}
	ge := &errors.GenerationError{NodeKind: "nil", Msg: msg}
	if node != nil {
		tok := node.GetToken()
		ge.NodeKind = string(node.Kind())
		ge.Position = errors.Position{Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}
	}
	g.err = ge
	return ""
}

// AST emitter methods

func (g *Generator) emitStatements(stmts []parser.Statement) {
	for _, stmt := range stmts {
		g.emitStatement(stmt)
	}
}

func (g *Generator) emitBlock(stmts []parser.Statement) {
	g.indent()
	g.emitStatements(stmts)
	g.dedent()
}

func (g *Generator) emitStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.ImportDecl:
		g.writeLine(`// import "%s" has no ADVPL equivalent`, s.Source)
	case *parser.ExportDecl:
		if s.Declaration != nil {
			g.emitStatement(s.Declaration)
		} else {
			g.writeLine("// %s has no ADVPL equivalent", strings.TrimSuffix(s.String(), ";"))
		}
	case *parser.VarDecl:
		g.emitVarDecl(s)
	case *parser.Print:
		g.writeLine("ConOut(%s)", g.concatArgs(s.Arguments))
	case *parser.ConsoleLog:
		g.writeLine("ConOut(%s)", g.concatArgs(s.Arguments))
	case *parser.FunctionDecl:
		if g.indentLevel > 0 {
			// User Function is only valid at file scope
			g.fail(s, "nested function declaration "+s.Name.Value)
			return
		}
		g.writeLine("User Function %s(%s)", s.Name.Value, joinParams(s.Params))
		g.emitBodyWithTerminator(s.Body)
		g.blankLine()
	case *parser.ReturnStmt:
		g.emitReturn(s)
	case *parser.IfStmt:
		g.emitIf(s)
	case *parser.ExpressionStmt:
		g.writeLine("%s", g.statementExpr(s.Expression))
	case *parser.CommentLine:
		g.writeLine("//%s", s.Text)
	case *parser.CommentBlock:
		g.writeLine("/*%s*/", s.Text)
	case *parser.BlockStmt:
		g.emitStatements(s.Body)
	case *parser.WhileStmt:
		g.writeLine("While %s", g.expr(s.Test))
		g.emitBlock(s.Body)
		g.writeLine("EndDo")
	case *parser.ForStmt:
		g.emitFor(s)
	case *parser.ForOfStmt:
		g.emitForOf(s)
	case *parser.TryStmt:
		g.emitTry(s)
	case *parser.ThrowStmt:
		g.writeLine("UserException(%s)", g.throwMessage(s.Argument))
	case *parser.ClassDecl:
		g.emitClass(s)
	default:
		if stmt == nil {
			g.fail(nil, "nil statement")
			return
		}
		g.fail(stmt, "")
	}
}

func (g *Generator) emitVarDecl(s *parser.VarDecl) {
	decls := lo.Map(s.Declarations, func(d *parser.VarDeclarator, _ int) string {
		if d.Value == nil {
			return d.Name.Value
		}
		return d.Name.Value + " := " + g.expr(d.Value)
	})
	g.writeLine("Local %s", strings.Join(decls, ", "))
}

func (g *Generator) emitReturn(s *parser.ReturnStmt) {
	if s.Value == nil {
		g.writeLine("Return")
		return
	}
	g.writeLine("Return %s", g.expr(s.Value))
}

// emitBodyWithTerminator writes a function body followed by exactly one
// closing Return at the function's own level. A trailing return statement
// becomes that terminator.
func (g *Generator) emitBodyWithTerminator(body []parser.Statement) {
	rest, ret := splitTerminator(body)
	g.emitBlock(rest)
	if ret != nil {
		g.emitReturn(ret)
		return
	}
	g.writeLine("Return")
}

// splitTerminator separates the last return statement of body, ignoring
// comments that follow it.
func splitTerminator(body []parser.Statement) ([]parser.Statement, *parser.ReturnStmt) {
scan:
	for i := len(body) - 1; i >= 0; i-- {
		switch s := body[i].(type) {
		case *parser.CommentLine, *parser.CommentBlock:
			continue
		case *parser.ReturnStmt:
			rest := make([]parser.Statement, 0, len(body)-1)
			rest = append(rest, body[:i]...)
			rest = append(rest, body[i+1:]...)
			return rest, s
		default:
			break scan
		}
	}
	return body, nil
}

// ifState tracks the position inside an If/ElseIf/Else/EndIf chain.
type ifState int

const (
	ifBegin ifState = iota
	ifInConsequent
	ifAwaitingElseOrElseIf
	ifDone
)

// emitIf flattens a right-nested else-if chain into a single If ... EndIf.
func (g *Generator) emitIf(stmt *parser.IfStmt) {
	current := stmt
	state := ifBegin
	for state != ifDone {
		switch state {
		case ifBegin:
			g.writeLine("If %s", g.expr(current.Test))
			state = ifInConsequent
		case ifInConsequent:
			g.emitBlock(current.Consequent)
			state = ifAwaitingElseOrElseIf
		case ifAwaitingElseOrElseIf:
			if next, ok := current.ElseIf(); ok {
				g.writeLine("ElseIf %s", g.expr(next.Test))
				current = next
				state = ifInConsequent
				continue
			}
			if current.Alternate != nil {
				g.writeLine("Else")
				g.emitBlock(current.Alternate)
			}
			g.writeLine("EndIf")
			state = ifDone
		}
	}
}

func (g *Generator) emitFor(s *parser.ForStmt) {
	if header, ok := g.countedLoop(s); ok {
		g.writeLine("%s", header)
		g.emitBlock(s.Body)
		g.writeLine("Next")
		return
	}

	if s.Init != nil {
		g.emitStatement(s.Init)
	}
	cond := ".T."
	if s.Test != nil {
		cond = g.expr(s.Test)
	}
	g.writeLine("While %s", cond)
	g.indent()
	g.emitStatements(s.Body)
	if s.Update != nil {
		g.writeLine("%s", g.statementExpr(s.Update))
	}
	g.dedent()
	g.writeLine("EndDo")
}

// countedLoop recognises `i = a; i < b; i++` shaped loops and renders the
// matching For ... To ... Step header.
func (g *Generator) countedLoop(s *parser.ForStmt) (string, bool) {
	name, start, ok := loopInit(s.Init)
	if !ok || s.Test == nil || s.Update == nil {
		return "", false
	}
	test, ok := s.Test.(*parser.BinaryExpr)
	if !ok {
		return "", false
	}
	if id, ok := test.Left.(*parser.Identifier); !ok || id.Value != name {
		return "", false
	}
	step, ascending, ok := g.loopStep(s.Update, name)
	if !ok {
		return "", false
	}

	var bound string
	switch {
	case test.Operator == "<=" && ascending, test.Operator == ">=" && !ascending:
		bound = g.expr(test.Right)
	case test.Operator == "<" && ascending && integralLoop(start, test.Right, s.Update):
		bound = g.offset(test.Right, -1)
	case test.Operator == ">" && !ascending && integralLoop(start, test.Right, s.Update):
		bound = g.offset(test.Right, 1)
	default:
		return "", false
	}

	header := fmt.Sprintf("For %s := %s To %s", name, g.expr(start), bound)
	if step != "" {
		header += " Step " + step
	}
	return header, true
}

// integralLoop reports whether a strict bound can be turned into an
// inclusive one by adding or subtracting 1.
func integralLoop(start, bound, update parser.Expression) bool {
	if !integral(start) || !integral(bound) {
		return false
	}
	if a, ok := update.(*parser.AssignmentExpr); ok {
		return integral(a.Value)
	}
	return true
}

func loopInit(init parser.Statement) (string, parser.Expression, bool) {
	switch s := init.(type) {
	case *parser.VarDecl:
		if len(s.Declarations) == 1 && s.Declarations[0].Value != nil {
			return s.Declarations[0].Name.Value, s.Declarations[0].Value, true
		}
	case *parser.ExpressionStmt:
		if assign, ok := s.Expression.(*parser.AssignmentExpr); ok && assign.Operator == "=" {
			if id, ok := assign.Target.(*parser.Identifier); ok {
				return id.Value, assign.Value, true
			}
		}
	}
	return "", nil, false
}

// loopStep returns the Step clause ("" for 1) and the loop direction.
func (g *Generator) loopStep(update parser.Expression, name string) (string, bool, bool) {
	switch u := update.(type) {
	case *parser.UpdateExpr:
		if id, ok := u.Operand.(*parser.Identifier); !ok || id.Value != name {
			return "", false, false
		}
		if u.Operator == "++" {
			return "", true, true
		}
		return "-1", false, true
	case *parser.AssignmentExpr:
		if id, ok := u.Target.(*parser.Identifier); !ok || id.Value != name {
			return "", false, false
		}
		switch u.Operator {
		case "+=":
			return g.expr(u.Value), true, true
		case "-=":
			if n, ok := intLiteral(u.Value); ok {
				return fmt.Sprintf("%d", -n), false, true
			}
			return "-(" + g.expr(u.Value) + ")", false, true
		}
	}
	return "", false, false
}

func (g *Generator) emitForOf(s *parser.ForOfStmt) {
	index := "n" + upperFirst(s.Name.Value) + "Idx"
	iterable := g.expr(s.Iterable)
	g.writeLine("For %s := 1 To Len(%s)", index, iterable)
	g.indent()
	g.writeLine("%s := %s[%s]", s.Name.Value, iterable, index)
	g.emitStatements(s.Body)
	g.dedent()
	g.writeLine("Next")
}

func (g *Generator) emitTry(s *parser.TryStmt) {
	g.writeLine("Begin Sequence")
	g.emitBlock(s.Block)
	if s.Handler != nil {
		param := "oError"
		if s.Param != nil {
			param = s.Param.Value
		}
		g.writeLine("Recover Using %s", param)
		g.emitBlock(s.Handler)
	}
	g.writeLine("End Sequence")
	g.emitStatements(s.Finalizer)
}

// throwMessage unwraps `new Error(msg)` to msg.
func (g *Generator) throwMessage(arg parser.Expression) string {
	if n, ok := arg.(*parser.NewExpr); ok && len(n.Arguments) == 1 {
		if id, ok := n.Callee.(*parser.Identifier); ok && id.Value == "Error" {
			return g.expr(n.Arguments[0])
		}
	}
	return g.expr(arg)
}

// emitClass writes the class declaration followed by one implementation
// block per method. The constructor always becomes Method New.
func (g *Generator) emitClass(c *parser.ClassDecl) {
	name := c.Name.Value
	header := "Class " + name
	if c.SuperClass != nil {
		header += " From " + c.SuperClass.Value
	}

	ctor := c.Constructor()
	var ctorParams []*parser.Identifier
	if ctor != nil {
		ctorParams = ctor.Params
	}
	methods := lo.Filter(c.Methods, func(m *parser.MethodDef, _ int) bool { return !m.IsConstructor() })

	g.writeLine("%s", header)
	g.indent()
	fields := classFields(ctor)
	for _, field := range fields {
		g.writeLine("Data %s", field)
	}
	if len(fields) > 0 {
		g.blankLine()
	}
	g.writeLine("Method New(%s) Constructor", joinParams(ctorParams))
	for _, m := range methods {
		g.writeLine("Method %s(%s)", m.Name.Value, joinParams(m.Params))
	}
	g.dedent()
	g.writeLine("EndClass")
	g.blankLine()

	g.writeLine("Method New(%s) Class %s", joinParams(ctorParams), name)
	if ctor != nil {
		body, _ := splitTerminator(ctor.Body)
		g.emitBlock(body)
	}
	g.writeLine("Return Self")
	g.blankLine()

	for _, m := range methods {
		g.writeLine("Method %s(%s) Class %s", m.Name.Value, joinParams(m.Params), name)
		g.emitBodyWithTerminator(m.Body)
		g.blankLine()
	}
}

// classFields collects `this.x = ...` targets from the constructor body.
func classFields(ctor *parser.MethodDef) []string {
	if ctor == nil {
		return nil
	}
	var fields []string
	for _, stmt := range ctor.Body {
		es, ok := stmt.(*parser.ExpressionStmt)
		if !ok {
			continue
		}
		assign, ok := es.Expression.(*parser.AssignmentExpr)
		if !ok {
			continue
		}
		member, ok := assign.Target.(*parser.MemberExpr)
		if !ok {
			continue
		}
		if _, ok := member.Object.(*parser.ThisExpr); ok {
			fields = append(fields, member.Property.Value)
		}
	}
	return lo.Uniq(fields)
}

func joinParams(params []*parser.Identifier) string {
	return strings.Join(lo.Map(params, func(p *parser.Identifier, _ int) string { return p.Value }), ", ")
}
