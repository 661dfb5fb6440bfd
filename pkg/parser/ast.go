package parser

import (
	"bytes"
	"strconv"
	"strings"

	"jsadvpl/pkg/lexer"
)

// NodeKind is the discriminator tag of an AST node.
type NodeKind string

const (
	ProgramNode        NodeKind = "Program"
	ImportDeclNode     NodeKind = "ImportDecl"
	ExportDeclNode     NodeKind = "ExportDecl"
	VarDeclNode        NodeKind = "VarDecl"
	PrintNode          NodeKind = "Print"
	ConsoleLogNode     NodeKind = "ConsoleLog"
	FunctionDeclNode   NodeKind = "FunctionDecl"
	ReturnStmtNode     NodeKind = "ReturnStmt"
	IfStmtNode         NodeKind = "IfStmt"
	ExpressionStmtNode NodeKind = "ExpressionStmt"
	CommentLineNode    NodeKind = "CommentLine"
	CommentBlockNode   NodeKind = "CommentBlock"
	BlockStmtNode      NodeKind = "BlockStmt"
	WhileStmtNode      NodeKind = "WhileStmt"
	ForStmtNode        NodeKind = "ForStmt"
	ForOfStmtNode      NodeKind = "ForOfStmt"
	TryStmtNode        NodeKind = "TryStmt"
	ThrowStmtNode      NodeKind = "ThrowStmt"
	ClassDeclNode      NodeKind = "ClassDecl"
	MethodDefNode      NodeKind = "MethodDef"

	NumberLiteralNode   NodeKind = "NumberLiteral"
	StringLiteralNode   NodeKind = "StringLiteral"
	TemplateLiteralNode NodeKind = "TemplateLiteral"
	RegexLiteralNode    NodeKind = "RegexLiteral"
	BooleanLiteralNode  NodeKind = "BooleanLiteral"
	NullLiteralNode     NodeKind = "NullLiteral"
	IdentifierNode      NodeKind = "Identifier"
	ThisExprNode        NodeKind = "ThisExpr"
	BinaryExprNode      NodeKind = "BinaryExpr"
	UnaryExprNode       NodeKind = "UnaryExpr"
	UpdateExprNode      NodeKind = "UpdateExpr"
	AssignmentExprNode  NodeKind = "AssignmentExpr"
	ConditionalExprNode NodeKind = "ConditionalExpr"
	ObjectLiteralNode   NodeKind = "ObjectLiteral"
	ArrayLiteralNode    NodeKind = "ArrayLiteral"
	MemberExprNode      NodeKind = "MemberExpr"
	IndexExprNode       NodeKind = "IndexExpr"
	CallExprNode        NodeKind = "CallExpr"
	NewExprNode         NodeKind = "NewExpr"
	AwaitExprNode       NodeKind = "AwaitExpr"
	ArrowFunctionNode   NodeKind = "ArrowFunction"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Kind() NodeKind
	GetToken() lexer.Token // first token of the node, for diagnostics
	TokenLiteral() string
	String() string
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// --- Program Node ---

// Program is the root node of the AST.
type Program struct {
	Body []Statement
}

func (p *Program) Kind() NodeKind { return ProgramNode }
func (p *Program) GetToken() lexer.Token {
	if len(p.Body) > 0 {
		return p.Body[0].GetToken()
	}
	return lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
}
func (p *Program) TokenLiteral() string {
	if len(p.Body) > 0 {
		return p.Body[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Body {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statement Nodes ---

// ImportSpec is one `name` or `name as alias` entry of an import list.
type ImportSpec struct {
	Name  *Identifier
	Alias *Identifier // nil when not renamed
}

// ImportDecl represents `import x, { a as b } from "mod";`, `import * as ns from "mod";`
// and `import "mod";`.
type ImportDecl struct {
	Token     lexer.Token // The lexer.IMPORT token
	Default   *Identifier
	Namespace *Identifier
	Names     []*ImportSpec
	Source    string // module specifier with quotes stripped
}

func (d *ImportDecl) statementNode()        {}
func (d *ImportDecl) Kind() NodeKind        { return ImportDeclNode }
func (d *ImportDecl) GetToken() lexer.Token { return d.Token }
func (d *ImportDecl) TokenLiteral() string  { return d.Token.Literal }
func (d *ImportDecl) String() string {
	var parts []string
	if d.Default != nil {
		parts = append(parts, d.Default.Value)
	}
	if d.Namespace != nil {
		parts = append(parts, "* as "+d.Namespace.Value)
	}
	if len(d.Names) > 0 {
		names := make([]string, len(d.Names))
		for i, spec := range d.Names {
			names[i] = spec.Name.Value
			if spec.Alias != nil {
				names[i] += " as " + spec.Alias.Value
			}
		}
		parts = append(parts, "{ "+strings.Join(names, ", ")+" }")
	}
	if len(parts) == 0 {
		return "import " + strconv.Quote(d.Source) + ";"
	}
	return "import " + strings.Join(parts, ", ") + " from " + strconv.Quote(d.Source) + ";"
}

// ExportDecl represents `export <declaration>`, `export default <expr>;`
// and `export { a, b };`.
type ExportDecl struct {
	Token       lexer.Token // The lexer.EXPORT token
	Default     bool
	Declaration Statement    // exported declaration, if any
	Value       Expression   // `export default <expr>;`
	Names       []*Identifier // `export { a, b };`
}

func (d *ExportDecl) statementNode()        {}
func (d *ExportDecl) Kind() NodeKind        { return ExportDeclNode }
func (d *ExportDecl) GetToken() lexer.Token { return d.Token }
func (d *ExportDecl) TokenLiteral() string  { return d.Token.Literal }
func (d *ExportDecl) String() string {
	prefix := "export "
	if d.Default {
		prefix += "default "
	}
	switch {
	case d.Declaration != nil:
		return prefix + d.Declaration.String()
	case d.Value != nil:
		return prefix + d.Value.String() + ";"
	}
	names := make([]string, len(d.Names))
	for i, n := range d.Names {
		names[i] = n.Value
	}
	return prefix + "{ " + strings.Join(names, ", ") + " };"
}

// VarDeclarator is one `name = value` entry of a declaration.
type VarDeclarator struct {
	Name  *Identifier
	Value Expression // nil when declared without initializer
}

// VarDecl represents a `const`, `let` or `var` declaration.
type VarDecl struct {
	Token        lexer.Token // The CONST, LET or VAR token
	DeclKind     string      // "const", "let" or "var"
	Declarations []*VarDeclarator
}

func (d *VarDecl) statementNode()        {}
func (d *VarDecl) Kind() NodeKind        { return VarDeclNode }
func (d *VarDecl) GetToken() lexer.Token { return d.Token }
func (d *VarDecl) TokenLiteral() string  { return d.Token.Literal }
func (d *VarDecl) String() string {
	decls := make([]string, len(d.Declarations))
	for i, decl := range d.Declarations {
		decls[i] = decl.Name.Value
		if decl.Value != nil {
			decls[i] += " = " + decl.Value.String()
		}
	}
	return d.DeclKind + " " + strings.Join(decls, ", ") + ";"
}

// Print represents the `print(...)` statement.
type Print struct {
	Token     lexer.Token
	Arguments []Expression
}

func (s *Print) statementNode()        {}
func (s *Print) Kind() NodeKind        { return PrintNode }
func (s *Print) GetToken() lexer.Token { return s.Token }
func (s *Print) TokenLiteral() string  { return s.Token.Literal }
func (s *Print) String() string        { return "print(" + joinExpressions(s.Arguments) + ");" }

// ConsoleLog represents the `console.log(...)` statement.
type ConsoleLog struct {
	Token     lexer.Token
	Arguments []Expression
}

func (s *ConsoleLog) statementNode()        {}
func (s *ConsoleLog) Kind() NodeKind        { return ConsoleLogNode }
func (s *ConsoleLog) GetToken() lexer.Token { return s.Token }
func (s *ConsoleLog) TokenLiteral() string  { return s.Token.Literal }
func (s *ConsoleLog) String() string        { return "console.log(" + joinExpressions(s.Arguments) + ");" }

// FunctionDecl represents a named function declaration.
type FunctionDecl struct {
	Token  lexer.Token // The lexer.FUNCTION token
	Name   *Identifier
	Params []*Identifier
	Body   []Statement
	Async  bool
}

func (f *FunctionDecl) statementNode()        {}
func (f *FunctionDecl) Kind() NodeKind        { return FunctionDeclNode }
func (f *FunctionDecl) GetToken() lexer.Token { return f.Token }
func (f *FunctionDecl) TokenLiteral() string  { return f.Token.Literal }
func (f *FunctionDecl) String() string {
	prefix := "function "
	if f.Async {
		prefix = "async " + prefix
	}
	return prefix + f.Name.Value + "(" + joinIdentifiers(f.Params) + ") " + blockString(f.Body)
}

// ReturnStmt represents `return <Value>;`.
type ReturnStmt struct {
	Token lexer.Token
	Value Expression // nil for a bare return
}

func (s *ReturnStmt) statementNode()        {}
func (s *ReturnStmt) Kind() NodeKind        { return ReturnStmtNode }
func (s *ReturnStmt) GetToken() lexer.Token { return s.Token }
func (s *ReturnStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// IfStmt represents an if statement. Alternate is nil when there is no else
// branch, a single *IfStmt for `else if`, and the else block otherwise.
type IfStmt struct {
	Token      lexer.Token
	Test       Expression
	Consequent []Statement
	Alternate  []Statement
}

func (s *IfStmt) statementNode()        {}
func (s *IfStmt) Kind() NodeKind        { return IfStmtNode }
func (s *IfStmt) GetToken() lexer.Token { return s.Token }
func (s *IfStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *IfStmt) String() string {
	out := "if (" + s.Test.String() + ") " + blockString(s.Consequent)
	if elseIf, ok := s.ElseIf(); ok {
		return out + " else " + elseIf.String()
	}
	if s.Alternate != nil {
		out += " else " + blockString(s.Alternate)
	}
	return out
}

// ElseIf returns the nested if statement when the alternate is an `else if`.
func (s *IfStmt) ElseIf() (*IfStmt, bool) {
	if len(s.Alternate) != 1 {
		return nil, false
	}
	nested, ok := s.Alternate[0].(*IfStmt)
	return nested, ok
}

// ExpressionStmt represents a statement consisting of a single expression.
type ExpressionStmt struct {
	Token      lexer.Token // The first token of the expression
	Expression Expression
}

func (s *ExpressionStmt) statementNode()        {}
func (s *ExpressionStmt) Kind() NodeKind        { return ExpressionStmtNode }
func (s *ExpressionStmt) GetToken() lexer.Token { return s.Token }
func (s *ExpressionStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *ExpressionStmt) String() string        { return s.Expression.String() + ";" }

// CommentLine represents a `// ...` comment. Text excludes the slashes.
type CommentLine struct {
	Token lexer.Token
	Text  string
}

func (c *CommentLine) statementNode()        {}
func (c *CommentLine) Kind() NodeKind        { return CommentLineNode }
func (c *CommentLine) GetToken() lexer.Token { return c.Token }
func (c *CommentLine) TokenLiteral() string  { return c.Token.Literal }
func (c *CommentLine) String() string        { return "//" + c.Text }

// CommentBlock represents a `/* ... */` comment. Text excludes the delimiters.
type CommentBlock struct {
	Token lexer.Token
	Text  string
}

func (c *CommentBlock) statementNode()        {}
func (c *CommentBlock) Kind() NodeKind        { return CommentBlockNode }
func (c *CommentBlock) GetToken() lexer.Token { return c.Token }
func (c *CommentBlock) TokenLiteral() string  { return c.Token.Literal }
func (c *CommentBlock) String() string        { return "/*" + c.Text + "*/" }

// BlockStmt represents a bare `{ ... }` block.
type BlockStmt struct {
	Token lexer.Token
	Body  []Statement
}

func (b *BlockStmt) statementNode()        {}
func (b *BlockStmt) Kind() NodeKind        { return BlockStmtNode }
func (b *BlockStmt) GetToken() lexer.Token { return b.Token }
func (b *BlockStmt) TokenLiteral() string  { return b.Token.Literal }
func (b *BlockStmt) String() string        { return blockString(b.Body) }

// WhileStmt represents `while (<Test>) <Body>`.
type WhileStmt struct {
	Token lexer.Token
	Test  Expression
	Body  []Statement
}

func (s *WhileStmt) statementNode()        {}
func (s *WhileStmt) Kind() NodeKind        { return WhileStmtNode }
func (s *WhileStmt) GetToken() lexer.Token { return s.Token }
func (s *WhileStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *WhileStmt) String() string {
	return "while (" + s.Test.String() + ") " + blockString(s.Body)
}

// ForStmt represents `for (<Init>; <Test>; <Update>) <Body>`. Every clause is optional.
type ForStmt struct {
	Token  lexer.Token
	Init   Statement // *VarDecl or *ExpressionStmt
	Test   Expression
	Update Expression
	Body   []Statement
}

func (s *ForStmt) statementNode()        {}
func (s *ForStmt) Kind() NodeKind        { return ForStmtNode }
func (s *ForStmt) GetToken() lexer.Token { return s.Token }
func (s *ForStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *ForStmt) String() string {
	var init, test, update string
	if s.Init != nil {
		init = strings.TrimSuffix(s.Init.String(), ";")
	}
	if s.Test != nil {
		test = s.Test.String()
	}
	if s.Update != nil {
		update = s.Update.String()
	}
	return "for (" + init + "; " + test + "; " + update + ") " + blockString(s.Body)
}

// ForOfStmt represents `for (const <Name> of <Iterable>) <Body>`.
type ForOfStmt struct {
	Token    lexer.Token
	DeclKind string
	Name     *Identifier
	Iterable Expression
	Body     []Statement
}

func (s *ForOfStmt) statementNode()        {}
func (s *ForOfStmt) Kind() NodeKind        { return ForOfStmtNode }
func (s *ForOfStmt) GetToken() lexer.Token { return s.Token }
func (s *ForOfStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *ForOfStmt) String() string {
	return "for (" + s.DeclKind + " " + s.Name.Value + " of " + s.Iterable.String() + ") " + blockString(s.Body)
}

// TryStmt represents try/catch/finally. Handler is nil without a catch clause,
// Finalizer is nil without a finally clause.
type TryStmt struct {
	Token     lexer.Token
	Block     []Statement
	Param     *Identifier // catch parameter, optional
	Handler   []Statement
	Finalizer []Statement
}

func (s *TryStmt) statementNode()        {}
func (s *TryStmt) Kind() NodeKind        { return TryStmtNode }
func (s *TryStmt) GetToken() lexer.Token { return s.Token }
func (s *TryStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *TryStmt) String() string {
	out := "try " + blockString(s.Block)
	if s.Handler != nil {
		out += " catch "
		if s.Param != nil {
			out += "(" + s.Param.Value + ") "
		}
		out += blockString(s.Handler)
	}
	if s.Finalizer != nil {
		out += " finally " + blockString(s.Finalizer)
	}
	return out
}

// ThrowStmt represents `throw <Argument>;`.
type ThrowStmt struct {
	Token    lexer.Token
	Argument Expression
}

func (s *ThrowStmt) statementNode()        {}
func (s *ThrowStmt) Kind() NodeKind        { return ThrowStmtNode }
func (s *ThrowStmt) GetToken() lexer.Token { return s.Token }
func (s *ThrowStmt) TokenLiteral() string  { return s.Token.Literal }
func (s *ThrowStmt) String() string        { return "throw " + s.Argument.String() + ";" }

// ClassDecl represents `class <Name> extends <SuperClass> { <Methods> }`.
type ClassDecl struct {
	Token      lexer.Token
	Name       *Identifier
	SuperClass *Identifier // nil without extends
	Methods    []*MethodDef
}

func (c *ClassDecl) statementNode()        {}
func (c *ClassDecl) Kind() NodeKind        { return ClassDeclNode }
func (c *ClassDecl) GetToken() lexer.Token { return c.Token }
func (c *ClassDecl) TokenLiteral() string  { return c.Token.Literal }
func (c *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class " + c.Name.Value)
	if c.SuperClass != nil {
		out.WriteString(" extends " + c.SuperClass.Value)
	}
	out.WriteString(" { ")
	for _, m := range c.Methods {
		out.WriteString(m.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// Constructor returns the class constructor, if declared.
func (c *ClassDecl) Constructor() *MethodDef {
	for _, m := range c.Methods {
		if m.IsConstructor() {
			return m
		}
	}
	return nil
}

// MethodDef is one method of a class body.
type MethodDef struct {
	Token  lexer.Token
	Name   *Identifier
	Params []*Identifier
	Body   []Statement
	Async  bool
}

func (m *MethodDef) Kind() NodeKind        { return MethodDefNode }
func (m *MethodDef) GetToken() lexer.Token { return m.Token }
func (m *MethodDef) TokenLiteral() string  { return m.Token.Literal }
func (m *MethodDef) String() string {
	return m.Name.Value + "(" + joinIdentifiers(m.Params) + ") " + blockString(m.Body)
}

// IsConstructor reports whether the method is the class constructor.
func (m *MethodDef) IsConstructor() bool { return m.Name.Value == "constructor" }

// --- Expression Nodes ---

// NumberLiteral represents a numeric literal. Raw keeps the source spelling.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
	Raw   string
}

func (n *NumberLiteral) expressionNode()       {}
func (n *NumberLiteral) Kind() NodeKind        { return NumberLiteralNode }
func (n *NumberLiteral) GetToken() lexer.Token { return n.Token }
func (n *NumberLiteral) TokenLiteral() string  { return n.Token.Literal }
func (n *NumberLiteral) String() string        { return n.Raw }

// StringLiteral represents a quoted string. Value has the quotes stripped and
// escape sequences decoded.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()       {}
func (s *StringLiteral) Kind() NodeKind        { return StringLiteralNode }
func (s *StringLiteral) GetToken() lexer.Token { return s.Token }
func (s *StringLiteral) TokenLiteral() string  { return s.Token.Literal }
func (s *StringLiteral) String() string        { return strconv.Quote(s.Value) }

// TemplateLiteral represents a template string. Quasis always has exactly one
// more element than Expressions.
type TemplateLiteral struct {
	Token       lexer.Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()       {}
func (t *TemplateLiteral) Kind() NodeKind        { return TemplateLiteralNode }
func (t *TemplateLiteral) GetToken() lexer.Token { return t.Token }
func (t *TemplateLiteral) TokenLiteral() string  { return t.Token.Literal }
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range t.Quasis {
		out.WriteString(q)
		if i < len(t.Expressions) {
			out.WriteString("${" + t.Expressions[i].String() + "}")
		}
	}
	out.WriteString("`")
	return out.String()
}

// RegexLiteral represents `/pattern/flags`.
type RegexLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()       {}
func (r *RegexLiteral) Kind() NodeKind        { return RegexLiteralNode }
func (r *RegexLiteral) GetToken() lexer.Token { return r.Token }
func (r *RegexLiteral) TokenLiteral() string  { return r.Token.Literal }
func (r *RegexLiteral) String() string        { return "/" + r.Pattern + "/" + r.Flags }

// BooleanLiteral represents `true` or `false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) Kind() NodeKind        { return BooleanLiteralNode }
func (b *BooleanLiteral) GetToken() lexer.Token { return b.Token }
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Literal }
func (b *BooleanLiteral) String() string        { return strconv.FormatBool(b.Value) }

// NullLiteral represents `null` and `undefined`.
type NullLiteral struct {
	Token     lexer.Token
	Undefined bool
}

func (n *NullLiteral) expressionNode()       {}
func (n *NullLiteral) Kind() NodeKind        { return NullLiteralNode }
func (n *NullLiteral) GetToken() lexer.Token { return n.Token }
func (n *NullLiteral) TokenLiteral() string  { return n.Token.Literal }
func (n *NullLiteral) String() string {
	if n.Undefined {
		return "undefined"
	}
	return "null"
}

// Identifier represents an identifier in the source code.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) Kind() NodeKind        { return IdentifierNode }
func (i *Identifier) GetToken() lexer.Token { return i.Token }
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) String() string        { return i.Value }

// ThisExpr represents `this`.
type ThisExpr struct {
	Token lexer.Token
}

func (t *ThisExpr) expressionNode()       {}
func (t *ThisExpr) Kind() NodeKind        { return ThisExprNode }
func (t *ThisExpr) GetToken() lexer.Token { return t.Token }
func (t *ThisExpr) TokenLiteral() string  { return t.Token.Literal }
func (t *ThisExpr) String() string        { return "this" }

// BinaryExpr represents `<Left> <Operator> <Right>`, including && and ||.
type BinaryExpr struct {
	Token    lexer.Token // The operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpr) expressionNode()       {}
func (b *BinaryExpr) Kind() NodeKind        { return BinaryExprNode }
func (b *BinaryExpr) GetToken() lexer.Token { return b.Token }
func (b *BinaryExpr) TokenLiteral() string  { return b.Token.Literal }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// UnaryExpr represents `!x`, `-x` and `+x`.
type UnaryExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpr) expressionNode()       {}
func (u *UnaryExpr) Kind() NodeKind        { return UnaryExprNode }
func (u *UnaryExpr) GetToken() lexer.Token { return u.Token }
func (u *UnaryExpr) TokenLiteral() string  { return u.Token.Literal }
func (u *UnaryExpr) String() string        { return "(" + u.Operator + u.Operand.String() + ")" }

// UpdateExpr represents `++x`, `x++`, `--x` and `x--`.
type UpdateExpr struct {
	Token    lexer.Token
	Operator string
	Prefix   bool
	Operand  Expression
}

func (u *UpdateExpr) expressionNode()       {}
func (u *UpdateExpr) Kind() NodeKind        { return UpdateExprNode }
func (u *UpdateExpr) GetToken() lexer.Token { return u.Token }
func (u *UpdateExpr) TokenLiteral() string  { return u.Token.Literal }
func (u *UpdateExpr) String() string {
	if u.Prefix {
		return u.Operator + u.Operand.String()
	}
	return u.Operand.String() + u.Operator
}

// AssignmentExpr represents `<Target> <Operator> <Value>` for = += -= *= /=.
type AssignmentExpr struct {
	Token    lexer.Token // The operator token
	Operator string
	Target   Expression
	Value    Expression
}

func (a *AssignmentExpr) expressionNode()       {}
func (a *AssignmentExpr) Kind() NodeKind        { return AssignmentExprNode }
func (a *AssignmentExpr) GetToken() lexer.Token { return a.Token }
func (a *AssignmentExpr) TokenLiteral() string  { return a.Token.Literal }
func (a *AssignmentExpr) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}

// ConditionalExpr represents `<Test> ? <Consequent> : <Alternate>`.
type ConditionalExpr struct {
	Token      lexer.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpr) expressionNode()       {}
func (c *ConditionalExpr) Kind() NodeKind        { return ConditionalExprNode }
func (c *ConditionalExpr) GetToken() lexer.Token { return c.Token }
func (c *ConditionalExpr) TokenLiteral() string  { return c.Token.Literal }
func (c *ConditionalExpr) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}

// Property is one `key: value` entry of an object literal.
type Property struct {
	Key   string
	Value Expression
}

// ObjectLiteral represents `{ key: value, ... }`.
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []*Property
}

func (o *ObjectLiteral) expressionNode()       {}
func (o *ObjectLiteral) Kind() NodeKind        { return ObjectLiteralNode }
func (o *ObjectLiteral) GetToken() lexer.Token { return o.Token }
func (o *ObjectLiteral) TokenLiteral() string  { return o.Token.Literal }
func (o *ObjectLiteral) String() string {
	props := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		props[i] = p.Key + ": " + p.Value.String()
	}
	return "{" + strings.Join(props, ", ") + "}"
}

// ArrayLiteral represents `[a, b, c]`.
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()       {}
func (a *ArrayLiteral) Kind() NodeKind        { return ArrayLiteralNode }
func (a *ArrayLiteral) GetToken() lexer.Token { return a.Token }
func (a *ArrayLiteral) TokenLiteral() string  { return a.Token.Literal }
func (a *ArrayLiteral) String() string        { return "[" + joinExpressions(a.Elements) + "]" }

// MemberExpr represents `<Object>.<Property>`.
type MemberExpr struct {
	Token    lexer.Token // The lexer.DOT token
	Object   Expression
	Property *Identifier
}

func (m *MemberExpr) expressionNode()       {}
func (m *MemberExpr) Kind() NodeKind        { return MemberExprNode }
func (m *MemberExpr) GetToken() lexer.Token { return m.Token }
func (m *MemberExpr) TokenLiteral() string  { return m.Token.Literal }
func (m *MemberExpr) String() string        { return m.Object.String() + "." + m.Property.Value }

// IndexExpr represents `<Object>[<Index>]`.
type IndexExpr struct {
	Token  lexer.Token // The lexer.LBRACKET token
	Object Expression
	Index  Expression
}

func (i *IndexExpr) expressionNode()       {}
func (i *IndexExpr) Kind() NodeKind        { return IndexExprNode }
func (i *IndexExpr) GetToken() lexer.Token { return i.Token }
func (i *IndexExpr) TokenLiteral() string  { return i.Token.Literal }
func (i *IndexExpr) String() string        { return i.Object.String() + "[" + i.Index.String() + "]" }

// CallExpr represents `<Callee>(<Arguments>)`.
type CallExpr struct {
	Token     lexer.Token // The lexer.LPAREN token
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpr) expressionNode()       {}
func (c *CallExpr) Kind() NodeKind        { return CallExprNode }
func (c *CallExpr) GetToken() lexer.Token { return c.Token }
func (c *CallExpr) TokenLiteral() string  { return c.Token.Literal }
func (c *CallExpr) String() string {
	return c.Callee.String() + "(" + joinExpressions(c.Arguments) + ")"
}

// NewExpr represents `new <Callee>(<Arguments>)`.
type NewExpr struct {
	Token     lexer.Token
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpr) expressionNode()       {}
func (n *NewExpr) Kind() NodeKind        { return NewExprNode }
func (n *NewExpr) GetToken() lexer.Token { return n.Token }
func (n *NewExpr) TokenLiteral() string  { return n.Token.Literal }
func (n *NewExpr) String() string {
	return "new " + n.Callee.String() + "(" + joinExpressions(n.Arguments) + ")"
}

// AwaitExpr represents `await <Argument>`.
type AwaitExpr struct {
	Token    lexer.Token
	Argument Expression
}

func (a *AwaitExpr) expressionNode()       {}
func (a *AwaitExpr) Kind() NodeKind        { return AwaitExprNode }
func (a *AwaitExpr) GetToken() lexer.Token { return a.Token }
func (a *AwaitExpr) TokenLiteral() string  { return a.Token.Literal }
func (a *AwaitExpr) String() string        { return "await " + a.Argument.String() }

// ArrowFunction represents `(a, b) => <Body>` with an expression body.
type ArrowFunction struct {
	Token  lexer.Token
	Params []*Identifier
	Body   Expression
}

func (a *ArrowFunction) expressionNode()       {}
func (a *ArrowFunction) Kind() NodeKind        { return ArrowFunctionNode }
func (a *ArrowFunction) GetToken() lexer.Token { return a.Token }
func (a *ArrowFunction) TokenLiteral() string  { return a.Token.Literal }
func (a *ArrowFunction) String() string {
	return "(" + joinIdentifiers(a.Params) + ") => " + a.Body.String()
}

// --- helpers ---

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinIdentifiers(ids []*Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Value
	}
	return strings.Join(parts, ", ")
}

func blockString(stmts []Statement) string {
	if len(stmts) == 0 {
		return "{}"
	}
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
