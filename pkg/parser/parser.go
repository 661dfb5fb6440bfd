package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/lexer"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser builds an AST from a token list. A Parser is single use and holds
// all of its cursor state, so concurrent parses never interfere.
type Parser struct {
	tokens []lexer.Token

	curIdx    int // index of curToken in tokens, len(tokens) at EOF
	peekIdx   int
	curToken  lexer.Token
	peekToken lexer.Token
	eof       lexer.Token

	// index of the last token already accounted for by statement-level
	// comment collection; comments before it are dropped
	commentMark int

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() (Expression, error)
	infixParseFn  func(Expression) (Expression, error) // Arg is the left side expression
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=, -=, *=, /=
	TERNARY     // ?:
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // >, <, >=, <=
	SUM         // + or -
	PRODUCT     // * or / or %
	PREFIX      // -X or !X or ++X or await X
	POSTFIX     // X++ or X--
	CALL        // myFunction(X)
	MEMBER      // object.property, array[index]
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          ASSIGNMENT,
	lexer.PLUS_ASSIGN:     ASSIGNMENT,
	lexer.MINUS_ASSIGN:    ASSIGNMENT,
	lexer.ASTERISK_ASSIGN: ASSIGNMENT,
	lexer.SLASH_ASSIGN:    ASSIGNMENT,

	lexer.QUESTION: TERNARY,
	lexer.OR:       LOGICAL_OR,
	lexer.AND:      LOGICAL_AND,

	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,

	lexer.LT: LESSGREATER,
	lexer.GT: LESSGREATER,
	lexer.LE: LESSGREATER,
	lexer.GE: LESSGREATER,

	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.ASTERISK: PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,

	lexer.INC: POSTFIX,
	lexer.DEC: POSTFIX,

	lexer.LPAREN:   CALL,
	lexer.DOT:      MEMBER,
	lexer.LBRACKET: MEMBER,
}

// Parse builds a Program from tokens. Any failure aborts the parse: a
// *errors.ParseError for unexpected input, a *errors.InternalError for
// anything else.
func Parse(tokens []lexer.Token) (*Program, error) {
	return New(tokens).ParseProgram()
}

// New creates a Parser over tokens. Comment tokens are allowed anywhere.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{
		tokens:      tokens,
		peekIdx:     -1,
		commentMark: -1,
		eof:         eofToken(tokens),
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENTIFIER, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE, p.parseTemplateLiteral)
	p.registerPrefix(lexer.REGEX, p.parseRegexLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.UNDEFINED, p.parseNullLiteral)
	p.registerPrefix(lexer.THIS, p.parseThisExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.PLUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.INC, p.parsePrefixUpdateExpression)
	p.registerPrefix(lexer.DEC, p.parsePrefixUpdateExpression)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, t := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ,
		lexer.LT, lexer.GT, lexer.LE, lexer.GE,
		lexer.AND, lexer.OR,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	for _, t := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.ASTERISK_ASSIGN, lexer.SLASH_ASSIGN,
	} {
		p.registerInfix(t, p.parseAssignmentExpression)
	}
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.INC, p.parsePostfixUpdateExpression)
	p.registerInfix(lexer.DEC, p.parsePostfixUpdateExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// eofToken synthesises the EOF token positioned just after the last token.
func eofToken(tokens []lexer.Token) lexer.Token {
	eof := lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
	if len(tokens) == 0 {
		return eof
	}
	last := tokens[len(tokens)-1]
	eof.Line, eof.Column = last.Line, last.Column
	for _, ch := range last.Literal {
		if ch == '\n' {
			eof.Line++
			eof.Column = 1
		} else {
			eof.Column++
		}
	}
	eof.StartPos, eof.EndPos = last.EndPos, last.EndPos
	return eof
}

// nextToken advances the current and peek tokens, skipping comments.
func (p *Parser) nextToken() {
	p.curIdx = p.peekIdx
	p.curToken = p.peekToken

	next := p.peekIdx + 1
	for next < len(p.tokens) && lexer.IsComment(p.tokens[next].Type) {
		next++
	}
	p.peekIdx = next
	if next < len(p.tokens) {
		p.peekToken = p.tokens[next]
	} else {
		p.peekIdx = len(p.tokens)
		p.peekToken = p.eof
	}
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

// ParseProgram parses the entire input and returns the root Program node.
func (p *Parser) ParseProgram() (program *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			program = nil
			err = p.internalError(r)
		}
	}()

	body, err := p.parseStatementList(lexer.EOF)
	if err != nil {
		return nil, err
	}
	return &Program{Body: body}, nil
}

// --- Statement Parsing ---

// parseStatementList parses statements until end. Comments found between
// statements become CommentLine/CommentBlock statements.
func (p *Parser) parseStatementList(end lexer.TokenType) ([]Statement, error) {
	stmts := []Statement{}
	for !p.curTokenIs(end) && !p.curTokenIs(lexer.EOF) {
		stmts = append(stmts, p.takeComments()...)
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.commentMark = p.curIdx
		p.nextToken()
	}
	stmts = append(stmts, p.takeComments()...)
	if !p.curTokenIs(end) {
		return nil, p.tokenError(p.curToken, end)
	}
	return stmts, nil
}

// takeComments returns the comments between the last finished statement and curToken.
func (p *Parser) takeComments() []Statement {
	var comments []Statement
	for i := p.commentMark + 1; i < p.curIdx && i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Type {
		case lexer.COMMENT_LINE:
			comments = append(comments, &CommentLine{Token: tok, Text: strings.TrimPrefix(tok.Literal, "//")})
		case lexer.COMMENT_BLOCK:
			text := strings.TrimSuffix(strings.TrimPrefix(tok.Literal, "/*"), "*/")
			comments = append(comments, &CommentBlock{Token: tok, Text: text})
		}
	}
	if p.curIdx-1 > p.commentMark {
		p.commentMark = p.curIdx - 1
	}
	return comments
}

// parseStatement parses one statement starting at curToken and leaves
// curToken on its last token. An empty statement yields nil.
func (p *Parser) parseStatement() (Statement, error) {
	debugPrint("parseStatement: cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
	switch p.curToken.Type {
	case lexer.IMPORT:
		return p.parseImportDeclaration()
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	case lexer.CONST, lexer.LET, lexer.VAR:
		return p.parseVarDeclaration(true)
	case lexer.PRINT:
		tok := p.curToken
		args, err := p.parseCallStatementArgs()
		if err != nil {
			return nil, err
		}
		return &Print{Token: tok, Arguments: args}, nil
	case lexer.CONSOLE_LOG:
		tok := p.curToken
		args, err := p.parseCallStatementArgs()
		if err != nil {
			return nil, err
		}
		return &ConsoleLog{Token: tok, Arguments: args}, nil
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.ASYNC:
		if err := p.expectPeek(lexer.FUNCTION); err != nil {
			return nil, err
		}
		return p.parseFunctionDeclaration(true)
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.LBRACE:
		tok := p.curToken
		body, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Token: tok, Body: body}, nil
	case lexer.SEMICOLON:
		return nil, nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseImportDeclaration() (*ImportDecl, error) {
	decl := &ImportDecl{Token: p.curToken}

	// import "mod";
	if p.peekTokenIs(lexer.STRING) {
		p.nextToken()
		decl.Source = unquote(p.curToken.Literal)
		return decl, p.expectPeek(lexer.SEMICOLON)
	}

	if p.peekTokenIs(lexer.IDENTIFIER) {
		p.nextToken()
		decl.Default = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.peekTokenIs(lexer.COMMA) {
			return p.finishImport(decl)
		}
		p.nextToken()
	}

	switch {
	case p.peekTokenIs(lexer.ASTERISK):
		p.nextToken()
		if err := p.expectPeek(lexer.AS); err != nil {
			return nil, err
		}
		if err := p.expectPeekIdent(); err != nil {
			return nil, err
		}
		decl.Namespace = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case p.peekTokenIs(lexer.LBRACE):
		p.nextToken()
		for !p.peekTokenIs(lexer.RBRACE) {
			if err := p.expectPeekWord(); err != nil {
				return nil, err
			}
			spec := &ImportSpec{Name: &Identifier{Token: p.curToken, Value: p.curToken.Literal}}
			if p.peekTokenIs(lexer.AS) {
				p.nextToken()
				if err := p.expectPeekIdent(); err != nil {
					return nil, err
				}
				spec.Alias = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			}
			decl.Names = append(decl.Names, spec)
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
		}
		if err := p.expectPeek(lexer.RBRACE); err != nil {
			return nil, err
		}
	case decl.Default == nil:
		return nil, p.tokenError(p.peekToken, lexer.IDENTIFIER, lexer.ASTERISK, lexer.LBRACE, lexer.STRING)
	default:
		return nil, p.tokenError(p.peekToken, lexer.ASTERISK, lexer.LBRACE)
	}
	return p.finishImport(decl)
}

// finishImport parses the trailing `from "mod";`.
func (p *Parser) finishImport(decl *ImportDecl) (*ImportDecl, error) {
	if err := p.expectPeek(lexer.FROM); err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.STRING); err != nil {
		return nil, err
	}
	decl.Source = unquote(p.curToken.Literal)
	if err := p.expectPeek(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseExportDeclaration() (*ExportDecl, error) {
	decl := &ExportDecl{Token: p.curToken}

	if p.peekTokenIs(lexer.DEFAULT) {
		p.nextToken()
		decl.Default = true
		if p.peekTokenIs(lexer.FUNCTION) || p.peekTokenIs(lexer.ASYNC) || p.peekTokenIs(lexer.CLASS) {
			p.nextToken()
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			decl.Declaration = stmt
			return decl, nil
		}
		p.nextToken()
		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		decl.Value = value
		return decl, p.expectPeek(lexer.SEMICOLON)
	}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		for !p.peekTokenIs(lexer.RBRACE) {
			if err := p.expectPeekIdent(); err != nil {
				return nil, err
			}
			decl.Names = append(decl.Names, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
		}
		if err := p.expectPeek(lexer.RBRACE); err != nil {
			return nil, err
		}
		return decl, p.expectPeek(lexer.SEMICOLON)
	}

	switch p.peekToken.Type {
	case lexer.FUNCTION, lexer.ASYNC, lexer.CLASS, lexer.CONST, lexer.LET, lexer.VAR:
		p.nextToken()
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		decl.Declaration = stmt
		return decl, nil
	}
	return nil, p.tokenError(p.peekToken,
		lexer.DEFAULT, lexer.LBRACE, lexer.FUNCTION, lexer.ASYNC, lexer.CLASS, lexer.CONST, lexer.LET, lexer.VAR)
}

// parseVarDeclaration parses `const a = 1, b;`. With terminated false the
// trailing semicolon is left to the caller (for-loop init clause).
func (p *Parser) parseVarDeclaration(terminated bool) (*VarDecl, error) {
	decl := &VarDecl{Token: p.curToken, DeclKind: p.curToken.Literal}
	if err := p.expectPeekIdent(); err != nil {
		return nil, err
	}
	return p.parseVarDeclarators(decl, terminated)
}

// parseVarDeclarators continues a declaration whose first name is curToken.
func (p *Parser) parseVarDeclarators(decl *VarDecl, terminated bool) (*VarDecl, error) {
	for {
		d := &VarDeclarator{Name: &Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			d.Value = value
		}
		decl.Declarations = append(decl.Declarations, d)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if err := p.expectPeekIdent(); err != nil {
			return nil, err
		}
	}
	if terminated {
		if err := p.expectPeek(lexer.SEMICOLON); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

// parseCallStatementArgs parses `(args);` after print or console.log.
func (p *Parser) parseCallStatementArgs() ([]Expression, error) {
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseExpressionList(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return args, p.expectPeek(lexer.SEMICOLON)
}

func (p *Parser) parseFunctionDeclaration(async bool) (*FunctionDecl, error) {
	fn := &FunctionDecl{Token: p.curToken, Async: async}
	if err := p.expectPeekIdent(); err != nil {
		return nil, err
	}
	fn.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	params, body, err := p.parseFunctionRest()
	if err != nil {
		return nil, err
	}
	fn.Params, fn.Body = params, body
	return fn, nil
}

// parseFunctionRest parses `(params) { body }` following a function or method name.
func (p *Parser) parseFunctionRest() ([]*Identifier, []Statement, error) {
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, nil, err
	}
	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

// parseFunctionParameters parses identifiers up to and including ')'.
// curToken is the opening '('.
func (p *Parser) parseFunctionParameters() ([]*Identifier, error) {
	params := []*Identifier{}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, nil
	}
	for {
		if err := p.expectPeekIdent(); err != nil {
			return nil, err
		}
		params = append(params, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseClassDeclaration() (*ClassDecl, error) {
	class := &ClassDecl{Token: p.curToken}
	if err := p.expectPeekIdent(); err != nil {
		return nil, err
	}
	class.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		if err := p.expectPeekIdent(); err != nil {
			return nil, err
		}
		class.SuperClass = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, err
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		method := &MethodDef{Token: p.curToken}
		if p.curTokenIs(lexer.ASYNC) && p.peekTokenIs(lexer.IDENTIFIER) {
			method.Async = true
			p.nextToken()
		}
		if !isWordToken(p.curToken) {
			return nil, p.tokenError(p.curToken, lexer.IDENTIFIER, lexer.RBRACE)
		}
		method.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

		params, body, err := p.parseFunctionRest()
		if err != nil {
			return nil, err
		}
		method.Params, method.Body = params, body
		class.Methods = append(class.Methods, method)
		p.nextToken()
	}
	return class, nil
}

func (p *Parser) parseReturnStatement() (*ReturnStmt, error) {
	stmt := &ReturnStmt{Token: p.curToken}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return stmt, nil
	}
	p.nextToken()
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return stmt, p.expectPeek(lexer.SEMICOLON)
}

// parseIfStatement parses if/else chains; `else if` nests into Alternate.
func (p *Parser) parseIfStatement() (*IfStmt, error) {
	stmt := &IfStmt{Token: p.curToken}

	test, err := p.parseParenthesizedCondition()
	if err != nil {
		return nil, err
	}
	stmt.Test = test

	if stmt.Consequent, err = p.parseBody(); err != nil {
		return nil, err
	}

	if !p.peekTokenIs(lexer.ELSE) {
		return stmt, nil
	}
	p.nextToken()

	if p.peekTokenIs(lexer.IF) {
		p.nextToken()
		elseIf, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		stmt.Alternate = []Statement{elseIf}
		return stmt, nil
	}

	if stmt.Alternate, err = p.parseBody(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseParenthesizedCondition parses `(expr)` following if or while.
func (p *Parser) parseParenthesizedCondition() (Expression, error) {
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, err
	}
	p.nextToken()
	test, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return test, p.expectPeek(lexer.RPAREN)
}

// parseBody parses a block or a single statement as the body of a control
// statement. The result is never nil.
func (p *Parser) parseBody() ([]Statement, error) {
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		return p.parseBlockStatement()
	}
	p.nextToken()
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return []Statement{}, nil
	}
	return []Statement{stmt}, nil
}

// parseBlockStatement parses `{ statements }`. curToken is the '{' on entry
// and the matching '}' on return.
func (p *Parser) parseBlockStatement() ([]Statement, error) {
	p.commentMark = p.curIdx
	p.nextToken()
	return p.parseStatementList(lexer.RBRACE)
}

func (p *Parser) parseWhileStatement() (*WhileStmt, error) {
	stmt := &WhileStmt{Token: p.curToken}
	test, err := p.parseParenthesizedCondition()
	if err != nil {
		return nil, err
	}
	stmt.Test = test
	if stmt.Body, err = p.parseBody(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseForStatement parses both `for (init; test; update)` and
// `for (const x of items)`.
func (p *Parser) parseForStatement() (Statement, error) {
	forTok := p.curToken
	if err := p.expectPeek(lexer.LPAREN); err != nil {
		return nil, err
	}

	stmt := &ForStmt{Token: forTok}
	switch p.peekToken.Type {
	case lexer.CONST, lexer.LET, lexer.VAR:
		p.nextToken()
		decl := &VarDecl{Token: p.curToken, DeclKind: p.curToken.Literal}
		if err := p.expectPeekIdent(); err != nil {
			return nil, err
		}
		if p.peekTokenIs(lexer.IDENTIFIER) && p.peekToken.Literal == "of" {
			return p.parseForOfRest(forTok, decl)
		}
		if _, err := p.parseVarDeclarators(decl, false); err != nil {
			return nil, err
		}
		stmt.Init = decl
	case lexer.SEMICOLON:
	default:
		p.nextToken()
		exprTok := p.curToken
		init, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Init = &ExpressionStmt{Token: exprTok, Expression: init}
	}
	if err := p.expectPeek(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		test, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Test = test
	}
	if err := p.expectPeek(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		update, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Update = update
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseForOfRest continues after `for (const x`; peekToken is `of`.
func (p *Parser) parseForOfRest(forTok lexer.Token, decl *VarDecl) (*ForOfStmt, error) {
	stmt := &ForOfStmt{
		Token:    forTok,
		DeclKind: decl.DeclKind,
		Name:     &Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	p.nextToken() // of
	p.nextToken()
	iterable, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Iterable = iterable
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBody(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseTryStatement() (*TryStmt, error) {
	stmt := &TryStmt{Token: p.curToken}
	if err := p.expectPeek(lexer.LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	stmt.Block = block

	if !p.peekTokenIs(lexer.CATCH) && !p.peekTokenIs(lexer.FINALLY) {
		return nil, p.tokenError(p.peekToken, lexer.CATCH, lexer.FINALLY)
	}

	if p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			if err := p.expectPeekIdent(); err != nil {
				return nil, err
			}
			stmt.Param = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if err := p.expectPeek(lexer.RPAREN); err != nil {
				return nil, err
			}
		}
		if err := p.expectPeek(lexer.LBRACE); err != nil {
			return nil, err
		}
		if stmt.Handler, err = p.parseBlockStatement(); err != nil {
			return nil, err
		}
	}

	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if err := p.expectPeek(lexer.LBRACE); err != nil {
			return nil, err
		}
		if stmt.Finalizer, err = p.parseBlockStatement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseThrowStatement() (*ThrowStmt, error) {
	stmt := &ThrowStmt{Token: p.curToken}
	p.nextToken()
	arg, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Argument = arg
	return stmt, p.expectPeek(lexer.SEMICOLON)
}

func (p *Parser) parseExpressionStatement() (*ExpressionStmt, error) {
	stmt := &ExpressionStmt{Token: p.curToken}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Expression = expr
	return stmt, p.expectPeek(lexer.SEMICOLON)
}

// --- Expression Parsing (Pratt Parser) ---

func (p *Parser) parseExpression(precedence int) (Expression, error) {
	debugPrint("parseExpression(prec=%d): cur='%s' (%s)", precedence, p.curToken.Literal, p.curToken.Type)
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil && contextualKeywords[p.curToken.Type] {
		prefix = p.parseIdentifier
	}
	if prefix == nil {
		return nil, p.noPrefixParseFnError(p.curToken)
	}
	leftExp, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp, nil
		}
		p.nextToken()
		if leftExp, err = infix(leftExp); err != nil {
			return nil, err
		}
	}
	return leftExp, nil
}

// parseExpressionList parses comma separated expressions up to end. curToken
// is the opening delimiter on entry and end on return. A trailing comma is allowed.
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]Expression, error) {
	list := []Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, nil
	}

	p.nextToken()
	for {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
	}
	if err := p.expectPeek(end); err != nil {
		return nil, err
	}
	return list, nil
}

// -- Prefix Parse Functions --

func (p *Parser) parseIdentifier() (Expression, error) {
	ident := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.peekTokenIs(lexer.ARROW) {
		return p.parseArrowFunction(ident.Token, []*Identifier{ident})
	}
	return ident, nil
}

func (p *Parser) parseNumberLiteral() (Expression, error) {
	lit := &NumberLiteral{Token: p.curToken, Raw: p.curToken.Literal}
	raw := p.curToken.Literal

	var err error
	if len(raw) > 2 && (raw[:2] == "0x" || raw[:2] == "0X") {
		var n int64
		n, err = strconv.ParseInt(raw[2:], 16, 64)
		lit.Value = float64(n)
	} else {
		lit.Value, err = strconv.ParseFloat(raw, 64)
	}
	if err != nil {
		pe := p.tokenErrorf(p.curToken, "numeric literal")
		pe.Cause = err
		return nil, pe
	}
	return lit, nil
}

func (p *Parser) parseStringLiteral() (Expression, error) {
	return &StringLiteral{Token: p.curToken, Value: unquote(p.curToken.Literal)}, nil
}

// parseTemplateLiteral splits the template token into text parts and
// `${...}` interpolations. Each interpolation is lexed and parsed on its own.
func (p *Parser) parseTemplateLiteral() (Expression, error) {
	tok := p.curToken
	lit := &TemplateLiteral{Token: tok}
	body := tok.Literal[1 : len(tok.Literal)-1]

	var quasi strings.Builder
	for i := 0; i < len(body); {
		switch {
		case body[i] == '\\' && i+1 < len(body):
			n := escapeLen(body[i:])
			quasi.WriteString(unescape(body[i : i+n]))
			i += n
		case strings.HasPrefix(body[i:], "${"):
			end := matchingBrace(body, i+2)
			if end < 0 {
				quasi.WriteString(body[i:])
				i = len(body)
				continue
			}
			expr, err := parseInterpolation(body[i+2 : end])
			if err != nil {
				pe := p.tokenErrorf(tok, "template expression")
				pe.Cause = err
				return nil, pe
			}
			lit.Quasis = append(lit.Quasis, quasi.String())
			lit.Expressions = append(lit.Expressions, expr)
			quasi.Reset()
			i = end + 1
		default:
			quasi.WriteByte(body[i])
			i++
		}
	}
	lit.Quasis = append(lit.Quasis, quasi.String())
	return lit, nil
}

// matchingBrace returns the index of the '}' closing an interpolation that
// starts at from, skipping nested braces and quoted strings.
func matchingBrace(s string, from int) int {
	depth := 0
	var quote byte
	for i := from; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
		case ch == '{':
			depth++
		case ch == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func parseInterpolation(src string) (Expression, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	sub := New(tokens)
	expr, err := sub.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if !sub.peekTokenIs(lexer.EOF) {
		return nil, sub.tokenError(sub.peekToken, lexer.EOF)
	}
	return expr, nil
}

func (p *Parser) parseRegexLiteral() (Expression, error) {
	literal := p.curToken.Literal
	lastSlash := strings.LastIndexByte(literal, '/')
	if lastSlash < 1 {
		return nil, p.tokenErrorf(p.curToken, "regular expression")
	}
	return &RegexLiteral{
		Token:   p.curToken,
		Pattern: literal[1:lastSlash],
		Flags:   literal[lastSlash+1:],
	}, nil
}

func (p *Parser) parseBooleanLiteral() (Expression, error) {
	return &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}, nil
}

func (p *Parser) parseNullLiteral() (Expression, error) {
	return &NullLiteral{Token: p.curToken, Undefined: p.curTokenIs(lexer.UNDEFINED)}, nil
}

func (p *Parser) parseThisExpression() (Expression, error) {
	return &ThisExpr{Token: p.curToken}, nil
}

// parseGroupedExpression handles `(expr)` and arrow function heads
// `(a, b) =>`. The parenthesised list is parsed once; a following '=>'
// reinterprets it as the parameter list.
func (p *Parser) parseGroupedExpression() (Expression, error) {
	openTok := p.curToken

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		if !p.peekTokenIs(lexer.ARROW) {
			return nil, p.tokenError(p.peekToken, lexer.ARROW)
		}
		return p.parseArrowFunction(openTok, []*Identifier{})
	}

	p.nextToken()
	var exprs []Expression
	for {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if err := p.expectPeek(lexer.RPAREN); err != nil {
		return nil, err
	}

	if p.peekTokenIs(lexer.ARROW) {
		params := make([]*Identifier, len(exprs))
		for i, expr := range exprs {
			ident, ok := expr.(*Identifier)
			if !ok {
				return nil, p.nodeError(expr, "IDENTIFIER")
			}
			params[i] = ident
		}
		return p.parseArrowFunction(openTok, params)
	}
	if len(exprs) > 1 {
		return nil, p.tokenError(p.peekToken, lexer.ARROW)
	}
	return exprs[0], nil
}

// parseArrowFunction parses `=> body` with peekToken on the arrow.
func (p *Parser) parseArrowFunction(tok lexer.Token, params []*Identifier) (Expression, error) {
	p.nextToken() // =>
	if p.peekTokenIs(lexer.LBRACE) {
		return nil, p.tokenErrorf(p.peekToken, "expression body")
	}
	p.nextToken()
	body, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ArrowFunction{Token: tok, Params: params, Body: body}, nil
}

func (p *Parser) parseArrayLiteral() (Expression, error) {
	arr := &ArrayLiteral{Token: p.curToken}
	elements, err := p.parseExpressionList(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	arr.Elements = elements
	return arr, nil
}

// parseObjectLiteral parses `{ key: value, shorthand, "quoted": value }`.
func (p *Parser) parseObjectLiteral() (Expression, error) {
	obj := &ObjectLiteral{Token: p.curToken, Properties: []*Property{}}

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		keyTok := p.curToken
		var key string
		switch {
		case keyTok.Type == lexer.STRING:
			key = unquote(keyTok.Literal)
		case keyTok.Type == lexer.NUMBER, isWordToken(keyTok):
			key = keyTok.Literal
		default:
			return nil, p.tokenError(keyTok, lexer.IDENTIFIER, lexer.STRING, lexer.NUMBER, lexer.RBRACE)
		}

		prop := &Property{Key: key}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			value, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			prop.Value = value
		} else if keyTok.Type == lexer.IDENTIFIER {
			prop.Value = &Identifier{Token: keyTok, Value: key}
		} else {
			return nil, p.tokenError(p.peekToken, lexer.COLON)
		}
		obj.Properties = append(obj.Properties, prop)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if err := p.expectPeek(lexer.RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}

// parsePrefixExpression handles expressions like !expr or -expr
func (p *Parser) parsePrefixExpression() (Expression, error) {
	expr := &UnaryExpr{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	expr.Operand = operand
	return expr, nil
}

func (p *Parser) parsePrefixUpdateExpression() (Expression, error) {
	expr := &UpdateExpr{Token: p.curToken, Operator: p.curToken.Literal, Prefix: true}
	p.nextToken()
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	if !isAssignable(operand) {
		return nil, p.nodeError(operand, "IDENTIFIER", "member expression")
	}
	expr.Operand = operand
	return expr, nil
}

func (p *Parser) parseAwaitExpression() (Expression, error) {
	expr := &AwaitExpr{Token: p.curToken}
	p.nextToken()
	arg, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	expr.Argument = arg
	return expr, nil
}

// parseNewExpression parses `new Callee(args)`; the argument list is optional.
func (p *Parser) parseNewExpression() (Expression, error) {
	expr := &NewExpr{Token: p.curToken, Arguments: []Expression{}}
	p.nextToken()
	// CALL precedence stops before '(' so the member chain becomes the callee
	callee, err := p.parseExpression(CALL)
	if err != nil {
		return nil, err
	}
	expr.Callee = callee
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		if expr.Arguments, err = p.parseExpressionList(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// -- Infix Parse Functions --

func (p *Parser) parseInfixExpression(left Expression) (Expression, error) {
	expr := &BinaryExpr{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return expr, nil
}

// parseAssignmentExpression is right associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignmentExpression(target Expression) (Expression, error) {
	if !isAssignable(target) {
		return nil, p.nodeError(target, "IDENTIFIER", "member expression")
	}
	expr := &AssignmentExpr{Token: p.curToken, Operator: p.curToken.Literal, Target: target}
	p.nextToken()
	value, err := p.parseExpression(ASSIGNMENT - 1)
	if err != nil {
		return nil, err
	}
	expr.Value = value
	return expr, nil
}

func (p *Parser) parseConditionalExpression(test Expression) (Expression, error) {
	expr := &ConditionalExpr{Token: p.curToken, Test: test}
	p.nextToken()
	consequent, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(lexer.COLON); err != nil {
		return nil, err
	}
	p.nextToken()
	alternate, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	expr.Consequent, expr.Alternate = consequent, alternate
	return expr, nil
}

func (p *Parser) parsePostfixUpdateExpression(operand Expression) (Expression, error) {
	if !isAssignable(operand) {
		return nil, p.nodeError(operand, "IDENTIFIER", "member expression")
	}
	return &UpdateExpr{Token: p.curToken, Operator: p.curToken.Literal, Operand: operand}, nil
}

func (p *Parser) parseCallExpression(callee Expression) (Expression, error) {
	expr := &CallExpr{Token: p.curToken, Callee: callee}
	args, err := p.parseExpressionList(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	expr.Arguments = args
	return expr, nil
}

func (p *Parser) parseMemberExpression(object Expression) (Expression, error) {
	expr := &MemberExpr{Token: p.curToken, Object: object}
	if err := p.expectPeekWord(); err != nil {
		return nil, err
	}
	expr.Property = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return expr, nil
}

func (p *Parser) parseIndexExpression(object Expression) (Expression, error) {
	expr := &IndexExpr{Token: p.curToken, Object: object}
	p.nextToken()
	index, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	expr.Index = index
	return expr, p.expectPeek(lexer.RBRACKET)
}

// --- Helpers ---

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has type t and fails otherwise.
func (p *Parser) expectPeek(t lexer.TokenType) error {
	if !p.peekTokenIs(t) {
		return p.tokenError(p.peekToken, t)
	}
	p.nextToken()
	return nil
}

// contextualKeywords are reserved only inside import and export
// declarations; anywhere else they are plain names.
var contextualKeywords = map[lexer.TokenType]bool{
	lexer.FROM:    true,
	lexer.AS:      true,
	lexer.DEFAULT: true,
}

// expectPeekIdent advances over a binding name: an identifier or a
// contextual keyword.
func (p *Parser) expectPeekIdent() error {
	if p.peekToken.Type != lexer.IDENTIFIER && !contextualKeywords[p.peekToken.Type] {
		return p.tokenError(p.peekToken, lexer.IDENTIFIER)
	}
	p.nextToken()
	return nil
}

// expectPeekWord accepts an identifier or a keyword used as a property name.
func (p *Parser) expectPeekWord() error {
	if !isWordToken(p.peekToken) {
		return p.tokenError(p.peekToken, lexer.IDENTIFIER)
	}
	p.nextToken()
	return nil
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// isWordToken reports whether tok is an identifier or a reserved word, both
// of which are valid property names.
func isWordToken(tok lexer.Token) bool {
	return tok.Type == lexer.IDENTIFIER || (tok.Type != lexer.EOF && lexer.LookupIdent(tok.Literal) == tok.Type)
}

func isAssignable(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *MemberExpr, *IndexExpr:
		return true
	}
	return false
}

// --- Error Handling ---

func position(tok lexer.Token) errors.Position {
	return errors.Position{Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}
}

// tokenErrorf reports that tok was found where the named productions were expected.
func (p *Parser) tokenErrorf(tok lexer.Token, expected ...string) *errors.ParseError {
	return &errors.ParseError{
		Position:     position(tok),
		Expected:     expected,
		Found:        string(tok.Type),
		FoundLiteral: tok.Literal,
	}
}

func (p *Parser) tokenError(tok lexer.Token, expected ...lexer.TokenType) *errors.ParseError {
	names := make([]string, len(expected))
	for i, t := range expected {
		names[i] = string(t)
	}
	return p.tokenErrorf(tok, names...)
}

// nodeError reports a syntactically complete node in a position that does not accept it.
func (p *Parser) nodeError(node Node, expected ...string) *errors.ParseError {
	tok := node.GetToken()
	return &errors.ParseError{
		Position:     position(tok),
		Expected:     expected,
		Found:        string(node.Kind()),
		FoundLiteral: node.String(),
	}
}

// noPrefixParseFnError lists every token kind that can start an expression.
func (p *Parser) noPrefixParseFnError(tok lexer.Token) *errors.ParseError {
	starts := lo.Map(lo.Keys(p.prefixParseFns), func(t lexer.TokenType, _ int) string {
		return string(t)
	})
	slices.Sort(starts)
	return p.tokenErrorf(tok, starts...)
}

// internalError converts a recovered panic into an *errors.InternalError
// carrying the tokens around the failure point.
func (p *Parser) internalError(r any) *errors.InternalError {
	from := max(p.curIdx-3, 0)
	to := min(p.curIdx+4, len(p.tokens))
	var near []string
	for i := from; i < to; i++ {
		near = append(near, p.tokens[i].Literal)
	}
	ie := &errors.InternalError{
		Position: position(p.curToken),
		Stage:    "Parser",
		Msg:      fmt.Sprint(r),
		Context:  strings.Join(near, " "),
	}
	if cause, ok := r.(error); ok {
		ie.Cause = cause
	}
	return ie
}

// --- String Literals ---

// unquote strips the quotes from a string literal and decodes its escapes.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); {
		if body[i] == '\\' && i+1 < len(body) {
			n := escapeLen(body[i:])
			sb.WriteString(unescape(body[i : i+n]))
			i += n
			continue
		}
		sb.WriteByte(body[i])
		i++
	}
	return sb.String()
}

// escapeLen returns the length of the escape sequence at the start of s.
func escapeLen(s string) int {
	switch s[1] {
	case 'x':
		if len(s) >= 4 && isHex(s[2:4]) {
			return 4
		}
	case 'u':
		if len(s) >= 6 && isHex(s[2:6]) {
			return 6
		}
	}
	return 2
}

func unescape(seq string) string {
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		return "\x00"
	case 'x', 'u':
		if len(seq) > 2 {
			n, _ := strconv.ParseUint(seq[2:], 16, 32)
			return string(rune(n))
		}
	case '\n':
		return "" // line continuation
	}
	return seq[1:]
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
