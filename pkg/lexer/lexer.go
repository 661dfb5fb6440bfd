package lexer

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"jsadvpl/pkg/errors"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The exact source text of the token (lexeme)
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number (rune index) where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Line, t.Column)
}

// --- Token Types ---
const (
	// Special
	EOF TokenType = "EOF" // synthesised by the parser, never produced by Lex

	// Identifiers + Literals
	IDENTIFIER TokenType = "IDENTIFIER"
	NUMBER     TokenType = "NUMBER"
	STRING     TokenType = "STRING"
	TEMPLATE   TokenType = "TEMPLATE" // `text ${expr}`
	REGEX      TokenType = "REGEX"    // /pattern/flags

	// Comments (kept for passthrough)
	COMMENT_LINE  TokenType = "COMMENT_LINE"
	COMMENT_BLOCK TokenType = "COMMENT_BLOCK"

	// Operators
	ASSIGN          TokenType = "ASSIGN"          // =
	PLUS_ASSIGN     TokenType = "PLUS_ASSIGN"     // +=
	MINUS_ASSIGN    TokenType = "MINUS_ASSIGN"    // -=
	ASTERISK_ASSIGN TokenType = "ASTERISK_ASSIGN" // *=
	SLASH_ASSIGN    TokenType = "SLASH_ASSIGN"    // /=
	PLUS            TokenType = "PLUS"
	MINUS           TokenType = "MINUS"
	ASTERISK        TokenType = "ASTERISK"
	SLASH           TokenType = "SLASH"
	PERCENT         TokenType = "PERCENT"
	INC             TokenType = "INC" // ++
	DEC             TokenType = "DEC" // --
	BANG            TokenType = "BANG"
	EQ              TokenType = "EQ"            // ==
	NOT_EQ          TokenType = "NOT_EQ"        // !=
	STRICT_EQ       TokenType = "STRICT_EQ"     // ===
	STRICT_NOT_EQ   TokenType = "STRICT_NOT_EQ" // !==
	LT              TokenType = "LT"
	GT              TokenType = "GT"
	LE              TokenType = "LE"
	GE              TokenType = "GE"
	AND             TokenType = "AND" // &&
	OR              TokenType = "OR"  // ||
	ARROW           TokenType = "ARROW"

	// Delimiters
	COMMA     TokenType = "COMMA"
	SEMICOLON TokenType = "SEMICOLON"
	COLON     TokenType = "COLON"
	QUESTION  TokenType = "QUESTION"
	DOT       TokenType = "DOT"
	LPAREN    TokenType = "LPAREN"
	RPAREN    TokenType = "RPAREN"
	LBRACE    TokenType = "LBRACE"
	RBRACE    TokenType = "RBRACE"
	LBRACKET  TokenType = "LBRACKET"
	RBRACKET  TokenType = "RBRACKET"

	// Keywords
	IMPORT      TokenType = "IMPORT"
	EXPORT      TokenType = "EXPORT"
	FROM        TokenType = "FROM"
	DEFAULT     TokenType = "DEFAULT"
	AS          TokenType = "AS"
	CONST       TokenType = "CONST"
	LET         TokenType = "LET"
	VAR         TokenType = "VAR"
	FUNCTION    TokenType = "FUNCTION"
	RETURN      TokenType = "RETURN"
	IF          TokenType = "IF"
	ELSE        TokenType = "ELSE"
	FOR         TokenType = "FOR"
	WHILE       TokenType = "WHILE"
	ASYNC       TokenType = "ASYNC"
	AWAIT       TokenType = "AWAIT"
	TRY         TokenType = "TRY"
	CATCH       TokenType = "CATCH"
	FINALLY     TokenType = "FINALLY"
	THROW       TokenType = "THROW"
	CLASS       TokenType = "CLASS"
	EXTENDS     TokenType = "EXTENDS"
	NEW         TokenType = "NEW"
	THIS        TokenType = "THIS"
	PRINT       TokenType = "PRINT"
	CONSOLE_LOG TokenType = "CONSOLE_LOG" // console.log as a single token
	TRUE        TokenType = "TRUE"
	FALSE       TokenType = "FALSE"
	NULL        TokenType = "NULL"
	UNDEFINED   TokenType = "UNDEFINED"
)

var keywords = map[string]TokenType{
	"import":    IMPORT,
	"export":    EXPORT,
	"from":      FROM,
	"default":   DEFAULT,
	"as":        AS,
	"const":     CONST,
	"let":       LET,
	"var":       VAR,
	"function":  FUNCTION,
	"return":    RETURN,
	"if":        IF,
	"else":      ELSE,
	"for":       FOR,
	"while":     WHILE,
	"async":     ASYNC,
	"await":     AWAIT,
	"try":       TRY,
	"catch":     CATCH,
	"finally":   FINALLY,
	"throw":     THROW,
	"class":     CLASS,
	"extends":   EXTENDS,
	"new":       NEW,
	"this":      THIS,
	"print":     PRINT,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENTIFIER
}

// IsComment reports whether t is a comment token.
func IsComment(t TokenType) bool {
	return t == COMMENT_LINE || t == COMMENT_BLOCK
}

// Lexer holds the cursor of one scanning pass. A Lexer must not be shared
// between goroutines; create one per input with New.
type Lexer struct {
	input    string
	runes    []rune    // input decoded once; rules match against it at runePos
	position int       // byte offset of the next unread character
	runePos  int       // rune offset of the next unread character
	line     int       // current 1-based line number
	column   int       // current 1-based column number (runes)
	prev     TokenType // last significant token, for regex/division disambiguation
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: input, runes: []rune(input), line: 1, column: 1}
}

// Lex tokenizes the whole input. It either consumes all of it or fails with
// a *errors.LexError; a partial token list is never returned.
func Lex(input string) ([]Token, error) {
	return New(input).Tokens()
}

// Tokens scans the remaining input and returns every token in source order.
func (l *Lexer) Tokens() ([]Token, error) {
	tokens := []Token{}
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token. ok is false once the input is exhausted.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	for l.position < len(l.input) {
		matched := false
		for i := range rules {
			r := &rules[i]
			if r.allowed != nil && !r.allowed(l.prev) {
				continue
			}
			m, err := r.re.FindRunesMatchStartingAt(l.runes, l.runePos)
			if err != nil {
				return Token{}, false, l.errorAt(err)
			}
			if m == nil || m.Length == 0 {
				continue
			}

			text := l.input[l.position : l.position+l.byteLen(m.Length)]
			tok = Token{
				Literal:  text,
				Line:     l.line,
				Column:   l.column,
				StartPos: l.position,
				EndPos:   l.position + len(text),
			}
			l.advance(text)
			matched = true

			if r.skip {
				break
			}
			tok.Type = r.kind
			if r.classify != nil {
				tok.Type = r.classify(text)
			}
			if !IsComment(tok.Type) {
				l.prev = tok.Type
			}
			return tok, true, nil
		}
		if !matched {
			return Token{}, false, l.errorAt(nil)
		}
	}
	return Token{}, false, nil
}

// byteLen returns the byte length of the next n runes. Invalid UTF-8 bytes
// count as one rune each, as in the []rune conversion.
func (l *Lexer) byteLen(n int) int {
	size := 0
	for ; n > 0; n-- {
		_, w := utf8.DecodeRuneInString(l.input[l.position+size:])
		size += w
	}
	return size
}

// advance moves the cursor past text, updating line and column.
func (l *Lexer) advance(text string) {
	for _, ch := range text {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.runePos++
	}
	l.position += len(text)
}

func (l *Lexer) errorAt(cause error) *errors.LexError {
	ch, size := utf8.DecodeRuneInString(l.input[l.position:])
	return &errors.LexError{
		Position: errors.Position{
			Line:     l.line,
			Column:   l.column,
			StartPos: l.position,
			EndPos:   l.position + size,
		},
		Char:    ch,
		Snippet: snippet(l.input, l.position, 12),
		Cause:   cause,
	}
}

// snippet returns up to radius runes on each side of pos.
func snippet(input string, pos int, radius int) string {
	start := pos
	for n := 0; n < radius && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(input[:start])
		start -= size
	}
	end := pos
	for n := 0; n <= radius && end < len(input); n++ {
		_, size := utf8.DecodeRuneInString(input[end:])
		end += size
	}
	return input[start:end]
}

// --- Rules ---

// rule is one entry of the ordered matcher list. The first rule that matches
// at the cursor wins, so the order of rules is significant. Patterns are
// anchored with \G, which matches only at the starting rune offset.
type rule struct {
	name     string
	re       *regexp2.Regexp
	kind     TokenType
	classify func(text string) TokenType
	skip     bool
	allowed  func(prev TokenType) bool
}

const keywordPattern = `\G(?:import|export|from|default|as|const|let|var|function|return|if|else|for|while|async|await|try|catch|finally|throw|class|extends|new|this|print|true|false|null|undefined)(?![\w$])`

var rules = buildRules()

func buildRules() []rule {
	rs := []rule{
		{name: "whitespace", re: compile(`\G\s+`), skip: true},
		{name: "block comment", re: compile(`\G/\*[\s\S]*?\*/`), kind: COMMENT_BLOCK},
		{name: "line comment", re: compile(`\G//[^\r\n]*`), kind: COMMENT_LINE},
		{
			name:    "regex",
			re:      compile(`\G/(?![*/])(?:\\.|\[(?:\\.|[^\]\\\r\n])*\]|[^/\\\[\r\n])+/[dgimsuy]*`),
			kind:    REGEX,
			allowed: regexAllowed,
		},
		{name: "template", re: compile("\\G`(?:\\\\[\\s\\S]|[^`\\\\])*`"), kind: TEMPLATE},
		{name: "double quoted string", re: compile(`\G"(?:\\.|[^"\\\r\n])*"`), kind: STRING},
		{name: "single quoted string", re: compile(`\G'(?:\\.|[^'\\\r\n])*'`), kind: STRING},
		{name: "console.log", re: compile(`\Gconsole[ \t]*\.[ \t]*log(?![\w$])`), kind: CONSOLE_LOG},
		{name: "keyword", re: compile(keywordPattern), classify: LookupIdent},
		{name: "number", re: compile(`\G(?:0[xX][0-9a-fA-F]+|(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?)(?![\w$])`), kind: NUMBER},
		{name: "identifier", re: compile(`\G[\p{L}_$][\w$]*`), kind: IDENTIFIER},
	}

	// multi-character operators precede their single-character prefixes
	operators := []struct {
		text string
		kind TokenType
	}{
		{"===", STRICT_EQ},
		{"!==", STRICT_NOT_EQ},
		{"=>", ARROW},
		{"==", EQ},
		{"!=", NOT_EQ},
		{"<=", LE},
		{">=", GE},
		{"&&", AND},
		{"||", OR},
		{"++", INC},
		{"--", DEC},
		{"+=", PLUS_ASSIGN},
		{"-=", MINUS_ASSIGN},
		{"*=", ASTERISK_ASSIGN},
		{"/=", SLASH_ASSIGN},
		{"+", PLUS},
		{"-", MINUS},
		{"*", ASTERISK},
		{"/", SLASH},
		{"%", PERCENT},
		{"<", LT},
		{">", GT},
		{"=", ASSIGN},
		{"!", BANG},
		{".", DOT},
		{",", COMMA},
		{";", SEMICOLON},
		{":", COLON},
		{"?", QUESTION},
		{"(", LPAREN},
		{")", RPAREN},
		{"{", LBRACE},
		{"}", RBRACE},
		{"[", LBRACKET},
		{"]", RBRACKET},
	}
	for _, op := range operators {
		rs = append(rs, rule{
			name: op.text,
			re:   compile(`\G` + regexp2.Escape(op.text)),
			kind: op.kind,
		})
	}
	return rs
}

func compile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.None)
	re.MatchTimeout = time.Second
	return re
}

// regexAllowed reports whether a '/' may start a regex literal after prev.
// After an operand it is always a division.
func regexAllowed(prev TokenType) bool {
	switch prev {
	case IDENTIFIER, NUMBER, STRING, TEMPLATE, REGEX,
		RPAREN, RBRACKET, RBRACE,
		THIS, TRUE, FALSE, NULL, UNDEFINED,
		FROM, AS,
		INC, DEC:
		return false
	}
	return true
}
