package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// TranspileError is the interface implemented by all pipeline errors.
type TranspileError interface {
	error
	Pos() Position
	Kind() string // "Lex", "Parse", "Generation" or "Internal"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// LexError is returned when no lexer rule matches at the current position.
type LexError struct {
	Position
	Char    rune
	Snippet string // source text surrounding the offending character
	Cause   error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lex Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *LexError) Pos() Position { return e.Position }
func (e *LexError) Kind() string  { return "Lex" }
func (e *LexError) Message() string {
	return fmt.Sprintf("unexpected character %q near %q", e.Char, e.Snippet)
}
func (e *LexError) Unwrap() error { return e.Cause }

// ParseError is returned when the next token does not have one of the
// expected kinds, including running out of input.
type ParseError struct {
	Position
	Expected     []string // token kinds (or production names) that would have been accepted
	Found        string   // kind of the offending token
	FoundLiteral string   // source text of the offending token
	Cause        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *ParseError) Pos() Position { return e.Position }
func (e *ParseError) Kind() string  { return "Parse" }
func (e *ParseError) Message() string {
	found := e.Found
	if e.FoundLiteral != "" {
		found = fmt.Sprintf("%s %q", e.Found, e.FoundLiteral)
	}
	return fmt.Sprintf("Expected %s, found %s", joinAlternatives(e.Expected), found)
}
func (e *ParseError) Unwrap() error { return e.Cause }

// GenerationError is returned when the generator meets a node it cannot render.
// It signals a contract violation between parser and generator, not bad input.
type GenerationError struct {
	Position
	NodeKind string
	Msg      string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Generation Error at %d:%d: %s", e.Line, e.Column, e.Message())
}
func (e *GenerationError) Pos() Position { return e.Position }
func (e *GenerationError) Kind() string  { return "Generation" }
func (e *GenerationError) Message() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.NodeKind, e.Msg)
	}
	return fmt.Sprintf("unsupported node type %s", e.NodeKind)
}
func (e *GenerationError) Unwrap() error { return e.Cause }

// InternalError wraps an unexpected failure inside a pipeline stage together
// with the tokens around the point of failure.
type InternalError struct {
	Position
	Stage   string
	Msg     string
	Context string
	Cause   error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("Internal %s Error at %d:%d: %s", e.Stage, e.Line, e.Column, e.Message())
}
func (e *InternalError) Pos() Position { return e.Position }
func (e *InternalError) Kind() string  { return "Internal" }
func (e *InternalError) Message() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (near: %s)", e.Msg, e.Context)
	}
	return e.Msg
}
func (e *InternalError) Unwrap() error { return e.Cause }

func joinAlternatives(kinds []string) string {
	switch len(kinds) {
	case 0:
		return "nothing"
	case 1:
		return kinds[0]
	}
	return strings.Join(kinds[:len(kinds)-1], ", ") + " or " + kinds[len(kinds)-1]
}

// As extracts a TranspileError from err's chain.
func As(err error) (TranspileError, bool) {
	var te TranspileError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// --- Error Reporting ---

// Display writes err to w, followed by the offending source line and a caret
// marker when err carries a position.
func Display(w io.Writer, source string, err error) {
	te, ok := As(err)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	DisplayErrors(w, source, []TranspileError{te})
}

// DisplayErrors prints a list of errors in a user-friendly format,
// including the source line and position marker.
func DisplayErrors(w io.Writer, source string, errs []TranspileError) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(source, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		// keep tabs so the caret lines up under tab-indented source
		var marker strings.Builder
		for i, r := range []rune(sourceLine) {
			if i >= col {
				break
			}
			if r == '\t' {
				marker.WriteRune('\t')
			} else {
				marker.WriteRune(' ')
			}
		}
		fmt.Fprintf(w, "  %s^\n", marker.String())
		fmt.Fprintln(w)
	}
}
