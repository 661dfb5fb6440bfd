package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/generator"
	"jsadvpl/pkg/lexer"
	"jsadvpl/pkg/parser"
)

// DateLayout is the @since format used when Options leave the date empty.
const DateLayout = "02/01/2006"

// Options configure a pipeline run.
type Options struct {
	Generator generator.Options
	Logger    *slog.Logger // nil discards stage logs
}

// DefaultOptions returns generator defaults stamped with today's date.
func DefaultOptions() Options {
	gen := generator.DefaultOptions()
	gen.Date = time.Now().Format(DateLayout)
	return Options{Generator: gen}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Lex tokenizes src.
func Lex(src string) ([]lexer.Token, error) {
	return lexer.Lex(src)
}

// Parse builds the AST of a token list.
func Parse(tokens []lexer.Token) (*parser.Program, error) {
	return parser.Parse(tokens)
}

// Generate renders an AST as ADVPL source.
func Generate(program *parser.Program, opts generator.Options) (string, error) {
	return generator.Generate(program, opts)
}

// Run transpiles src and reports the first failing stage's error.
func Run(src string, opts Options) (out string, err error) {
	logger := opts.logger()
	if opts.Generator.Date == "" {
		opts.Generator.Date = time.Now().Format(DateLayout)
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &errors.InternalError{Stage: "Driver", Msg: fmt.Sprint(r)}
		}
		if err != nil {
			attrs := []any{"error", err}
			if te, ok := errors.As(err); ok {
				attrs = append(attrs, "kind", te.Kind(), "line", te.Pos().Line, "column", te.Pos().Column)
			}
			logger.Debug("transpile failed", attrs...)
		}
	}()

	tokens, err := Lex(src)
	if err != nil {
		return "", err
	}
	logger.Debug("lexed", "tokens", len(tokens))

	program, err := Parse(tokens)
	if err != nil {
		return "", err
	}
	logger.Debug("parsed", "statements", len(program.Body))
	parser.DumpAST(program, "Run")

	out, err = Generate(program, opts.Generator)
	if err != nil {
		return "", err
	}
	logger.Debug("generated", "bytes", len(out))
	return out, nil
}

// Transpile converts src to ADVPL with default options. It never fails: a
// pipeline error is returned as a single `// Error: <message>` line.
func Transpile(src string) string {
	out, err := Run(src, DefaultOptions())
	if err != nil {
		return ErrorLine(err)
	}
	return out
}

// ErrorLine renders err as an ADVPL line comment.
func ErrorLine(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return "// Error: " + msg
}

// TranspileContext runs the pipeline and gives up when ctx is done. The
// pipeline itself is not interrupted; its result is discarded.
func TranspileContext(ctx context.Context, src string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := Run(src, opts)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		opts.logger().Warn("transpile abandoned", "error", ctx.Err())
		return "", ctx.Err()
	}
}
