package driver

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"jsadvpl/pkg/errors"
)

func fixedOptions() Options {
	opts := DefaultOptions()
	opts.Generator.Date = "01/01/2024"
	return opts
}

func TestTranspile(t *testing.T) {
	out := Transpile("function add(a, b) { return a + b; }")
	for _, want := range []string{"User Function add(a, b)\n", "Return (a + b)\n", "#Include \"TOTVS.ch\"\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTranspileErrorLine(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"let x = ;", "Parse Error at 1:9"},
		{"let x = 1 # 2;", "Lex Error at 1:11"},
		{"if (a) {\n  b();\n", "found EOF"},
	}

	for _, tt := range tests {
		out := Transpile(tt.input)
		if !strings.HasPrefix(out, "// Error: ") {
			t.Errorf("%q: expected error line, got %q", tt.input, out)
		}
		if strings.Contains(out, "\n") {
			t.Errorf("%q: error line spans several lines: %q", tt.input, out)
		}
		if !strings.Contains(out, tt.contains) {
			t.Errorf("%q: expected %q in %q", tt.input, tt.contains, out)
		}
	}
}

func TestRunErrorKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  string
		line  int
	}{
		{"let x = ;", "Parse", 1},
		{"let a = 1;\nlet b = @;", "Lex", 2},
		{"function f( { }", "Parse", 1},
	}

	for _, tt := range tests {
		out, err := Run(tt.input, fixedOptions())
		if out != "" {
			t.Errorf("%q: expected no output, got %q", tt.input, out)
		}
		te, ok := errors.As(err)
		if !ok {
			t.Fatalf("%q: expected a TranspileError, got %T: %v", tt.input, err, err)
		}
		if te.Kind() != tt.kind {
			t.Errorf("%q: expected kind %s, got %s", tt.input, tt.kind, te.Kind())
		}
		if te.Pos().Line != tt.line {
			t.Errorf("%q: expected line %d, got %d", tt.input, tt.line, te.Pos().Line)
		}
	}

	_, err := Run("let x = ;", fixedOptions())
	var pe *errors.ParseError
	if !stderrors.As(err, &pe) {
		t.Fatalf("expected *errors.ParseError, got %T", err)
	}
	if pe.Found != "SEMICOLON" {
		t.Errorf("expected SEMICOLON, got %s", pe.Found)
	}
}

func TestRunEmptyInput(t *testing.T) {
	out, err := Run("", fixedOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "@since 01/01/2024\n@version 1.0\n/*/\n") {
		t.Fatalf("expected header only, got:\n%s", out)
	}
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	opts := fixedOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Run("print(1);", opts); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"msg=lexed", "tokens=5", "msg=parsed", "statements=1", "msg=generated"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in log:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if _, err := Run("let = 1;", opts); err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`msg="transpile failed"`, "kind=Parse", "line=1", "column=5"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in log:\n%s", want, buf.String())
		}
	}
}

func TestConcurrentTranspile(t *testing.T) {
	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("function f%d(x) { return x + %d; }", i, i)
			out, err := Run(src, fixedOptions())
			if err != nil {
				errs <- err
				return
			}
			want := fmt.Sprintf("User Function f%d(x)\nReturn (x + %d)\n", i, i)
			if !strings.HasSuffix(out, want) {
				errs <- fmt.Errorf("program %d: expected suffix %q, got:\n%s", i, want, out)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestTranspileContext(t *testing.T) {
	out, err := TranspileContext(context.Background(), "print('ok');", fixedOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `ConOut("ok")`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err = TranspileContext(ctx, "print('ok');", fixedOptions())
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}

	_, err = TranspileContext(context.Background(), "let x = ;", fixedOptions())
	if _, ok := errors.As(err); !ok {
		t.Fatalf("expected pipeline error, got %v", err)
	}
}

func TestErrorLine(t *testing.T) {
	err := fmt.Errorf("first\nsecond   third")
	if got := ErrorLine(err); got != "// Error: first second third" {
		t.Errorf("got %q", got)
	}
}
