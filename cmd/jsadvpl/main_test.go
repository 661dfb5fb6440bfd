package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jsadvpl/pkg/config"
	"jsadvpl/pkg/source"
)

func testApp(t *testing.T) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Generator.Encoding = "utf-8"
	a, err := newApp(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	a.stdout, a.stderr = stdout, stderr
	return a, stdout, stderr
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunExpression(t *testing.T) {
	a, stdout, stderr := testApp(t)
	if code := a.runExpression("print(1 + 2);"); code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "ConOut(cValToChar((1 + 2)))\n") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}

	stdout.Reset()
	if code := a.runExpression("let x = ;"); code != exitDataErr {
		t.Fatalf("expected exit %d, got %d", exitDataErr, code)
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Parse Error at 1:9") || !strings.Contains(stderr.String(), "let x = ;") {
		t.Errorf("expected caret diagnostic, got:\n%s", stderr.String())
	}
}

func TestRunFile(t *testing.T) {
	a, _, stderr := testApp(t)
	a.encoding = source.Windows1252
	dir := t.TempDir()
	input := filepath.Join(dir, "saudacao.js")
	writeFile(t, input, []byte("print('ação');\n"))

	if code := a.runFile(input, ""); code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	raw, err := os.ReadFile(filepath.Join(dir, "saudacao.prw"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte{'a', 0xE7, 0xE3, 'o'}) {
		t.Errorf("expected windows-1252 output, got %q", raw)
	}

	custom := filepath.Join(dir, "out", "x.prw")
	if err := os.MkdirAll(filepath.Dir(custom), 0o755); err != nil {
		t.Fatal(err)
	}
	if code := a.runFile(input, custom); code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if _, err := os.Stat(custom); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(dir, "bad.js")
	writeFile(t, bad, []byte("if (x) {"))
	if code := a.runFile(bad, ""); code != exitDataErr {
		t.Fatalf("expected exit %d, got %d", exitDataErr, code)
	}
	if !strings.Contains(stderr.String(), bad+":") {
		t.Errorf("expected file name in diagnostic:\n%s", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.prw")); !os.IsNotExist(err) {
		t.Errorf("no output should be written for a failed file")
	}

	if code := a.runFile(filepath.Join(dir, "missing.js"), ""); code != exitSoftware {
		t.Fatalf("expected exit %d, got %d", exitSoftware, code)
	}
}

func TestTranspileDir(t *testing.T) {
	a, _, _ := testApp(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), []byte("print(1);"))
	writeFile(t, filepath.Join(dir, "sub", "b.mjs"), []byte("function b() { return 2; }"))
	writeFile(t, filepath.Join(dir, "sub", "broken.js"), []byte("let = 1;"))
	writeFile(t, filepath.Join(dir, "blob.js"), []byte{0x00, 0x01, 0x02, 0xFF, 0x00, 0x10})
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not a script"))
	writeFile(t, filepath.Join(dir, ".git", "hook.js"), []byte("print(1);"))

	out := t.TempDir()
	res, err := a.transpileDir(dir, out)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 2 || len(res.Failed) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	content, err := os.ReadFile(filepath.Join(out, "sub", "b.prw"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "User Function b()\nReturn 2\n") {
		t.Errorf("unexpected output:\n%s", content)
	}
	if _, err := os.Stat(filepath.Join(out, "a.prw")); err != nil {
		t.Error(err)
	}

	if code := a.runDir(dir, out); code != exitDataErr {
		t.Errorf("expected exit %d with a failed file, got %d", exitDataErr, code)
	}
}

func TestBatchOutputPath(t *testing.T) {
	tests := []struct {
		dir, outDir, path, expected string
	}{
		{"src", "", "src/a/b.js", "src/a/b.prw"},
		{"src", "build", "src/a/b.js", "build/a/b.prw"},
	}
	for _, tt := range tests {
		got, err := batchOutputPath(tt.dir, tt.outDir, tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.FromSlash(tt.expected) {
			t.Errorf("batchOutputPath(%q, %q, %q) = %q, want %q", tt.dir, tt.outDir, tt.path, got, tt.expected)
		}
	}
}

func TestPrintTokens(t *testing.T) {
	a, stdout, _ := testApp(t)
	if code := a.printTokens("let x = 1;", nil); code != exitOK {
		t.Fatalf("exit %d", code)
	}
	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 tokens, got:\n%s", stdout.String())
	}
	if lines[0] != "1:1\tLET\t\"let\"" {
		t.Errorf("unexpected first token line %q", lines[0])
	}

	if code := a.printTokens("", nil); code != exitUsage {
		t.Errorf("expected usage exit, got %d", code)
	}
}

func TestBraceDepth(t *testing.T) {
	tests := []struct {
		code  string
		depth int
	}{
		{"print(1);", 0},
		{"function f() {", 1},
		{"if (a) { b(\"}\");", 1},
		{"let s = '{'; // {", 0},
		{"/* { */ x = [1,", 1},
		{"let t = `${a}`;", 0},
	}
	for _, tt := range tests {
		if got := braceDepth(tt.code); got != tt.depth {
			t.Errorf("braceDepth(%q) = %d, want %d", tt.code, got, tt.depth)
		}
	}
}

func TestStripHeader(t *testing.T) {
	a, _, _ := testApp(t)
	out, ok := a.transpile(source.NewReplSource("print(1);"))
	if !ok {
		t.Fatal("transpile failed")
	}
	if got := stripHeader(out); got != "ConOut(cValToChar(1))\n" {
		t.Errorf("got %q", got)
	}
	empty, _ := a.transpile(source.NewReplSource(""))
	if got := stripHeader(empty); got != "" {
		t.Errorf("got %q", got)
	}
}
