package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"jsadvpl/pkg/config"
	"jsadvpl/pkg/driver"
	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/lexer"
	"jsadvpl/pkg/logs"
	"jsadvpl/pkg/server"
	"jsadvpl/pkg/source"
)

type app struct {
	cfg      config.Config
	logger   logs.Logger
	encoding source.Encoding
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(cfg config.Config, logger logs.Logger) (*app, error) {
	enc, err := source.ParseEncoding(cfg.Generator.Encoding)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		logger:   logger,
		encoding: enc,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}, nil
}

func (a *app) options() driver.Options {
	return driver.Options{
		Generator: a.cfg.Generator.Options(time.Now().Format(driver.DateLayout)),
		Logger:    a.logger,
	}
}

// transpile runs the pipeline over sf, printing a diagnostic on failure.
func (a *app) transpile(sf *source.SourceFile) (string, bool) {
	out, err := driver.Run(sf.Content, a.options())
	if err != nil {
		if sf.IsFile() {
			fmt.Fprintf(a.stderr, "%s:\n", sf.DisplayPath())
		}
		errors.Display(a.stderr, sf.Content, err)
		return "", false
	}
	return out, true
}

func (a *app) runExpression(code string) int {
	out, ok := a.transpile(source.NewEvalSource(code))
	if !ok {
		return exitDataErr
	}
	fmt.Fprint(a.stdout, out)
	return exitOK
}

func (a *app) runStdin() int {
	sf, err := source.ReadStdin(os.Stdin)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitSoftware
	}
	out, ok := a.transpile(sf)
	if !ok {
		return exitDataErr
	}
	fmt.Fprint(a.stdout, out)
	return exitOK
}

func (a *app) runFile(path, output string) int {
	sf, err := source.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitSoftware
	}
	out, ok := a.transpile(sf)
	if !ok {
		return exitDataErr
	}

	if output == "-" {
		fmt.Fprint(a.stdout, out)
		return exitOK
	}
	if output == "" {
		output = source.OutputPath(path)
	}
	if err := source.WriteFile(output, out, a.encoding); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitSoftware
	}
	a.logger.Info("wrote",
		"input", path,
		"input_encoding", string(sf.Encoding),
		"output", output,
		"encoding", string(a.encoding),
	)
	return exitOK
}

// printTokens lexes the -e code or the given files and lists their tokens.
func (a *app) printTokens(code string, files []string) int {
	var sources []*source.SourceFile
	if code != "" {
		sources = append(sources, source.NewEvalSource(code))
	}
	for _, path := range files {
		sf, err := source.ReadFile(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitSoftware
		}
		sources = append(sources, sf)
	}
	if len(sources) == 0 {
		fmt.Fprintf(a.stderr, "Usage: jsadvpl -tokens -e \"code\" or jsadvpl -tokens <input.js>\n")
		return exitUsage
	}

	for _, sf := range sources {
		tokens, err := lexer.Lex(sf.Content)
		if err != nil {
			errors.Display(a.stderr, sf.Content, err)
			return exitDataErr
		}
		writeTokens(a.stdout, tokens)
	}
	return exitOK
}

func writeTokens(w io.Writer, tokens []lexer.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
	}
}

func (a *app) serve(addr string) int {
	timeout, err := a.cfg.Server.TimeoutDuration()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}
	if addr == "config" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:      addr,
		MaxConns:  a.cfg.Server.MaxConns,
		Timeout:   timeout,
		Generator: a.cfg.Generator.Options(""),
		Logger:    a.logger,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		a.logger.Error("serve", "error", err)
		return exitSoftware
	}
	return exitOK
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
