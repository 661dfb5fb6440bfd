package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"jsadvpl/pkg/source"
)

const (
	prompt             = "js> "
	continuationPrompt = "... "
)

func (a *app) runRepl() int {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".jsadvpl_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitSoftware
	}
	defer rl.Close()

	fmt.Fprintln(a.stdout, "jsadvpl (Ctrl+D to exit)")
	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		if pending.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		if pending.Len() == 0 && strings.TrimSpace(line) == ".exit" {
			break
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		if braceDepth(pending.String()) > 0 {
			rl.SetPrompt(continuationPrompt)
			continue
		}

		code := pending.String()
		pending.Reset()
		rl.SetPrompt(prompt)

		if out, ok := a.transpile(source.NewReplSource(code)); ok {
			fmt.Fprint(a.stdout, stripHeader(out))
		}
	}
	return exitOK
}

// braceDepth counts unclosed braces, brackets and parentheses outside
// string literals and comments.
func braceDepth(code string) int {
	depth := 0
	var quote rune
	lineComment, blockComment := false, false
	runes := []rune(code)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case lineComment:
			if r == '\n' {
				lineComment = false
			}
		case blockComment:
			if r == '*' && next == '/' {
				blockComment = false
				i++
			}
		case quote != 0:
			if r == '\\' {
				i++
			} else if r == quote {
				quote = 0
			}
		case r == '/' && next == '/':
			lineComment = true
		case r == '/' && next == '*':
			blockComment = true
			i++
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '{' || r == '(' || r == '[':
			depth++
		case r == '}' || r == ')' || r == ']':
			depth--
		}
	}
	return depth
}

// stripHeader drops the #Include and Protheus.doc lines of generated code.
func stripHeader(out string) string {
	if _, body, ok := strings.Cut(out, "\n/*/\n"); ok {
		return strings.TrimLeft(body, "\n")
	}
	return out
}
