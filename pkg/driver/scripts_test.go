package driver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Expectation is the expected outcome of a script, read from the .expect
// file next to it. Lines must appear in the output, in order, ignoring
// indentation. A single `error: text` line expects a failure whose message
// contains text.
type Expectation struct {
	Lines []string
	Error string
}

func parseExpectation(path string) (*Expectation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	exp := new(Expectation)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if msg, ok := strings.CutPrefix(line, "error:"); ok {
			exp.Error = strings.TrimSpace(msg)
			continue
		}
		exp.Lines = append(exp.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading expectation: %w", err)
	}
	if exp.Error == "" && len(exp.Lines) == 0 {
		return nil, fmt.Errorf("no expectation in %s", path)
	}
	return exp, nil
}

func TestScripts(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	scripts, err := filepath.Glob(filepath.Join(scriptDir, "*.js"))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Fatalf("no scripts in %s", scriptDir)
	}

	for _, scriptPath := range scripts {
		name := filepath.Base(scriptPath)
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(scriptPath)
			if err != nil {
				t.Fatalf("Failed to read script file %q: %v", scriptPath, err)
			}
			expectation, err := parseExpectation(strings.TrimSuffix(scriptPath, ".js") + ".expect")
			if err != nil {
				t.Fatal(err)
			}

			out, err := Run(string(content), fixedOptions())

			if expectation.Error != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but transpilation succeeded:\n%s", expectation.Error, out)
				}
				if !strings.Contains(err.Error(), expectation.Error) {
					t.Fatalf("Expected error containing %q, got %v", expectation.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			var lines []string
			for _, line := range strings.Split(out, "\n") {
				lines = append(lines, strings.TrimSpace(line))
			}
			next := 0
			for _, want := range expectation.Lines {
				found := false
				for next < len(lines) {
					next++
					if lines[next-1] == want {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("Expected line %q (in order) in output:\n%s", want, out)
				}
			}
		})
	}
}
