package source

import (
	"path/filepath"
	"strings"
)

// SourceFile is one unit of JavaScript input.
type SourceFile struct {
	Name     string   // "orders.js", "<stdin>", "<eval>" or "<repl>"
	Path     string   // empty unless read from disk
	Content  string   // decoded, NFC-normalised text
	Encoding Encoding // encoding detected on disk, UTF8 otherwise
}

func newSource(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:     name,
		Path:     path,
		Content:  content,
		Encoding: UTF8,
	}
}

// NewEvalSource wraps -e input.
func NewEvalSource(content string) *SourceFile {
	return newSource("<eval>", "", content)
}

// NewReplSource wraps one REPL submission.
func NewReplSource(content string) *SourceFile {
	return newSource("<repl>", "", content)
}

func NewStdinSource(content string) *SourceFile {
	return newSource("<stdin>", "", content)
}

// FromFile wraps already-decoded file content.
func FromFile(filePath, content string) *SourceFile {
	return newSource(filepath.Base(filePath), filePath, content)
}

// DisplayPath prefers Path, falling back to Name.
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}

// OutputPath returns the .prw path written for an input file.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".prw"
}
