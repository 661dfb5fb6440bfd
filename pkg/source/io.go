package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/reusee/e5"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// Encoding names the character set of generated files.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1252 Encoding = "windows-1252"
)

// ParseEncoding accepts the usual spellings of the supported encodings.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return Windows1252, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", name)
}

// ReadFile loads a source file. See Decode for the accepted encodings.
func ReadFile(path string) (*SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err)
	}
	text, err := Decode(content)
	if err != nil {
		return nil, wrap(fmt.Errorf("%s: %w", path, err))
	}
	sf := FromFile(path, text)
	sf.Encoding = DetectEncoding(content)
	return sf, nil
}

// ReadStdin loads source text from r.
func ReadStdin(r io.Reader) (*SourceFile, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap(err)
	}
	text, err := Decode(content)
	if err != nil {
		return nil, wrap(err)
	}
	return NewStdinSource(text), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding reports how Decode will read content.
func DetectEncoding(content []byte) Encoding {
	if utf8.Valid(content) {
		return UTF8
	}
	return Windows1252
}

// Decode turns file bytes into NFC-normalised text. Invalid UTF-8 is read
// as Windows-1252, the encoding of files saved by legacy editors.
func Decode(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), content)
		if err != nil {
			return "", err
		}
		content = decoded
	}
	return norm.NFC.String(string(content)), nil
}

// Encode converts text to enc. Characters outside Windows-1252 are an error.
func Encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case UTF8, "":
		return []byte(text), nil
	case Windows1252:
		encoded, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(norm.NFC.String(text)))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", enc, err)
		}
		return encoded, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", enc)
}

// WriteFile writes text to path in enc.
func WriteFile(path, text string, enc Encoding) error {
	content, err := Encode(text, enc)
	if err != nil {
		return wrap(fmt.Errorf("%s: %w", path, err))
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return wrap(err)
	}
	return nil
}
