package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

var ErrValueNotFound = errors.New("config value not found")

// Loader unifies a schema with any number of CUE files. Files are read once,
// on first use. Conflicting values across files are an error.
type Loader struct {
	getValue func() (cue.Value, error)
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{

		getValue: sync.OnceValues(func() (cue.Value, error) {
			ctx := cuecontext.New()

			value := ctx.CompileString("close({"+schemaSrc+"})", cue.Filename("schema.cue"))
			if err := value.Err(); err != nil {
				return cue.Value{}, err
			}

			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return cue.Value{}, err
				}

				file := ctx.CompileBytes(
					content,
					cue.Filename(filePath),
				)
				if err := file.Err(); err != nil {
					return cue.Value{}, err
				}

				value = value.Unify(file)
				if err := value.Validate(); err != nil {
					return cue.Value{}, fmt.Errorf("%s: %w", filePath, err)
				}
			}

			return value, nil
		}),
	}
}

// Assign decodes the value at path into target.
func (l Loader) Assign(path string, target any) error {
	root, err := l.getValue()
	if err != nil {
		return err
	}
	value := root.LookupPath(cue.ParsePath(path))
	if !value.Exists() {
		return ErrValueNotFound
	}
	if err := value.Err(); err != nil {
		return err
	}
	return value.Decode(target)
}

// Lookup returns the value at path, or the zero value when it is absent.
func Lookup[T any](loader Loader, path string) (T, error) {
	var value T
	if err := loader.Assign(path, &value); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return value, nil
		}
		return value, err
	}
	return value, nil
}
