package config

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

// Paths lists the CUE files to load, in order.
type Paths []string

func (Module) Paths() Paths {
	return nil
}

func (Module) Loader(paths Paths) Loader {
	return NewLoader(paths, Schema)
}

type LoadConfig func() (Config, error)

func (Module) LoadConfig(loader Loader) LoadConfig {
	return func() (Config, error) {
		return decode(loader)
	}
}
