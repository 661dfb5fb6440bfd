package config

import (
	_ "embed"
	"fmt"
	"time"

	"jsadvpl/pkg/generator"
)

// Schema declares every setting with its default.
//
//go:embed schema.cue
var Schema string

type Config struct {
	Generator Generator `json:"generator"`
	Server    Server    `json:"server"`
	LogLevel  string    `json:"log_level"`
}

type Generator struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Indent      int      `json:"indent"`
	Includes    []string `json:"includes"`
	Encoding    string   `json:"encoding"`
}

type Server struct {
	Addr     string `json:"addr"`
	MaxConns int    `json:"max_conns"`
	Timeout  string `json:"timeout"`
}

// Options converts the generator settings, stamping date as @since.
func (g Generator) Options(date string) generator.Options {
	return generator.Options{
		Name:        g.Name,
		Description: g.Description,
		Author:      g.Author,
		Date:        date,
		Indent:      g.Indent,
		Includes:    append([]string(nil), g.Includes...),
	}
}

func (s Server) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("server.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.timeout: must be positive, got %s", s.Timeout)
	}
	return d, nil
}

// Load reads the given CUE files over the schema defaults.
func Load(paths ...string) (Config, error) {
	return decode(NewLoader(paths, Schema))
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func decode(loader Loader) (cfg Config, err error) {
	for path, target := range map[string]any{
		"generator": &cfg.Generator,
		"server":    &cfg.Server,
		"log_level": &cfg.LogLevel,
	} {
		if err := loader.Assign(path, target); err != nil {
			return Config{}, err
		}
	}
	if _, err := cfg.Server.TimeoutDuration(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
