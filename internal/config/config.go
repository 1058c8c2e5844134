// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls the chiaro command. Zero-valued fields in a file keep
// their defaults.
type Config struct {
	Format         string
	LogLevel       string
	MaxConcurrency int
	NonFatal       []string
	Methods        []string
	CommentPrefix  string
}

type fileConfig struct {
	Format         string   `toml:"format"`
	LogLevel       string   `toml:"log_level"`
	MaxConcurrency int      `toml:"max_concurrency"`
	NonFatal       []string `toml:"non_fatal"`
	Methods        []string `toml:"methods"`
	CommentPrefix  string   `toml:"comment_prefix"`
}

func Default() Config {
	max := runtime.GOMAXPROCS(-1)
	cpus := runtime.NumCPU()
	if max > cpus {
		max = cpus
	}
	return Config{
		Format:         FormatText,
		LogLevel:       "info",
		MaxConcurrency: max,
		CommentPrefix:  "#",
	}
}

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("max_concurrency") {
		cfg.MaxConcurrency = raw.MaxConcurrency
	}
	if meta.IsDefined("non_fatal") {
		cfg.NonFatal = Upper(raw.NonFatal)
	}
	if meta.IsDefined("methods") {
		cfg.Methods = Upper(raw.Methods)
	}
	if meta.IsDefined("comment_prefix") {
		cfg.CommentPrefix = raw.CommentPrefix
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatText, FormatJSON, cfg.Format)
	}
	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	for i, method := range cfg.Methods {
		if method == "" {
			return fmt.Errorf("methods[%d] is empty", i)
		}
	}
	return nil
}

// AllowsMethod reports whether method passes the configured allow-list. An
// empty list allows everything.
func (c Config) AllowsMethod(method []byte) bool {
	if len(c.Methods) == 0 {
		return true
	}
	for _, m := range c.Methods {
		if m == string(method) {
			return true
		}
	}
	return false
}

// Upper trims values, drops empty ones and upper-cases the rest. Failure
// codes and methods are compared in this form.
func Upper(values []string) []string {
	return normalize(values, strings.ToUpper)
}

func normalize(values []string, f func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, f(v))
	}
	return out
}
