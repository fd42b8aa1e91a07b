// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles buildergen project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Builder modes.
const (
	ModeTyped   = "typed"
	ModeChecked = "checked"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// DefaultSuffix is appended to an input's base name to form its output file.
const DefaultSuffix = "_builder.go"

var logLevels = []string{"debug", "info", "warn", "error"}

// Config represents the buildergen.yaml project configuration file.
type Config struct {
	Version    int     `yaml:"version"`
	Mode       string  `yaml:"mode,omitempty"`
	Output     string  `yaml:"output,omitempty"`
	Suffix     string  `yaml:"suffix,omitempty"`
	FixImports bool    `yaml:"fixImports,omitempty"`
	Log        Log     `yaml:"log,omitempty"`
	Inputs     []Input `yaml:"inputs,omitempty"`
}

// Log configures the CLI logger.
type Log struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Input is one record description to generate builders for.
type Input struct {
	Path    string   `yaml:"path"`
	Types   []string `yaml:"types,omitempty"`
	From    string   `yaml:"from,omitempty"`
	Package string   `yaml:"package,omitempty"`
	Mode    string   `yaml:"mode,omitempty"`
}

// Default returns the configuration used when no buildergen.yaml exists.
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Mode:    ModeTyped,
		Suffix:  DefaultSuffix,
		Log:     Log{Level: "info", Format: LogFormatConsole},
	}
}

// Load reads a Config from a file path. Unset values take their defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg := Default()
	cfg.Version = 0
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Version != CurrentConfigVersion {
		errs = append(errs, errors.New("unsupported config version"))
	}
	if err := ValidateMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Level != "" && !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("invalid log level %q (expected one of %s)", c.Log.Level, strings.Join(logLevels, ", ")))
	}
	if c.Log.Format != "" && c.Log.Format != LogFormatConsole && c.Log.Format != LogFormatJSON {
		errs = append(errs, fmt.Errorf("invalid log format %q (expected console or json)", c.Log.Format))
	}
	if c.Suffix != "" && !strings.HasSuffix(c.Suffix, ".go") {
		errs = append(errs, fmt.Errorf("suffix %q must end in .go", c.Suffix))
	}
	for i, in := range c.Inputs {
		if in.Path == "" {
			errs = append(errs, fmt.Errorf("inputs[%d]: path is required", i))
		}
		if in.Mode != "" {
			if err := ValidateMode(in.Mode); err != nil {
				errs = append(errs, fmt.Errorf("inputs[%d]: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ValidateMode rejects unknown builder modes. Empty means the default mode.
func ValidateMode(mode string) error {
	switch mode {
	case "", ModeTyped, ModeChecked:
		return nil
	default:
		return fmt.Errorf("invalid mode %q (expected %s or %s)", mode, ModeTyped, ModeChecked)
	}
}
