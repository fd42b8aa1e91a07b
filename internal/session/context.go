// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/buildergen/internal/config"
)

// ErrInvalidConfig indicates the config file exists but is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigFileName is the name of the buildergen configuration file.
const ConfigFileName = "buildergen.yaml"

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved project configuration.
type Context struct {
	// Config is the loaded configuration, or the defaults when the project
	// has no buildergen.yaml.
	Config *config.Config

	// Dir is the directory relative input paths are resolved against.
	Dir string

	// ConfigPath is the path of the loaded config file. Empty when defaults
	// are in use.
	ConfigPath string
}

// Load loads the project context from dir and returns a new context.Context
// with the session Context stored in it. A missing buildergen.yaml is not an
// error.
func Load(ctx context.Context, dir string) (context.Context, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	sess := &Context{Config: config.Default(), Dir: dir}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, statErr := os.Stat(configPath); statErr == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if validateErr := cfg.Validate(); validateErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, validateErr)
		}
		sess.Config = cfg
		sess.ConfigPath = configPath
	} else if !os.IsNotExist(statErr) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, statErr)
	}

	return context.WithValue(ctx, contextKey{}, sess), nil
}

// Resolve returns path relative to the session directory unless it is
// already absolute.
func (c *Context) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// From extracts the session Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sess, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sess
	}
	return nil
}
