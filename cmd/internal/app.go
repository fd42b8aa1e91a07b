// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"
	"slices"
	"strings"

	"github.com/dacolabs/buildergen/internal/commands"
	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/generate/checked"
	"github.com/dacolabs/buildergen/internal/generate/typed"
)

// Generators returns every builder generator the CLI offers.
func Generators() generate.Register {
	generators := make(generate.Register)
	generators.Add(&typed.Generator{})
	generators.Add(&checked.Generator{})
	return generators
}

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, arguments without the
// program name, env lookup).
func Run(ctx context.Context, args []string, getenv func(string) string) error {
	rootCmd := commands.NewRootCmd(Generators())
	rootCmd.SetArgs(Args(args, getenv))
	return rootCmd.ExecuteContext(ctx)
}

// Args returns the command-line arguments with the environment defaults
// BUILDERGEN_LOG_LEVEL and BUILDERGEN_LOG_FORMAT in front, so that explicit
// flags still win.
func Args(args []string, getenv func(string) string) []string {
	var env []string
	for flag, key := range map[string]string{
		"--log-level":  "BUILDERGEN_LOG_LEVEL",
		"--log-format": "BUILDERGEN_LOG_FORMAT",
	} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			env = append(env, flag+"="+v)
		}
	}
	slices.Sort(env)
	return append(env, args...)
}
