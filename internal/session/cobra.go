// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"errors"

	"github.com/spf13/cobra"
)

// FromCommand extracts the session Context from a cobra.Command's context.
// Returns nil if no Context is stored.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand extracts the session Context from a cobra.Command's
// context, returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	ctx := FromCommand(cmd)
	if ctx == nil {
		return nil, errors.New("project context not loaded")
	}
	return ctx, nil
}

// LoadCommand loads the project context of dir, the working directory when
// empty, and stores it in the command's context.
func LoadCommand(cmd *cobra.Command, dir string) (*Context, error) {
	ctx, err := Load(cmd.Context(), dir)
	if err != nil {
		return nil, err
	}
	cmd.SetContext(ctx)
	return From(ctx), nil
}
