// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"fmt"

	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/logging"
	"github.com/dacolabs/buildergen/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	dir       string
	logLevel  string
	logFormat string
	verbose   bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(generators generate.Register) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "buildergen",
		Short: "Generate builders that only compile once every required field is set",
		Long: `buildergen generates builders for Go records. In typed mode each builder
tracks which fields have been set in its type parameters, so forgetting a
required field or setting one twice is a compile error. Checked mode produces
plain chainable builders that report the same mistakes from Build.

Records are read from annotated Go source, YAML/JSON record documents, JSON
Schema documents or HCL files. Project defaults live in buildergen.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.FromContext(cmd.Context()).Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", "", "Project directory holding buildergen.yaml (default: current directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (console or json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Shorthand for --log-level=debug")

	rootCmd.AddCommand(
		newGenerateCmd(generators),
		newInspectCmd(generators),
		newInitCmd(generators),
		newVersionCmd(),
	)

	return rootCmd
}

// load stores the session and the logger in the command's context. Flags
// take precedence over buildergen.yaml.
func (o *rootOptions) load(cmd *cobra.Command) error {
	sess, err := session.LoadCommand(cmd, o.dir)
	if err != nil {
		return err
	}
	cfg := sess.Config

	level, format := cfg.Log.Level, cfg.Log.Format
	if cmd.Flags().Changed("log-level") {
		level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = o.logFormat
	}
	if o.verbose {
		level = "debug"
	}

	logger, err := logging.New(level, format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if sess.ConfigPath != "" {
		logger.Debug("loaded configuration", zap.String("path", sess.ConfigPath))
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}
