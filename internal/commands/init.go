// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dacolabs/buildergen/internal/config"
	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/prompts"
	"github.com/dacolabs/buildergen/internal/session"
	"github.com/spf13/cobra"
)

type initOptions struct {
	mode        string
	inputs      []string
	types       []string
	output      string
	fixImports  bool
	force       bool
	interactive bool
}

func newInitCmd(generators generate.Register) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a buildergen.yaml configuration file",
		Long: `Create a buildergen.yaml configuration file in the project directory.
The inputs it lists are generated by a plain "buildergen generate".`,
		Example: `  # Interactive mode
  buildergen init --interactive

  # Non-interactive
  buildergen init --input models/user.go --mode checked
  buildergen init --input records.yaml --type User,Account --output gen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, generators, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", config.ModeTyped, fmt.Sprintf("Builder mode (%s)", strings.Join(generators.Available(), ", ")))
	cmd.Flags().StringSliceVar(&opts.inputs, "input", nil, "Record descriptions to generate builders for")
	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "Records to generate builders for, applied to every input")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().BoolVar(&opts.fixImports, "fix-imports", false, "Let goimports add missing imports")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing buildergen.yaml")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for the configuration")

	return cmd
}

func runInit(cmd *cobra.Command, generators generate.Register, opts *initOptions) error {
	sess, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(sess.Dir, session.ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; use --force to overwrite it", session.ConfigFileName)
	}

	if opts.interactive {
		answers := &prompts.InitAnswers{
			Mode:       opts.mode,
			Types:      strings.Join(opts.types, ","),
			Output:     opts.output,
			FixImports: opts.fixImports,
		}
		if len(opts.inputs) > 0 {
			answers.Input = opts.inputs[0]
		}
		if err := prompts.RunInitForm(answers, generators.Available()); err != nil {
			return err
		}
		opts.mode = answers.Mode
		opts.inputs = []string{answers.Input}
		opts.types = prompts.SplitList(answers.Types)
		opts.output = answers.Output
		opts.fixImports = answers.FixImports
	}

	cfg := config.Default()
	cfg.Mode = opts.mode
	cfg.Output = opts.output
	cfg.FixImports = opts.fixImports
	for _, in := range opts.inputs {
		cfg.Inputs = append(cfg.Inputs, config.Input{Path: in, Types: opts.types})
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := generators.Get(cfg.Mode); err != nil {
		return err
	}
	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", session.ConfigFileName, err)
	}

	fields := []prompts.ResultField{
		{Label: "Config", Value: cfgPath},
		{Label: "Mode", Value: cfg.Mode},
	}
	for _, in := range cfg.Inputs {
		fields = append(fields, prompts.ResultField{Label: "Input", Value: in.Path})
	}
	prompts.PrintResult(cmd.OutOrStdout(), fields, "Initialization completed")
	return nil
}
