// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dacolabs/buildergen/internal/extract"
	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/pipeline"
	"github.com/dacolabs/buildergen/internal/prompts"
	"github.com/dacolabs/buildergen/internal/session"
	"github.com/spf13/cobra"
)

var errNoInputs = errors.New("no inputs: pass record descriptions as arguments or list them under inputs in buildergen.yaml")

type generateOptions struct {
	mode        string
	types       []string
	all         bool
	from        string
	pkg         string
	output      string
	suffix      string
	fixImports  bool
	watch       bool
	interactive bool
	dryRun      bool
	jobs        int
}

func newGenerateCmd(generators generate.Register) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [input...]",
		Short: "Generate builders for records",
		Long: fmt.Sprintf(`Generate builders for the records described by each input.

Inputs are annotated Go source (.go), record documents (.yaml, .yml, .json),
JSON Schema documents (.schema.json, .schema.yaml) or HCL files (.hcl). Without
arguments the inputs listed in buildergen.yaml are used.

Each input produces one file named after it with the configured suffix.

Available modes: %s`, strings.Join(generators.Available(), ", ")),
		Example: `  # Builders for every //buildergen:generate struct in a file
  buildergen generate models/user.go

  # Only some records, with runtime-checked builders
  buildergen generate --mode checked --type User,Account records.yaml

  # Every struct of a file, written to another directory
  buildergen generate --all --output gen models/user.go

  # Regenerate whenever the inputs of buildergen.yaml change
  buildergen generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, generators, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", fmt.Sprintf("Builder mode (%s)", strings.Join(generators.Available(), ", ")))
	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "Records to generate builders for, comma-separated")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Go source: generate for every struct, not only annotated ones")
	cmd.Flags().StringVar(&opts.from, "from", "", fmt.Sprintf("Input format (%s), detected from the file name by default", formatNames()))
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package of the generated file for inputs that do not name one")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().StringVar(&opts.suffix, "suffix", "", "Output file suffix (default "+pipeline.DefaultSuffix+")")
	cmd.Flags().BoolVar(&opts.fixImports, "fix-imports", false, "Let goimports add missing imports")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when an input changes")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for the mode and the records of each input")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Render without writing files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Inputs processed in parallel (default: GOMAXPROCS)")
	cmd.MarkFlagsMutuallyExclusive("watch", "dry-run")

	return cmd
}

func runGenerate(cmd *cobra.Command, generators generate.Register, opts *generateOptions, args []string) error {
	sess, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}
	cfg := sess.Config
	flags := cmd.Flags()

	mode := cfg.Mode
	if flags.Changed("mode") {
		mode = opts.mode
	} else if opts.interactive {
		if err := prompts.RunModeSelect(&mode, generators.Available()); err != nil {
			return err
		}
	}
	if _, err := generators.Get(mode); err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(generators.Available(), ", "))
	}

	jobs, err := generateJobs(sess, opts, mode, flags.Changed("mode"), args)
	if err != nil {
		return err
	}

	if opts.interactive {
		if err := selectRecords(jobs); err != nil {
			return err
		}
	}

	runner := &pipeline.Runner{
		Generators:  generators,
		OutDir:      sess.Resolve(cfg.Output),
		Suffix:      cfg.Suffix,
		FixImports:  cfg.FixImports,
		DryRun:      opts.dryRun,
		Concurrency: opts.jobs,
	}
	if flags.Changed("output") {
		runner.OutDir = opts.output
	}
	if flags.Changed("suffix") {
		runner.Suffix = opts.suffix
	}
	if flags.Changed("fix-imports") {
		runner.FixImports = opts.fixImports
	}

	out := cmd.OutOrStdout()
	if opts.watch {
		_, _ = fmt.Fprintf(out, "Watching %d input(s), press Ctrl+C to stop\n", len(jobs))
		return runner.Watch(cmd.Context(), jobs, pipeline.WatchOptions{
			OnRun: func(results []pipeline.Result, err error) {
				printResults(out, results, err, false)
			},
		})
	}

	results, err := runner.Run(cmd.Context(), jobs)
	printResults(out, results, nil, opts.dryRun)
	return err
}

// generateJobs builds one job per argument, or per configured input when
// there are no arguments. Flags override the per-input settings.
func generateJobs(sess *session.Context, opts *generateOptions, mode string, modeFlag bool, args []string) ([]pipeline.Job, error) {
	var jobs []pipeline.Job

	if len(args) > 0 {
		format, err := parseFrom(opts.from)
		if err != nil {
			return nil, err
		}
		for _, arg := range args {
			jobs = append(jobs, pipeline.Job{
				Input: arg,
				Mode:  mode,
				Extract: extract.Options{
					Format:  format,
					Types:   opts.types,
					All:     opts.all,
					Package: opts.pkg,
				},
			})
		}
		return jobs, nil
	}

	for _, in := range sess.Config.Inputs {
		job := pipeline.Job{
			Input: sess.Resolve(in.Path),
			Mode:  firstNonEmpty(in.Mode, mode),
			Extract: extract.Options{
				Types:   in.Types,
				All:     opts.all,
				Package: firstNonEmpty(opts.pkg, in.Package),
			},
		}
		if modeFlag {
			job.Mode = mode
		}
		if len(opts.types) > 0 {
			job.Extract.Types = opts.types
		}
		format, err := parseFrom(firstNonEmpty(opts.from, in.From))
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in.Path, err)
		}
		job.Extract.Format = format
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, errNoInputs
	}
	return jobs, nil
}

// selectRecords asks which records of each input get a builder, for inputs
// whose records were not chosen by flag or config.
func selectRecords(jobs []pipeline.Job) error {
	for i := range jobs {
		job := &jobs[i]
		if len(job.Extract.Types) > 0 {
			continue
		}
		unit, err := extract.Load(job.Input, job.Extract)
		if err != nil {
			return err
		}
		if len(unit.Records) < 2 {
			continue
		}
		names := make([]string, len(unit.Records))
		for j, r := range unit.Records {
			names[j] = r.Name
		}
		selected, err := prompts.RunRecordSelect(job.Input, names)
		if err != nil {
			return err
		}
		job.Extract.Types = selected
	}
	return nil
}

func printResults(w io.Writer, results []pipeline.Result, err error, dryRun bool) {
	fields := make([]prompts.ResultField, 0, len(results))
	for _, res := range results {
		value := strings.Join(res.Records, ", ")
		switch {
		case res.Unchanged:
			value += " (unchanged)"
		case dryRun:
			value += " (dry run)"
		}
		fields = append(fields, prompts.ResultField{Label: res.Output, Value: value})
	}

	msg := ""
	if len(results) > 0 {
		msg = fmt.Sprintf("Generated builders for %d input(s)", len(results))
	}
	prompts.PrintResult(w, fields, msg)

	if err != nil {
		prompts.PrintFailure(w, "errors", err.Error())
	}
}

func parseFrom(from string) (extract.Format, error) {
	if from == "" {
		return "", nil
	}
	return extract.ParseFormat(from)
}

func formatNames() string {
	names := make([]string, len(extract.Formats))
	for i, f := range extract.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
