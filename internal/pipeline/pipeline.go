// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pipeline turns record descriptions into builder source files.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dacolabs/buildergen/internal/extract"
	"github.com/dacolabs/buildergen/internal/generate"
	"github.com/dacolabs/buildergen/internal/logging"
	"github.com/dacolabs/buildergen/internal/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultSuffix is the output file suffix used when a Runner names none.
const DefaultSuffix = "_builder.go"

// Job is one input file to generate builders for.
type Job struct {
	Input   string          // record description path
	Mode    string          // generator name
	Output  string          // output file, empty derives it from Input
	Extract extract.Options // extraction options
}

// Result describes a completed job.
type Result struct {
	Job       Job
	Output    string   // file written
	Records   []string // records a builder was generated for
	Unchanged bool     // output already held the generated source

	// Dependencies are the other documents the input pulled records from.
	Dependencies []string
}

// Runner executes jobs.
type Runner struct {
	Generators  generate.Register
	OutDir      string // directory for derived outputs, empty is the input's directory
	Suffix      string // appended to the input base name, defaults to DefaultSuffix
	FixImports  bool   // let goimports add and remove imports
	DryRun      bool   // render without writing
	Concurrency int    // parallel jobs, defaults to GOMAXPROCS
}

// OutputPath returns the file job's builders are written to.
func (r *Runner) OutputPath(job Job) string {
	if job.Output != "" {
		return job.Output
	}
	suffix := r.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir := r.OutDir
	if dir == "" {
		dir = filepath.Dir(job.Input)
	}
	base := filepath.Base(job.Input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".schema")
	return filepath.Join(dir, base+suffix)
}

// Render extracts the records of job and returns the formatted builder
// source together with the unit it was generated from.
func (r *Runner) Render(job Job) ([]byte, *schema.Unit, error) {
	gen, err := r.Generators.Get(job.Mode)
	if err != nil {
		return nil, nil, err
	}

	unit, err := extract.Load(job.Input, job.Extract)
	if err != nil {
		return nil, nil, err
	}

	src, err := gen.Generate(unit)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", job.Input, err)
	}

	out, err := generate.Format(r.OutputPath(job), src, r.FixImports)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", job.Input, err)
	}
	return out, unit, nil
}

// Run executes jobs concurrently. Every job runs to completion; the errors of
// failed jobs are joined. Results of successful jobs are returned in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	logger := logging.FromContext(ctx)

	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			res, err := r.runJob(job)
			if err != nil {
				logger.Debug("generation failed", zap.String("input", job.Input), zap.Error(err))
				errs[i] = err
				return nil
			}
			logger.Info("generated builders",
				zap.String("input", job.Input),
				zap.String("output", res.Output),
				zap.Strings("records", res.Records),
				zap.Bool("unchanged", res.Unchanged))
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var done []Result
	for _, res := range results {
		if res != nil {
			done = append(done, *res)
		}
	}
	return done, errors.Join(errs...)
}

func (r *Runner) runJob(job Job) (*Result, error) {
	src, unit, err := r.Render(job)
	if err != nil {
		return nil, err
	}

	res := &Result{Job: job, Output: r.OutputPath(job), Dependencies: unit.Dependencies}
	for _, rec := range unit.Records {
		res.Records = append(res.Records, rec.Name)
	}

	if existing, err := os.ReadFile(res.Output); err == nil && bytes.Equal(existing, src) {
		res.Unchanged = true
		return res, nil
	}
	if r.DryRun {
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(res.Output), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(res.Output, src, 0o644); err != nil { //nolint:gosec // generated source is world-readable
		return nil, fmt.Errorf("failed to write %s: %w", res.Output, err)
	}
	return res, nil
}
