// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dacolabs/buildergen/internal/logging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long an input must be quiet before it is regenerated.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions tunes Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnRun is called after every regeneration with its results and error.
	OnRun func([]Result, error)
}

// Watch runs jobs once, then regenerates the jobs whose input, or a document
// the input pulled records from, changes until ctx is cancelled. Generation
// errors are logged and do not stop watching.
func (r *Runner) Watch(ctx context.Context, jobs []Job, opts WatchOptions) error {
	logger := logging.FromContext(ctx)
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	watched := make(map[string]bool)
	watch := func(file string) error {
		dir := filepath.Dir(file)
		if watched[dir] {
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched[dir] = true
		logger.Debug("watching directory", zap.String("dir", dir))
		return nil
	}

	byInput := make(map[string][]Job)
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Input)
		if err != nil {
			return err
		}
		byInput[abs] = append(byInput[abs], job)
		if err := watch(abs); err != nil {
			return err
		}
	}

	// documents each input read besides itself, as of its last successful run
	depsOf := make(map[string][]string)
	run := func(batch []Job) {
		results, err := r.Run(ctx, batch)
		if err != nil && ctx.Err() == nil {
			logger.Error("generation failed", zap.Error(err))
		}
		for _, res := range results {
			input, absErr := filepath.Abs(res.Job.Input)
			if absErr != nil {
				continue
			}
			depsOf[input] = res.Dependencies
			for _, dep := range res.Dependencies {
				if watchErr := watch(dep); watchErr != nil {
					logger.Warn("cannot watch dependency", zap.String("path", dep), zap.Error(watchErr))
				}
			}
		}
		if opts.OnRun != nil {
			opts.OnRun(results, err)
		}
	}
	run(jobs)

	pending := make(map[string]bool)
	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			affected := affectedInputs(path, byInput, depsOf)
			if len(affected) == 0 {
				continue
			}
			logger.Debug("input changed", zap.String("path", path), zap.Stringer("op", event.Op))
			for _, input := range affected {
				pending[input] = true
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			var batch []Job
			for path := range byInput {
				if pending[path] {
					batch = append(batch, byInput[path]...)
				}
			}
			clear(pending)
			slices.SortFunc(batch, func(a, b Job) int {
				return strings.Compare(a.Input, b.Input)
			})
			run(batch)
		}
	}
}

// affectedInputs returns the inputs to regenerate when path changes: path
// itself when it is an input, and every input that read it.
func affectedInputs(path string, byInput map[string][]Job, depsOf map[string][]string) []string {
	var inputs []string
	if _, ok := byInput[path]; ok {
		inputs = append(inputs, path)
	}
	for input, deps := range depsOf {
		if slices.Contains(deps, path) && !slices.Contains(inputs, input) {
			inputs = append(inputs, input)
		}
	}
	slices.Sort(inputs)
	return inputs
}
