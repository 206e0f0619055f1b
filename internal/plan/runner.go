// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/listing"
)

// ErrStepFailed wraps the error of a failed step.
var ErrStepFailed = errors.New("step failed")

// StepResult is the outcome of a single step.
type StepResult struct {
	Name     string   // Name of the step
	Dir      string   // Canonical step directory, or the raw dir if it could not be resolved
	ExitCode int      // Exit code of the command, -1 if it did not run to completion
	Entries  []string // Names listed when the step has list set
	Err      error    // Error, if any
	Skipped  bool     // The step did not run because an earlier one failed
}

// Results holds the step results of a plan run, in step order.
type Results []*StepResult

// HasError reports whether any step failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Err != nil {
			return true
		}
	}

	return false
}

// Runner runs plans. The zero value runs commands with DefaultExec on the OS
// environment and writes to os.Stdout and os.Stderr.
type Runner struct {
	Env    dirswitch.Env
	Stdout io.Writer
	Stderr io.Writer
	Exec   ExecFunc
}

// Run runs the steps of p one after another, each inside a directory switch.
// A failed step stops the plan unless it has ContinueOnError set; the
// remaining steps are reported as skipped. All step errors are returned
// together in a *multierror.Error.
func (r *Runner) Run(ctx context.Context, p *Plan) (Results, error) {
	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "plan", p.Name, "run_id", runID)

	ctxlog.Info(ctx, "starting plan", "steps", len(p.Steps))

	var (
		merr    *multierror.Error
		stopped bool
	)

	results := make(Results, 0, len(p.Steps))

	for _, step := range p.Steps {
		if !stopped {
			if err := ctx.Err(); err != nil {
				ctxlog.Warn(ctx, "plan cancelled", "step", step.Name)

				merr = multierror.Append(merr, err)
				stopped = true
			}
		}

		if stopped {
			results = append(results, &StepResult{Name: step.Name, Dir: step.Dir, ExitCode: -1, Skipped: true})
			continue
		}

		res := r.runStep(ctx, step)
		results = append(results, res)

		if res.Err == nil {
			continue
		}

		merr = multierror.Append(merr, res.Err)

		if step.ContinueOnError {
			ctxlog.Warn(ctx, "step failed, continuing", "step", step.Name, "error", res.Err)
			continue
		}

		ctxlog.Error(ctx, "step failed", "step", step.Name, "error", res.Err)

		stopped = true
	}

	ctxlog.Info(ctx, "plan finished", "failed", results.HasError())

	return results, merr.ErrorOrNil()
}

func (r *Runner) runStep(ctx context.Context, step Step) *StepResult {
	ctx = ctxlog.With(ctx, "step", step.Name)

	res := &StepResult{
		Name: step.Name,
		Dir:  step.Dir,
	}

	sw, err := dirswitch.New(step.Dir, step.Source, dirswitch.WithEnv(r.Env))
	if err != nil {
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w: %s: %w", ErrStepFailed, step.Name, err)

		return res
	}

	res.Dir = sw.Destination()

	err = sw.Do(ctx, func(ctx context.Context, h *dirswitch.Handle) error {
		ctxlog.Debug(ctx, "entered step directory", "dir", h.Destination(), "source", h.Source())

		if step.List {
			if err := r.list(h, res); err != nil {
				return err
			}
		}

		if !step.HasCommand() {
			return nil
		}

		code, err := r.exec()(ctx, step, r.stdout(), r.stderr())
		res.ExitCode = code

		return err
	})
	if err != nil {
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}

		res.Err = fmt.Errorf("%w: %s: %w", ErrStepFailed, step.Name, err)
	}

	return res
}

func (r *Runner) list(h *dirswitch.Handle, res *StepResult) error {
	var entries []listing.Entry

	for d, err := range h.All() {
		if err != nil {
			return err
		}

		entries = append(entries, listing.FromDirEntry(d))
		res.Entries = append(res.Entries, d.Name())
	}

	return listing.Write(r.stdout(), listing.FormatText, h.Destination(), entries)
}

func (r *Runner) exec() ExecFunc {
	if r.Exec == nil {
		return DefaultExec
	}

	return r.Exec
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}

	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}

	return r.Stderr
}
