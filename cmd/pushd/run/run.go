// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the run command, which runs YAML plans.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/color"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/plan"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                  = "file"
	loadTimeoutFlag           = "load-timeout"
	loadTimeoutSecondsDefault = 30
)

var (
	// ErrNoPlanFile is returned when no plan file is given.
	ErrNoPlanFile = errors.New("specify at least one plan file with --file or -f")
	// ErrEmptyURL is returned when a plan file URL is empty.
	ErrEmptyURL = errors.New("plan file URL is empty")
	// ErrPlanFailed is returned when at least one step of a plan failed.
	ErrPlanFailed = errors.New("plan failed")
)

var (
	// EnvFactory returns the environment the plan steps switch directories in.
	EnvFactory = func() dirswitch.Env {
		return dirswitch.OS
	}
	// Exec runs the command of a step. Nil means plan.DefaultExec.
	Exec plan.ExecFunc
)

// RunCmd is the command that runs the steps of one or more YAML plans.
var RunCmd = newCmd()

func newCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "pushd run -f plan.yaml",
		Description: `Run the steps of one or more YAML plans.
Each step switches to its directory, lists it and/or runs a command there, and
switches back before the next step starts.

Plan file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.
`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    fileFlag,
				Aliases: []string{"f"},
				Usage: "Specify the URL of the YAML plan file to run. " +
					"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
					"Specify multiple times to run multiple files.",
			},
			&cli.IntFlag{
				Name:    loadTimeoutFlag,
				Aliases: []string{"timeout"},
				Usage:   "Set the maximum time in seconds to wait for loading plan files.",
				Value:   loadTimeoutSecondsDefault,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)
	ctxlog.Debug(ctx, "running run command")

	urls := cmd.StringSlice(fileFlag)
	if len(urls) == 0 {
		return ErrNoPlanFile
	}

	loadCtx, loadCancel := context.WithTimeout(ctx, time.Duration(cmd.Int(loadTimeoutFlag))*time.Second)
	defer loadCancel()

	plans := make([]*plan.Plan, 0, len(urls))

	for i, u := range urls {
		if u == "" {
			return fmt.Errorf("%w: index %d", ErrEmptyURL, i)
		}

		b, err := plan.Load(loadCtx, u)
		if err != nil {
			return err //nolint:wrapcheck
		}

		p, err := plan.Parse(b)
		if err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}

		if p.Name == "" {
			p.Name = u
		}

		plans = append(plans, p)
	}

	root := cmd.Root()

	runner := &plan.Runner{
		Env:    EnvFactory(),
		Stdout: root.Writer,
		Stderr: root.ErrWriter,
		Exec:   Exec,
	}

	var merr *multierror.Error

	for _, p := range plans {
		results, err := runner.Run(ctx, p)

		writeResults(root.Writer, p.Name, results)

		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s: %w", ErrPlanFailed, p.Name, err))
		}

		if ctx.Err() != nil {
			break
		}
	}

	return merr.ErrorOrNil()
}

// writeResults writes one line per step: a status mark, the step name and its directory.
func writeResults(w io.Writer, name string, results plan.Results) {
	var sb strings.Builder

	sb.WriteString(color.Colorize(name, color.Bold))
	sb.WriteByte('\n')

	for _, r := range results {
		var mark string

		switch {
		case r.Skipped:
			mark = color.Colorize("-", color.FgHiBlack)
		case r.Err != nil:
			mark = color.Colorize("✗", color.FgRed)
		default:
			mark = color.Colorize("✓", color.FgGreen)
		}

		fmt.Fprintf(&sb, "  %s %s (%s)", mark, r.Name, r.Dir)

		if r.Err != nil {
			fmt.Fprintf(&sb, ": %s", r.Err)
		}

		sb.WriteByte('\n')
	}

	io.WriteString(w, sb.String()) //nolint:errcheck
}
