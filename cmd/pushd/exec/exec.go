// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package exec contains the exec command, which runs a command inside a directory.
package exec

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/plan"
	"github.com/urfave/cli/v3"
)

const (
	dirFlag    = "dir"
	sourceFlag = "source"
	cliExitStr = ""
)

// ErrNoCommand is returned when no command follows the flags.
var ErrNoCommand = errors.New("no command given, use: pushd exec --dir DIR -- CMD [ARGS...]")

var (
	// EnvFactory returns the environment the command switches directories in.
	EnvFactory = func() dirswitch.Env {
		return dirswitch.OS
	}
	// Exec runs the command once the directory has been switched.
	Exec plan.ExecFunc = plan.DefaultExec
)

// ExecCmd is the command that runs a command with a directory as its working directory.
var ExecCmd = newCmd()

func newCmd() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "pushd exec --dir ./code -- go test ./...",
		ArgsUsage: "-- CMD [ARGS...]",
		Description: `Switch to a directory, run a command there and switch back.
The command inherits the environment and the standard streams. pushd exits
with the exit code of the command.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     dirFlag,
				Aliases:  []string{"d"},
				Usage:    "Directory to run the command in",
				Required: true,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     sourceFlag,
				Aliases:  []string{"s"},
				Usage:    "Directory to switch back to. Defaults to the current working directory",
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)
	ctxlog.Debug(ctx, "running exec command")

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrNoCommand
	}

	sw, err := dirswitch.New(cmd.String(dirFlag), cmd.String(sourceFlag), dirswitch.WithEnv(EnvFactory()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	root := cmd.Root()

	var code int

	err = sw.Do(ctx, func(ctx context.Context, h *dirswitch.Handle) error {
		ctxlog.Debug(ctx, "running command", "dir", h.Destination(), "args", args)

		var err error

		code, err = Exec(ctx, plan.Step{Dir: h.Destination(), Command: args}, root.Writer, root.ErrWriter)

		return err
	})

	switch {
	case err == nil:
		return nil
	case code > 0 && errors.Is(err, plan.ErrNonZeroExit) && !errors.Is(err, dirswitch.ErrRestore):
		ctxlog.Info(ctx, "command exited with non-zero code", "exitCode", code)
		return cli.Exit(cliExitStr, code)
	default:
		return err //nolint:wrapcheck
	}
}
