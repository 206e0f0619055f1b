// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the pushd command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/pushd"
	"github.com/matt-FFFFFF/pushd/cmd/pushd/exec"
	"github.com/matt-FFFFFF/pushd/cmd/pushd/ls"
	"github.com/matt-FFFFFF/pushd/cmd/pushd/run"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		exec.ExecCmd,
		ls.LsCmd,
		run.RunCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "pushd",
	Description: `pushd runs work inside a directory and always switches back.
The working directory is changed for the duration of a listing, a command or
each step of a YAML plan, and the previous working directory is restored
afterwards, whether the work succeeded or not.`,
	Usage:     "pushd exec --dir ./code -- make",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", pushd.Version, pushd.Commit)

	err := rootCmd.Run(ctx, os.Args) // exit codes from cli.Exit are handled by the cli framework

	if ctx.Err() != nil {
		ctxlog.Error(ctx, "command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ctxlog.Debug(ctx, "command completed successfully")
}
