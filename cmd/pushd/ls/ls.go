// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ls contains the ls command, which lists a directory from inside it.
package ls

import (
	"context"

	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/listing"
	"github.com/urfave/cli/v3"
)

const (
	dirFlag    = "dir"
	sourceFlag = "source"
	formatFlag = "format"
)

// EnvFactory returns the environment the command switches directories in.
var EnvFactory = func() dirswitch.Env {
	return dirswitch.OS
}

// LsCmd is the command that lists the immediate children of a directory.
var LsCmd = newCmd()

func newCmd() *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "pushd ls --dir ./code",
		Description: `Switch to a directory, list its immediate children and switch back.
The listing is read with the directory as the working directory, so relative
paths are resolved against the directory the command was started in.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     dirFlag,
				Aliases:  []string{"d"},
				Usage:    "Directory to list",
				Required: true,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     sourceFlag,
				Aliases:  []string{"s"},
				Usage:    "Directory to switch back to. Defaults to the current working directory",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     formatFlag,
				Aliases:  []string{"o"},
				Usage:    "Output format: text, yaml or json",
				Value:    string(listing.FormatText),
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)
	ctxlog.Debug(ctx, "running ls command")

	format, err := listing.ParseFormat(cmd.String(formatFlag))
	if err != nil {
		return err //nolint:wrapcheck
	}

	sw, err := dirswitch.New(cmd.String(dirFlag), cmd.String(sourceFlag), dirswitch.WithEnv(EnvFactory()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	w := cmd.Root().Writer

	return sw.Do(ctx, func(ctx context.Context, h *dirswitch.Handle) error {
		ctxlog.Debug(ctx, "listing directory", "dir", h.Destination())

		var entries []listing.Entry

		for d, err := range h.All() {
			if err != nil {
				return err
			}

			entries = append(entries, listing.FromDirEntry(d))
		}

		return listing.Write(w, format, h.DestinationSlash(), entries)
	})
}
