// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"

	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
)

var (
	// ErrCouldNotStartProcess is returned when the command could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrNonZeroExit is returned when the command exits with a non-zero code.
	ErrNonZeroExit = errors.New("process exited with non-zero code")
	// ErrNoCommand is returned when the step has neither command nor shell.
	ErrNoCommand = errors.New("step has no command")
)

// ExecFunc runs the command of a step in the current working directory and
// returns its exit code.
type ExecFunc func(ctx context.Context, step Step, stdout, stderr io.Writer) (int, error)

// DefaultExec runs the command of a step as a child process that inherits the
// working directory. Shell lines run with "sh -c", or "cmd /C" on Windows.
// The process is killed when ctx is done.
func DefaultExec(ctx context.Context, step Step, stdout, stderr io.Writer) (int, error) {
	argv := shellArgs(step)
	if len(argv) == 0 {
		return -1, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Env = stepEnv(step.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	ctxlog.Debug(ctx, "starting process", "args", argv)

	if err := cmd.Start(); err != nil {
		return -1, errors.Join(ErrCouldNotStartProcess, err)
	}

	ctxlog.Debug(ctx, "process started", "pid", cmd.Process.Pid)

	err := cmd.Wait()
	code := cmd.ProcessState.ExitCode()

	ctxlog.Debug(ctx, "process finished", "exitCode", code)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, errors.Join(ctxErr, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return code, fmt.Errorf("%w: %d", ErrNonZeroExit, code)
	}

	if err != nil {
		return -1, err //nolint:wrapcheck
	}

	return code, nil
}

func shellArgs(step Step) []string {
	if len(step.Command) > 0 {
		return step.Command
	}

	if step.Shell == "" {
		return nil
	}

	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", step.Shell}
	}

	return []string{"sh", "-c", step.Shell}
}

// stepEnv returns the process environment with extra appended in key order.
func stepEnv(extra map[string]string) []string {
	env := os.Environ()

	for _, k := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, fmt.Sprintf("%s=%s", k, extra[k]))
	}

	return env
}
