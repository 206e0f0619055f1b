// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/avfs/avfs"
)

// currentDir is the source used when none is supplied.
const currentDir = "."

// Switch holds a validated destination and source directory.
// It is immutable once created and does nothing until its scope is entered.
type Switch struct {
	env         Env
	destination string
	source      string
}

// Option configures a Switch.
type Option func(*Switch)

// WithEnv sets the environment used to resolve paths and change directory.
// The default is OS.
func WithEnv(env Env) Option {
	return func(s *Switch) {
		if env != nil {
			s.env = env
		}
	}
}

// New validates destination and source and returns a Switch between them.
// An empty source means the current working directory at the time of the call.
//
// Both paths are resolved to canonical absolute paths. If a path does not exist
// the error wraps ErrNotFound; if it is neither a directory nor a symbolic link
// the error wraps ErrNotDirectory.
func New(destination, source string, opts ...Option) (*Switch, error) {
	s := &Switch{
		env: OS,
	}

	for _, opt := range opts {
		opt(s)
	}

	if source == "" {
		source = currentDir
	}

	dst, err := sanitize(s.env, destination)
	if err != nil {
		return nil, err
	}

	src, err := sanitize(s.env, source)
	if err != nil {
		return nil, err
	}

	s.destination = dst
	s.source = src

	return s, nil
}

// Destination returns the canonical destination path.
func (s *Switch) Destination() string {
	return s.destination
}

// DestinationSlash returns the canonical destination path using forward slashes.
func (s *Switch) DestinationSlash() string {
	return s.env.ToSlash(s.destination)
}

// Source returns the canonical source path, which is restored on exit.
func (s *Switch) Source() string {
	return s.source
}

// SourceSlash returns the canonical source path using forward slashes.
func (s *Switch) SourceSlash() string {
	return s.env.ToSlash(s.source)
}

// Env returns the environment the switch operates on.
func (s *Switch) Env() Env {
	return s.env
}

// Enter changes the working directory to the destination and returns
// the handle that restores it. The handle must be exited by the caller.
//
// The destination is not validated again; if it was removed or its permissions
// changed since New, the error wraps both ErrChdir and the environment error.
func (s *Switch) Enter() (*Handle, error) {
	if err := s.env.Chdir(s.destination); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s", ErrChdir, s.destination), err)
	}

	return &Handle{sw: s}, nil
}

func sanitize(env Env, path string) (string, error) {
	abs, err := env.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not make %q absolute: %w", path, err)
	}

	resolved, err := env.EvalSymlinks(abs)
	if err != nil {
		if isNotExist(err) {
			return "", errors.Join(fmt.Errorf("%w: %s", ErrNotFound, abs), err)
		}

		return "", fmt.Errorf("could not resolve %q: %w", abs, err)
	}

	fi, err := env.Lstat(resolved)
	if err != nil {
		if isNotExist(err) {
			return "", errors.Join(fmt.Errorf("%w: %s", ErrNotFound, resolved), err)
		}

		return "", fmt.Errorf("could not stat %q: %w", resolved, err)
	}

	if !fi.IsDir() && fi.Mode()&fs.ModeSymlink == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, resolved)
	}

	return resolved, nil
}

// isNotExist reports whether err means the path is missing.
// A path that walks through a regular file does not exist either.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, avfs.ErrNotADirectory)
}
