// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path does not resolve to an existing filesystem entry.
	ErrNotFound = errors.New("directory not found")
	// ErrNotDirectory is returned when a path exists but is neither a directory nor a symbolic link.
	ErrNotDirectory = errors.New("not a directory nor a symbolic link")
	// ErrChdir is returned when the working directory cannot be changed to the destination.
	ErrChdir = errors.New("could not change to destination directory")
	// ErrRestore is returned when the working directory cannot be changed back to the source.
	ErrRestore = errors.New("could not restore source directory")
	// ErrHandleClosed is returned when a handle is used after its scope has been exited.
	ErrHandleClosed = errors.New("directory switch scope already exited")
)

// PanicError is the value Do panics with when the scope panicked and the
// working directory could not be restored afterwards.
type PanicError struct {
	// Value is the value the scope panicked with.
	Value any
	// Restore is the error returned by the restore.
	Restore error
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in directory switch scope: %v; %v", e.Value, e.Restore)
}

// Unwrap returns the restore error and, if the scope panicked with an error, that error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{err, e.Restore}
	}

	return []error{e.Restore}
}
