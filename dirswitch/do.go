// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// ScopeFunc is the body of a scope run by Do.
type ScopeFunc func(ctx context.Context, h *Handle) error

// Do enters the switch, calls fn and restores the source directory however
// fn ends: by returning, by returning an error, or by panicking.
//
// An error from fn is returned after the restore. If the restore fails as
// well, both errors are returned in a *multierror.Error, so errors.Is matches
// either of them. A panic in fn is propagated after the restore has run; if
// the restore fails, the panic value is wrapped in a *PanicError with the
// restore error.
//
// Do does not enter when ctx is already done.
func (s *Switch) Do(ctx context.Context, fn ScopeFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	h, err := s.Enter()
	if err != nil {
		return err
	}

	defer func() {
		r := recover()
		exitErr := h.Exit()

		if r != nil {
			if exitErr != nil {
				panic(&PanicError{Value: r, Restore: exitErr})
			}

			panic(r)
		}

		if exitErr != nil {
			if err == nil {
				err = exitErr
				return
			}

			err = multierror.Append(err, exitErr)
		}
	}()

	return fn(ctx, h)
}

// Within runs fn with the working directory switched to destination,
// restoring the current working directory afterwards.
func Within(ctx context.Context, destination string, fn ScopeFunc, opts ...Option) error {
	s, err := New(destination, "", opts...)
	if err != nil {
		return err
	}

	return s.Do(ctx, fn)
}
