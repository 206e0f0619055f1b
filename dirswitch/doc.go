// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dirswitch temporarily changes the process working directory and
// restores the previous one when the scope ends.
//
// A Switch is built from a destination and a source directory. Both are
// resolved to canonical absolute paths and validated once, when the Switch is
// created. Nothing is changed on disk or in the process until the scope is
// entered:
//
//	sw, err := dirswitch.New("./code", "")
//	if err != nil {
//		return err
//	}
//
//	return sw.Do(ctx, func(ctx context.Context, h *dirswitch.Handle) error {
//		for entry, err := range h.All() {
//			if err != nil {
//				return err
//			}
//			fmt.Println(entry.Name())
//		}
//		return nil
//	})
//
// Do restores the source directory on every exit path, including errors and
// panics raised by the callback. Enter and Exit are available when the scope
// does not fit a single function.
//
// The working directory is process-wide state. Switches are not coordinated
// with each other, so callers must not run two scopes at the same time.
package dirswitch
