// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
)

// Handle is an entered Switch. It is returned by Enter and passed to the
// function given to Do.
type Handle struct {
	sw     *Switch
	exited bool
}

// Destination returns the canonical destination path.
func (h *Handle) Destination() string {
	return h.sw.Destination()
}

// DestinationSlash returns the canonical destination path using forward slashes.
func (h *Handle) DestinationSlash() string {
	return h.sw.DestinationSlash()
}

// Source returns the canonical source path, which is restored on exit.
func (h *Handle) Source() string {
	return h.sw.Source()
}

// SourceSlash returns the canonical source path using forward slashes.
func (h *Handle) SourceSlash() string {
	return h.sw.SourceSlash()
}

// Active reports whether the scope has not been exited yet.
func (h *Handle) Active() bool {
	return !h.exited
}

// Exit changes the working directory back to the source.
// The restore is attempted only once: further calls return ErrHandleClosed.
func (h *Handle) Exit() error {
	if h.exited {
		return ErrHandleClosed
	}

	h.exited = true

	if err := h.sw.env.Chdir(h.sw.source); err != nil {
		return errors.Join(fmt.Errorf("%w: %s", ErrRestore, h.sw.source), err)
	}

	return nil
}

// Entries returns a new iterator over the immediate children of the
// destination. The directory is read when the iterator is first advanced,
// which fails with ErrHandleClosed if the handle has been exited by then.
func (h *Handle) Entries() (*Entries, error) {
	if h.exited {
		return nil, ErrHandleClosed
	}

	return newEntries(h, h.sw.env, h.sw.destination), nil
}

// All returns a sequence over a fresh listing of the destination.
// If the handle has been exited the sequence yields ErrHandleClosed once.
func (h *Handle) All() iter.Seq2[fs.DirEntry, error] {
	entries, err := h.Entries()
	if err != nil {
		return func(yield func(fs.DirEntry, error) bool) {
			yield(nil, err)
		}
	}

	return entries.All()
}

// Names returns the names of the immediate children of the destination,
// in the order the environment lists them.
func (h *Handle) Names() ([]string, error) {
	var names []string

	for entry, err := range h.All() {
		if err != nil {
			return names, err
		}

		names = append(names, entry.Name())
	}

	return names, nil
}
