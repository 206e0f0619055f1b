// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
)

// entriesBatchSize is the number of entries read from the directory at a time.
const entriesBatchSize = 64

// Entries iterates once over the immediate children of a directory.
//
//	for entries.Next() {
//		fmt.Println(entries.Entry().Name())
//	}
//	if err := entries.Err(); err != nil {
//		return err
//	}
//
// The directory is opened on the first call to Next and closed when the
// listing is exhausted, fails, or Close is called. An exhausted iterator
// cannot be restarted.
type Entries struct {
	h    *Handle
	env  Env
	dir  string
	f    fs.ReadDirFile
	buf  []fs.DirEntry
	cur  fs.DirEntry
	err  error
	eof  bool
	done bool
}

func newEntries(h *Handle, env Env, dir string) *Entries {
	return &Entries{
		h:   h,
		env: env,
		dir: dir,
	}
}

// Next advances to the next entry and reports whether there is one.
func (e *Entries) Next() bool {
	e.cur = nil

	if e.done {
		return false
	}

	if e.f == nil {
		if e.h != nil && e.h.exited {
			e.err = ErrHandleClosed
			e.done = true

			return false
		}

		f, err := e.env.OpenDir(e.dir)
		if err != nil {
			e.err = fmt.Errorf("could not open directory %q: %w", e.dir, err)
			e.done = true

			return false
		}

		e.f = f
	}

	if len(e.buf) == 0 && !e.eof {
		buf, err := e.f.ReadDir(entriesBatchSize)

		switch {
		case errors.Is(err, io.EOF):
			e.eof = true
		case err != nil:
			e.err = fmt.Errorf("could not read directory %q: %w", e.dir, err)
			e.eof = true
		}

		e.buf = buf
	}

	if len(e.buf) == 0 {
		e.finish() //nolint:errcheck // close errors are kept in e.err

		return false
	}

	e.cur = e.buf[0]
	e.buf = e.buf[1:]

	return true
}

// Entry returns the entry Next advanced to.
func (e *Entries) Entry() fs.DirEntry {
	return e.cur
}

// Err returns the first error met while listing the directory.
func (e *Entries) Err() error {
	return e.err
}

// Close stops the iteration and releases the directory.
// It is safe to call more than once.
func (e *Entries) Close() error {
	e.cur = nil
	e.buf = nil

	return e.finish()
}

// All adapts the iterator to a range-over-func sequence.
// An error, if any, is yielded last with a nil entry.
func (e *Entries) All() iter.Seq2[fs.DirEntry, error] {
	return func(yield func(fs.DirEntry, error) bool) {
		defer e.Close() //nolint:errcheck

		for e.Next() {
			if !yield(e.Entry(), nil) {
				return
			}
		}

		if err := e.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (e *Entries) finish() error {
	e.done = true

	if e.f == nil {
		return nil
	}

	err := e.f.Close()
	e.f = nil

	if err != nil {
		err = fmt.Errorf("could not close directory %q: %w", e.dir, err)
		if e.err == nil {
			e.err = err
		}
	}

	return err
}
