// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package listing renders directory entries for the command line.
package listing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/pushd/internal/color"
)

// ErrUnknownFormat is returned by ParseFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Entry types.
const (
	TypeDir     = "dir"
	TypeFile    = "file"
	TypeSymlink = "symlink"
	TypeOther   = "other"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Entry is a single directory entry.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Listing is the document written for the YAML and JSON formats.
type Listing struct {
	Dir     string  `json:"dir"     yaml:"dir"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// FromDirEntry converts a fs.DirEntry.
func FromDirEntry(d fs.DirEntry) Entry {
	e := Entry{Name: d.Name()}

	switch t := d.Type(); {
	case t.IsDir():
		e.Type = TypeDir
	case t&fs.ModeSymlink != 0:
		e.Type = TypeSymlink
	case t.IsRegular():
		e.Type = TypeFile
	default:
		e.Type = TypeOther
	}

	return e
}

// ParseFormat returns the Format named by s. It is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write renders entries of dir to w in the given format.
func Write(w io.Writer, format Format, dir string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	switch format {
	case FormatText:
		return writeText(w, entries)
	case FormatYAML:
		return writeDoc(w, Listing{Dir: dir, Entries: entries})
	case FormatJSON:
		return writeDoc(w, Listing{Dir: dir, Entries: entries}, yaml.JSON())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, entries []Entry) error {
	var sb strings.Builder

	for _, e := range entries {
		switch e.Type {
		case TypeDir:
			sb.WriteString(color.Colorize(e.Name+"/", color.FgBlue, color.Bold))
		case TypeSymlink:
			sb.WriteString(color.Colorize(e.Name, color.FgCyan))
		default:
			sb.WriteString(e.Name)
		}

		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

func writeDoc(w io.Writer, l Listing, opts ...yaml.EncodeOption) error {
	b, err := yaml.MarshalWithOptions(l, opts...)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if _, err := w.Write(b); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}
