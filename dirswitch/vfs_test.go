// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forgedHome is the tree used by the in-memory scenario tests.
var (
	forgedHomeDirs  = []string{"/home/a_user/code"}
	forgedHomeFiles = []string{
		"/home/a_user/.bashrc",
		"/home/a_user/cv.tex",
		"/home/a_user/doc.txt",
		"/home/a_user/code/program1",
		"/home/a_user/code/program2",
	}
)

func TestForgedHomeScenario(t *testing.T) {
	env := newMemEnv(t, "/home", forgedHomeDirs, forgedHomeFiles)

	sw, err := New("/home/a_user/code", "/home", WithEnv(env))
	require.NoError(t, err)

	err = sw.Do(context.Background(), func(_ context.Context, h *Handle) error {
		wd, err := env.Getwd()
		require.NoError(t, err)
		assert.Equal(t, "/home/a_user/code", wd)

		assert.Equal(t, "/home/a_user/code", h.Destination())
		assert.Equal(t, "/home", h.Source())
		assert.Equal(t, "/home/a_user/code", h.DestinationSlash())
		assert.Equal(t, "/home", h.SourceSlash())

		names, err := h.Names()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"program1", "program2"}, names)

		return nil
	})
	require.NoError(t, err)

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}

func TestForgedHomeRelativePaths(t *testing.T) {
	env := newMemEnv(t, "/home", forgedHomeDirs, forgedHomeFiles)

	sw, err := New("a_user/code", "", WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, "/home/a_user/code", sw.Destination())
	assert.Equal(t, "/home", sw.Source())

	h, err := sw.Enter()
	require.NoError(t, err)

	// relative paths inside the scope resolve against the destination
	inner, err := New("..", "", WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, "/home/a_user", inner.Destination())
	assert.Equal(t, "/home/a_user/code", inner.Source())

	require.NoError(t, h.Exit())

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}

func TestForgedHomeValidation(t *testing.T) {
	env := newMemEnv(t, "/home", forgedHomeDirs, forgedHomeFiles)

	tests := []struct {
		name        string
		destination string
		wantErr     error
	}{
		{name: "missing", destination: "/home/b_user", wantErr: ErrNotFound},
		{name: "regular file", destination: "/home/a_user/doc.txt", wantErr: ErrNotDirectory},
		{name: "hidden regular file", destination: "/home/a_user/.bashrc", wantErr: ErrNotDirectory},
		{name: "through a file", destination: "/home/a_user/cv.tex/x", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.destination, "/home", WithEnv(env))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestForgedHomeSymlink(t *testing.T) {
	env := newMemEnv(t, "/home", forgedHomeDirs, forgedHomeFiles)
	require.NoError(t, env.VFS().Symlink("/home/a_user/code", "/home/code_link"))

	sw, err := New("/home/code_link", "/home", WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, "/home/a_user/code", sw.Destination())
}

func TestForgedHomeDestinationRemoved(t *testing.T) {
	env := newMemEnv(t, "/home", forgedHomeDirs, forgedHomeFiles)

	sw, err := New("/home/a_user/code", "/home", WithEnv(env))
	require.NoError(t, err)

	require.NoError(t, env.VFS().RemoveAll("/home/a_user/code"))

	_, err = sw.Enter()
	require.ErrorIs(t, err, ErrChdir)

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}
