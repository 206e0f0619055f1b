// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ls

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/avfs/avfs/idm/memidm"
	"github.com/avfs/avfs/vfs/memfs"
	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/listing"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubHome(t *testing.T) *dirswitch.VFSEnv {
	t.Helper()

	vfs := memfs.NewWithOptions(&memfs.Options{Idm: memidm.New()})

	require.NoError(t, vfs.MkdirAll("/home/a_user/code", 0o755))

	for _, f := range []string{"/home/a_user/.bashrc", "/home/a_user/cv.tex", "/home/a_user/doc.txt"} {
		require.NoError(t, vfs.WriteFile(f, nil, 0o644))
	}

	require.NoError(t, vfs.Chdir("/home"))

	env := dirswitch.NewVFSEnv(vfs)

	stubs := gostub.Stub(&EnvFactory, func() dirswitch.Env {
		return env
	})
	t.Cleanup(stubs.Reset)

	return env
}

func runLs(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newCmd()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard

	ctx := ctxlog.NewForWriter(context.Background(), io.Discard)
	err := cmd.Run(ctx, append([]string{"ls"}, args...))

	return out.String(), err
}

func TestLsText(t *testing.T) {
	env := stubHome(t)

	out, err := runLs(t, "--dir", "a_user")
	require.NoError(t, err)

	assert.Contains(t, out, ".bashrc\n")
	assert.Contains(t, out, "code/")
	assert.Contains(t, out, "cv.tex\n")
	assert.Contains(t, out, "doc.txt\n")

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}

func TestLsJSON(t *testing.T) {
	stubHome(t)

	out, err := runLs(t, "--dir", "/home/a_user", "--format", "json")
	require.NoError(t, err)

	var got listing.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)

	assert.Equal(t, "/home/a_user", got.Dir)
	assert.ElementsMatch(t, []listing.Entry{
		{Name: ".bashrc", Type: listing.TypeFile},
		{Name: "code", Type: listing.TypeDir},
		{Name: "cv.tex", Type: listing.TypeFile},
		{Name: "doc.txt", Type: listing.TypeFile},
	}, got.Entries)
}

func TestLsSource(t *testing.T) {
	env := stubHome(t)

	_, err := runLs(t, "--dir", "/home/a_user/code", "--source", "/home/a_user")
	require.NoError(t, err)

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home/a_user", wd)
}

func TestLsErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "missing directory",
			args:    []string{"--dir", "/home/nobody"},
			wantErr: dirswitch.ErrNotFound,
		},
		{
			name:    "not a directory",
			args:    []string{"--dir", "/home/a_user/cv.tex"},
			wantErr: dirswitch.ErrNotDirectory,
		},
		{
			name:    "unknown format",
			args:    []string{"--dir", "/home/a_user", "--format", "xml"},
			wantErr: listing.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubHome(t)

			out, err := runLs(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestLsRequiresDir(t *testing.T) {
	stubHome(t)

	_, err := runLs(t)
	assert.Error(t, err)
}
