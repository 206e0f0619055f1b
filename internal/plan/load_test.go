// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"os"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFsFactory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "plans/build.yaml", []byte("name: mem\n"), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	defer stubs.Reset()

	b, err := Load(context.Background(), "plans/build.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("name: mem\n"), b)
}

func TestLoad(t *testing.T) {
	want, err := os.ReadFile("testdata/build.yaml")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		url       string
		fs        afero.Fs
		wantErr   error
		wantBytes []byte
	}{
		{
			name:    "empty url returns error",
			url:     "",
			wantErr: ErrGetPlanFile,
		},
		{
			name:    "getter fails",
			url:     "git::http://notexist//build.yaml",
			fs:      afero.NewMemMapFs(),
			wantErr: ErrGetPlanFile,
		},
		{
			name:    "invalid getter url",
			url:     "git::http://notexist//plans/",
			fs:      afero.NewMemMapFs(),
			wantErr: ErrGetPlanFile,
		},
		{
			name:      "local file from os",
			url:       "./testdata/build.yaml",
			wantBytes: want,
		},
		{
			name:      "local file through getter",
			url:       "./testdata/build.yaml",
			fs:        afero.NewMemMapFs(),
			wantBytes: want,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fs != nil {
				stubs := gostub.Stub(&FsFactory, func() afero.Fs {
					return tc.fs
				})
				defer stubs.Reset()
			}

			b, err := Load(context.Background(), tc.url)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, b)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantBytes, b)
		})
	}
}

func TestSplitGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/repo//plans/build.yaml?ref=v1.0.0",
			wantURL:  "git::https://github.com/org/repo//plans?ref=v1.0.0",
			wantFile: "build.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//build.yaml",
			wantURL:  "git::https://github.com/org/repo",
			wantFile: "build.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//build.yaml?ref=main",
			wantURL:  "git::https://github.com/org/repo?ref=main",
			wantFile: "build.yaml",
		},
		{
			url: "https://example.com/build.yaml",
		},
		{
			url: "git::https://github.com/org/repo//plans/",
		},
		{
			url: "git::https://github.com/org/repo//?ref=main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			gotURL, gotFile := splitGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantFile, gotFile)
		})
	}
}

func TestNewGetterRequest(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		url      string
		wantSrc  string
		wantFile string
		wantErr  error
	}{
		{
			name:     "local file",
			url:      "./testdata/build.yaml",
			wantSrc:  "testdata",
			wantFile: "build.yaml",
		},
		{
			name:     "git subdirectory",
			url:      "git::https://github.com/org/repo//plans/build.yaml?ref=v1.0.0",
			wantSrc:  "git::https://github.com/org/repo//plans?ref=v1.0.0",
			wantFile: "build.yaml",
		},
		{
			name:    "git without file",
			url:     "git::https://github.com/org/repo//plans/",
			wantErr: ErrGetPlanFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, file, err := newGetterRequest(tt.url, "/tmp/dst", wd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, req)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, req.Src)
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, "/tmp/dst", req.Dst)
			assert.Equal(t, wd, req.Pwd)
		})
	}
}
