// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrGetPlanFile is returned when a plan file cannot be read or fetched.
var ErrGetPlanFile = errors.New("failed to get plan file")

// FsFactory returns the filesystem local plan files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Load returns the content of the plan at url.
// A path that exists on FsFactory() is read directly. Anything else is fetched
// with Hashicorp's go-getter, so git, http and s3 sources all work.
func Load(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrGetPlanFile)
	}

	fs := FsFactory()

	if ok, err := afero.Exists(fs, url); err == nil && ok {
		ctxlog.Debug(ctx, "reading local plan", "path", url)

		b, err := afero.ReadFile(fs, url)
		if err != nil {
			return nil, errors.Join(ErrGetPlanFile, err)
		}

		return b, nil
	}

	ctxlog.Debug(ctx, "fetching plan", "url", url)

	return fetch(ctx, url)
}

// fetch downloads the directory holding the plan file into a temporary
// directory and reads the file from there, since go-getter cannot fetch a
// single file out of most sources.
// https://github.com/hashicorp/go-getter/issues/98
func fetch(ctx context.Context, url string) ([]byte, error) {
	osFs := afero.NewOsFs()

	tmpDir, err := afero.TempDir(osFs, "", "pushd-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	defer osFs.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	req, fileName, err := newGetterRequest(url, filepath.Join(tmpDir, "g"), wd)
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "downloading plan directory", "src", req.Src, "file", fileName)

	client := getter.Client{
		DisableSymlinks: true,
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	fetched := afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, res.Dst))

	b, err := afero.ReadFile(fetched, fileName)
	if err != nil {
		return nil, errors.Join(ErrGetPlanFile, err)
	}

	return b, nil
}

// newGetterRequest returns the request that downloads the directory holding
// the plan at url into dst, and the name of the plan file in that directory.
// Local paths are fetched from their parent directory. Other sources must name
// the file after a "//" subdirectory separator.
func newGetterRequest(url, dst, pwd string) (*getter.Request, string, error) {
	req := &getter.Request{
		Src:     url,
		Dst:     dst,
		Pwd:     pwd,
		GetMode: getter.ModeDir,
	}

	local, err := getter.Detect(req, &getter.FileGetter{})
	if err != nil {
		return nil, "", errors.Join(ErrGetPlanFile, err)
	}

	if local {
		req.Src = filepath.Dir(url)

		return req, filepath.Base(url), nil
	}

	src, fileName := splitGetterURL(url)
	if src == "" {
		return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetPlanFile, url)
	}

	req.Src = src

	return req, fileName, nil
}

const (
	getterSubdirSeparator = "//"
	getterQuerySeparator  = "?"
)

// splitGetterURL splits a go-getter URL of the form SRC//DIR/FILE?QUERY into
// SRC//DIR?QUERY and FILE. SRC itself must contain a scheme separator, and the
// path after the last "//" must end in a file name. Otherwise both results are empty.
func splitGetterURL(url string) (string, string) {
	i := strings.LastIndex(url, getterSubdirSeparator)
	if i < 0 || !strings.Contains(url[:i], getterSubdirSeparator) {
		return "", ""
	}

	src := url[:i]
	subPath, query, _ := strings.Cut(url[i+len(getterSubdirSeparator):], getterQuerySeparator)

	if subPath == "" || strings.HasSuffix(subPath, "/") {
		return "", ""
	}

	if dir := path.Dir(subPath); dir != "." {
		src += getterSubdirSeparator + dir
	}

	if query != "" {
		src += getterQuerySeparator + query
	}

	return src, path.Base(subPath)
}
