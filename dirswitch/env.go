// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dirswitch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avfs/avfs"
)

// Env is the part of the operating environment a Switch depends on:
// path resolution, the working directory and directory listing.
type Env interface {
	// Abs returns an absolute representation of path.
	Abs(path string) (string, error)
	// EvalSymlinks returns path with every symbolic link resolved.
	EvalSymlinks(path string) (string, error)
	// Lstat describes the named file without following a final symbolic link.
	Lstat(name string) (fs.FileInfo, error)
	// Getwd returns the current working directory.
	Getwd() (string, error)
	// Chdir changes the current working directory.
	Chdir(dir string) error
	// OpenDir opens the named directory for reading its entries.
	OpenDir(name string) (fs.ReadDirFile, error)
	// ToSlash replaces each separator character in path with a slash.
	ToSlash(path string) string
}

var (
	_ Env = osEnv{}
	_ Env = (*VFSEnv)(nil)
)

// OS is the Env backed by the running process and the host filesystem.
var OS Env = osEnv{}

type osEnv struct{}

func (osEnv) Abs(path string) (string, error) { return filepath.Abs(path) } //nolint:wrapcheck

func (osEnv) EvalSymlinks(path string) (string, error) { return filepath.EvalSymlinks(path) } //nolint:wrapcheck

func (osEnv) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) } //nolint:wrapcheck

func (osEnv) Getwd() (string, error) { return os.Getwd() } //nolint:wrapcheck

func (osEnv) Chdir(dir string) error { return os.Chdir(dir) } //nolint:wrapcheck

func (osEnv) OpenDir(name string) (fs.ReadDirFile, error) { return os.Open(name) } //nolint:wrapcheck

func (osEnv) ToSlash(path string) string { return filepath.ToSlash(path) }

// VFSEnv adapts an avfs file system to Env.
// The working directory it changes is the one of the virtual file system,
// not the one of the process.
type VFSEnv struct {
	vfs avfs.VFS
}

// NewVFSEnv returns an Env operating on vfs.
func NewVFSEnv(vfs avfs.VFS) *VFSEnv {
	return &VFSEnv{vfs: vfs}
}

// VFS returns the underlying file system.
func (e *VFSEnv) VFS() avfs.VFS {
	return e.vfs
}

// Abs implements Env.
func (e *VFSEnv) Abs(path string) (string, error) {
	p, err := e.vfs.Abs(path)
	return p, vfsError(err)
}

// EvalSymlinks implements Env.
func (e *VFSEnv) EvalSymlinks(path string) (string, error) {
	p, err := e.vfs.EvalSymlinks(path)
	return p, vfsError(err)
}

// Lstat implements Env.
func (e *VFSEnv) Lstat(name string) (fs.FileInfo, error) {
	fi, err := e.vfs.Lstat(name)
	return fi, vfsError(err)
}

// Getwd implements Env.
func (e *VFSEnv) Getwd() (string, error) {
	dir, err := e.vfs.Getwd()
	return dir, vfsError(err)
}

// Chdir implements Env.
func (e *VFSEnv) Chdir(dir string) error {
	return vfsError(e.vfs.Chdir(dir))
}

// OpenDir implements Env.
func (e *VFSEnv) OpenDir(name string) (fs.ReadDirFile, error) {
	f, err := e.vfs.Open(name)
	if err != nil {
		return nil, vfsError(err)
	}

	return f, nil
}

// ToSlash implements Env.
func (e *VFSEnv) ToSlash(path string) string {
	return e.vfs.ToSlash(path)
}

// vfsError makes avfs errno values match the io/fs sentinels,
// as the os package errors do.
func vfsError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return err
	case errors.Is(err, avfs.ErrNoSuchFileOrDir):
		return errors.Join(fs.ErrNotExist, err)
	case errors.Is(err, avfs.ErrPermDenied), errors.Is(err, avfs.ErrOpNotPermitted):
		return errors.Join(fs.ErrPermission, err)
	default:
		return err
	}
}
