// Package fsx wraps spf13/afero behind the narrow FileSystem interface
// the file action family registers as a context service (§4.D file
// family): a concrete backend hidden behind a small interface so tests
// can swap in a memory-backed implementation (afero.NewMemMapFs)
// without touching action bodies.
package fsx

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem is the service key the file action family resolves via
// runtimectx.Service[FileSystem](ctx). Its surface is intentionally
// close to afero.Fs — actions.* adapts spec-level semantics (reverse
// indexing, format detection) on top of this.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
	Glob(pattern string) ([]string, error)
	Walk(root string, fn filepath.WalkFunc) error
	Create(path string) (afero.File, error)
	Exists(path string) (bool, error)
	IsDir(path string) (bool, error)
}

// aferoFS adapts an afero.Fs to FileSystem.
type aferoFS struct {
	fs afero.Fs
}

// New wraps fsys (typically afero.NewOsFs() in production, or
// afero.NewMemMapFs() in tests) as a FileSystem.
func New(fsys afero.Fs) FileSystem {
	return &aferoFS{fs: fsys}
}

// NewOS returns the production FileSystem backed by the real OS.
func NewOS() FileSystem { return New(afero.NewOsFs()) }

// NewMem returns an in-memory FileSystem for tests.
func NewMem() FileSystem { return New(afero.NewMemMapFs()) }

func (a *aferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *aferoFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, path, data, perm)
}

func (a *aferoFS) Stat(path string) (fs.FileInfo, error) {
	return a.fs.Stat(path)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Remove(path string) error {
	return a.fs.Remove(path)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	return a.fs.Rename(oldpath, newpath)
}

func (a *aferoFS) Glob(pattern string) ([]string, error) {
	return afero.Glob(a.fs, pattern)
}

func (a *aferoFS) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(a.fs, root, fn)
}

func (a *aferoFS) Create(path string) (afero.File, error) {
	return a.fs.Create(path)
}

func (a *aferoFS) Exists(path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *aferoFS) IsDir(path string) (bool, error) {
	return afero.IsDir(a.fs, path)
}

// Copy reads src and writes it to dst, the file-level semantics
// actions.Copy needs (§4.D file family); directory copy is not
// supported.
func Copy(fsys FileSystem, src, dst string) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := fsys.Stat(src)
	perm := fs.FileMode(0o644)
	if err == nil {
		perm = info.Mode().Perm()
	}
	return fsys.WriteFile(dst, data, perm)
}
