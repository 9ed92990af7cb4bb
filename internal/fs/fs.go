// Package fs provides a stub-friendly interface for filesystem operations.
package fs

import (
	"io"
	iofs "io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

// FS is the interface for filesystem operations.
// Implementations must be safe for stubbing in tests.
type FS interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (iofs.FileInfo, error)
	Rename(oldpath, newpath string) error
	Remove(path string) error
	Chmod(path string, perm os.FileMode) error
	// CreateTemp creates a temp file and returns the path and a WriteCloser.
	// The caller is responsible for closing the writer and removing the file.
	CreateTemp(dir, pattern string) (path string, w io.WriteCloser, err error)
}

// RealFS is the production implementation of FS using the os package.
// Errors carry a stack trace; errors.Is/As still reach the *os.PathError.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

func (r *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return errors.WithStack(os.MkdirAll(path, perm))
}

func (r *RealFS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	return data, errors.WithStack(err)
}

func (r *RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return errors.WithStack(os.WriteFile(path, data, perm))
}

func (r *RealFS) Stat(path string) (iofs.FileInfo, error) {
	info, err := os.Stat(path)
	return info, errors.WithStack(err)
}

func (r *RealFS) Rename(oldpath, newpath string) error {
	return errors.WithStack(os.Rename(oldpath, newpath))
}

func (r *RealFS) Remove(path string) error {
	return errors.WithStack(os.Remove(path))
}

func (r *RealFS) Chmod(path string, perm os.FileMode) error {
	return errors.WithStack(os.Chmod(path, perm))
}

func (r *RealFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, errors.WithStack(err)
	}
	return f.Name(), f, nil
}
