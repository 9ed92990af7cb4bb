package fs

import (
	"os"
	"path/filepath"
)

// TempPattern is the name pattern of temp files created by WriteFileAtomic.
const TempPattern = ".skeleton-tmp-*"

// AtomicWriter is implemented by filesystems with a native atomic replace.
// WriteFileAtomic prefers it over the generic temp file + rename sequence.
type AtomicWriter interface {
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
}

// WriteFileAtomic writes data to path atomically using a temp file + rename.
// The temp file is created in the same directory as path to ensure atomic rename on POSIX.
// If the operation fails, the original file (if any) is left unchanged.
// The caller must ensure the parent directory exists.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	if aw, ok := fsys.(AtomicWriter); ok {
		return aw.WriteFileAtomic(path, data, perm)
	}

	tmpPath, w, err := fsys.CreateTemp(filepath.Dir(path), TempPattern)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			fsys.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
