//go:build !windows

package fs

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
)

// WriteFileAtomic replaces path in one rename, so readers never observe a
// partially written file.
func (r *RealFS) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return errors.WithStack(renameio.WriteFile(path, data, perm))
}
