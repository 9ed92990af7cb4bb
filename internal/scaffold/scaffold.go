// Package scaffold materializes a manifest of directories and files onto a
// filesystem root.
//
// Materialization is two sequential phases: every directory, then every
// file. Each step is idempotent (existing directories are left alone,
// existing files are overwritten), so a run that fails partway can simply
// be repeated. Nothing is rolled back.
package scaffold

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
	"github.com/NielsdaWheelz/skeleton/internal/manifest"
)

// Operations reported in IOError.Op.
const (
	OpMkdir = "mkdir"
	OpStat  = "stat"
	OpWrite = "write"
)

// IOError reports the manifest path at which materialization stopped.
type IOError struct {
	Op   string
	Path string // slash-separated, relative to the root
	Err  error  // underlying OS error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Options controls how a manifest is written.
type Options struct {
	DirMode  os.FileMode
	FileMode os.FileMode
	// Atomic replaces each file via a temp file and rename.
	Atomic bool
	// DryRun reports what would change without touching the filesystem.
	DryRun bool
	Logger zerolog.Logger
}

// DefaultOptions returns 0755 directories, 0644 files, plain writes and a
// disabled logger.
func DefaultOptions() Options {
	return Options{
		DirMode:  0o755,
		FileMode: 0o644,
		Logger:   zerolog.Nop(),
	}
}

// Result lists the manifest paths touched by a run, in manifest order.
type Result struct {
	DirsCreated      []string
	DirsExisting     []string
	FilesCreated     []string
	FilesOverwritten []string
	DryRun           bool
}

// FilesWritten returns the number of files created or overwritten.
func (r Result) FilesWritten() int {
	return len(r.FilesCreated) + len(r.FilesOverwritten)
}

// Materialize ensures m.Dirs exist and then writes m.Files under root.
// It stops at the first failure and returns an *IOError naming the path;
// the returned Result still lists everything done before that point.
func Materialize(fsys fs.FS, root string, m manifest.Manifest, opts Options) (Result, error) {
	r := newRun(fsys, root, opts)
	if err := r.ensureDirectories(m.Dirs); err != nil {
		return r.res, err
	}
	err := r.writeFiles(m.Files)
	return r.res, err
}

// EnsureDirectories creates each directory and any missing ancestors.
// A directory that already exists is not an error; a path component that
// exists as a regular file is.
func EnsureDirectories(fsys fs.FS, root string, dirs []string, opts Options) (Result, error) {
	r := newRun(fsys, root, opts)
	err := r.ensureDirectories(dirs)
	return r.res, err
}

// WriteFiles writes each file's content, truncating any existing file.
// Missing parent directories are created first; those show up in
// Result.DirsCreated. A root-level file skips directory creation.
func WriteFiles(fsys fs.FS, root string, files []manifest.File, opts Options) (Result, error) {
	r := newRun(fsys, root, opts)
	err := r.writeFiles(files)
	return r.res, err
}

// run carries the state of one materialization across both phases.
type run struct {
	fsys fs.FS
	root string
	opts Options
	res  Result
	// planned holds directories a dry run would have created.
	planned map[string]bool
}

func newRun(fsys fs.FS, root string, opts Options) *run {
	return &run{
		fsys:    fsys,
		root:    root,
		opts:    opts,
		res:     Result{DryRun: opts.DryRun},
		planned: make(map[string]bool),
	}
}

func (r *run) ensureDirectories(dirs []string) error {
	for _, dir := range dirs {
		created, err := r.ensureDir(dir)
		if err != nil {
			return err
		}
		if created {
			r.res.DirsCreated = append(r.res.DirsCreated, dir)
		} else {
			r.res.DirsExisting = append(r.res.DirsExisting, dir)
		}
	}
	return nil
}

func (r *run) writeFiles(files []manifest.File) error {
	for _, f := range files {
		if parent := path.Dir(f.Path); parent != "." {
			created, err := r.ensureDir(parent)
			if err != nil {
				return err
			}
			if created {
				r.res.DirsCreated = append(r.res.DirsCreated, parent)
			}
		}

		existed, err := r.writeFile(f)
		if err != nil {
			return err
		}
		if existed {
			r.res.FilesOverwritten = append(r.res.FilesOverwritten, f.Path)
		} else {
			r.res.FilesCreated = append(r.res.FilesCreated, f.Path)
		}
	}
	return nil
}

// ensureDir reports whether rel did not exist before the call.
func (r *run) ensureDir(rel string) (bool, error) {
	if r.planned[rel] {
		return false, nil
	}
	abs := filepath.Join(r.root, filepath.FromSlash(rel))
	info, err := r.fsys.Stat(abs)
	if err == nil && info.IsDir() {
		r.opts.Logger.Trace().Str("path", rel).Msg("directory exists")
		return false, nil
	}
	if r.opts.DryRun {
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return false, &IOError{Op: OpStat, Path: rel, Err: err}
		}
		if err == nil {
			return false, &IOError{Op: OpMkdir, Path: rel, Err: errNotDir(abs)}
		}
		// MkdirAll would create the ancestors as well.
		for p := rel; p != "."; p = path.Dir(p) {
			r.planned[p] = true
		}
		return true, nil
	}
	if err := r.fsys.MkdirAll(abs, r.opts.DirMode); err != nil {
		return false, &IOError{Op: OpMkdir, Path: rel, Err: err}
	}
	r.opts.Logger.Debug().Str("path", rel).Msg("created directory")
	return true, nil
}

// writeFile reports whether a file was already present at f.Path.
func (r *run) writeFile(f manifest.File) (bool, error) {
	abs := filepath.Join(r.root, filepath.FromSlash(f.Path))
	info, statErr := r.fsys.Stat(abs)
	existed := statErr == nil

	if r.opts.DryRun {
		if statErr != nil && !errors.Is(statErr, iofs.ErrNotExist) {
			return false, &IOError{Op: OpStat, Path: f.Path, Err: statErr}
		}
		if existed && info.IsDir() {
			return false, &IOError{Op: OpWrite, Path: f.Path, Err: errIsDir(abs)}
		}
		return existed, nil
	}

	var err error
	if r.opts.Atomic {
		err = fs.WriteFileAtomic(r.fsys, abs, f.Content, r.opts.FileMode)
	} else {
		err = r.fsys.WriteFile(abs, f.Content, r.opts.FileMode)
	}
	if err != nil {
		return false, &IOError{Op: OpWrite, Path: f.Path, Err: err}
	}
	r.opts.Logger.Debug().
		Str("path", f.Path).
		Int("bytes", len(f.Content)).
		Bool("overwritten", existed).
		Msg("wrote file")
	return existed, nil
}

// errNotDir and errIsDir mirror what MkdirAll and WriteFile report, so a
// dry run fails where a real run would.
func errNotDir(abs string) error {
	return &iofs.PathError{Op: OpMkdir, Path: abs, Err: syscall.ENOTDIR}
}

func errIsDir(abs string) error {
	return &iofs.PathError{Op: "open", Path: abs, Err: syscall.EISDIR}
}
