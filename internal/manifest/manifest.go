// Package manifest defines the static table of directories and file contents
// that fully determines a scaffold, and its txtar archive encoding.
//
// In an archive, an entry whose name ends in "/" declares a directory and
// must have an empty body. Every other entry is a file whose body is written
// byte for byte. The archive comment is ignored.
package manifest

import (
	_ "embed"
	iofs "io/fs"
	"strings"

	"github.com/rogpeppe/go-internal/txtar"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
)

// BuiltinName is the display name of the built-in manifest.
const BuiltinName = "worldfund"

//go:embed worldfund.txtar
var worldfundArchive []byte

// File is a single FileSpec entry.
type File struct {
	Path    string // slash-separated, relative to the scaffold root
	Content []byte
}

// Manifest is an ordered DirectorySpec plus an ordered FileSpec.
// A Manifest is read-only once built; callers must not mutate Content.
type Manifest struct {
	Name  string
	Dirs  []string
	Files []File
}

// Builtin returns the WorldFund web-project manifest.
func Builtin() Manifest {
	m, err := Parse(BuiltinName, worldfundArchive)
	if err != nil {
		panic("manifest: built-in archive is invalid: " + err.Error())
	}
	return m
}

// Parse decodes a txtar archive into a Manifest.
// Returns E_INVALID_MANIFEST if a directory entry has a body.
// Parse does not run Validate.
func Parse(name string, data []byte) (Manifest, error) {
	ar := txtar.Parse(data)
	m := Manifest{Name: name}
	for _, f := range ar.Files {
		if strings.HasSuffix(f.Name, "/") {
			if len(f.Data) != 0 {
				return Manifest{}, errors.NewWithDetails(errors.EInvalidManifest,
					"directory entry must not have content", map[string]string{"path": f.Name})
			}
			m.Dirs = append(m.Dirs, strings.TrimSuffix(f.Name, "/"))
			continue
		}
		m.Files = append(m.Files, File{Path: f.Name, Content: f.Data})
	}
	return m, nil
}

// Load reads and parses the archive at path.
// Returns E_NO_MANIFEST if the file does not exist.
func Load(fsys fs.FS, path string) (Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return Manifest{}, errors.NewWithDetails(errors.ENoManifest, "manifest not found", map[string]string{"path": path})
		}
		return Manifest{}, errors.WrapWithDetails(errors.ENoManifest, "failed to read manifest", err, map[string]string{"path": path})
	}
	return Parse(path, data)
}

// Format encodes m as a txtar archive that Parse decodes back to m.
// File contents not ending in a newline gain one; every entry in the
// built-in manifest already does.
func Format(m Manifest) []byte {
	ar := &txtar.Archive{}
	for _, d := range m.Dirs {
		ar.Files = append(ar.Files, txtar.File{Name: d + "/"})
	}
	for _, f := range m.Files {
		ar.Files = append(ar.Files, txtar.File{Name: f.Path, Data: f.Content})
	}
	return txtar.Format(ar)
}

// FilePaths returns the FileSpec paths in manifest order.
func (m Manifest) FilePaths() []string {
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		paths[i] = f.Path
	}
	return paths
}
