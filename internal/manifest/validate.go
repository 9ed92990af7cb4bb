package manifest

import (
	"fmt"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/tailscale/hujson"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
)

// EntryError describes one invalid manifest entry.
type EntryError struct {
	Path string
	Msg  string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%q: %s", e.Path, e.Msg)
}

// Validate checks every entry and reports all problems at once.
// Returns E_INVALID_MANIFEST wrapping a *multierror.Error of *EntryError.
func (m Manifest) Validate() error {
	var merr *multierror.Error

	dirs := make(map[string]bool, len(m.Dirs))
	for _, d := range m.Dirs {
		if msg := checkPath(d); msg != "" {
			merr = multierror.Append(merr, &EntryError{Path: d, Msg: msg})
		}
		dirs[d] = true
	}

	// parents holds every directory the run creates, declared or implied.
	parents := make(map[string]bool)
	for _, d := range m.Dirs {
		addAncestors(parents, d)
	}
	for _, f := range m.Files {
		addAncestors(parents, path.Dir(f.Path))
	}

	seen := make(map[string]bool, len(m.Files))
	for _, f := range m.Files {
		if msg := checkPath(f.Path); msg != "" {
			merr = multierror.Append(merr, &EntryError{Path: f.Path, Msg: msg})
			continue
		}
		if seen[f.Path] {
			merr = multierror.Append(merr, &EntryError{Path: f.Path, Msg: "duplicate file entry"})
			continue
		}
		seen[f.Path] = true
		if dirs[f.Path] {
			merr = multierror.Append(merr, &EntryError{Path: f.Path, Msg: "declared as both file and directory"})
		} else if parents[f.Path] {
			merr = multierror.Append(merr, &EntryError{Path: f.Path, Msg: "file is the parent directory of another entry"})
		}
		if strings.HasSuffix(f.Path, ".json") {
			if _, err := hujson.Parse(f.Content); err != nil {
				merr = multierror.Append(merr, &EntryError{Path: f.Path, Msg: "invalid json: " + err.Error()})
			}
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return errors.WrapWithDetails(errors.EInvalidManifest, "manifest has invalid entries", err,
			map[string]string{"manifest": m.Name})
	}
	return nil
}

// addAncestors marks dir and each of its parents. Invalid paths are skipped;
// checkPath reports them.
func addAncestors(set map[string]bool, dir string) {
	if checkPath(dir) != "" {
		return
	}
	for p := dir; p != "." && !set[p]; p = path.Dir(p) {
		set[p] = true
	}
}

// checkPath returns a non-empty message if p is not a clean relative slash path.
func checkPath(p string) string {
	switch {
	case p == "" || p == ".":
		return "empty path"
	case strings.Contains(p, `\`):
		return "path must use forward slashes"
	case path.IsAbs(p) || (len(p) >= 2 && p[1] == ':'):
		return "path must be relative"
	case path.Clean(p) != p:
		return "path must be clean"
	case p == ".." || strings.HasPrefix(p, "../"):
		return "path escapes the scaffold root"
	}
	return ""
}
