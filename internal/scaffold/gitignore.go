package scaffold

import (
	iofs "io/fs"
	"strings"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
)

// DefaultIgnoreEntries keeps deployment metadata and installed packages of
// the generated project out of version control.
var DefaultIgnoreEntries = []string{".vercel/", "node_modules/"}

// GitignoreResult indicates what happened to .gitignore.
type GitignoreResult string

const (
	GitignoreCreated   GitignoreResult = "created"
	GitignoreUpdated   GitignoreResult = "updated"
	GitignoreUnchanged GitignoreResult = "unchanged"
	GitignoreSkipped   GitignoreResult = "skipped"
)

// EnsureGitignore ensures each entry has a line in the .gitignore at path.
// Creates the file if missing. Does not add duplicate entries; "dir/" and
// "dir" are treated as the same entry. Ensures the file ends with a newline.
func EnsureGitignore(fsys fs.FS, path string, entries ...string) (GitignoreResult, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		if !errors.Is(err, iofs.ErrNotExist) {
			return "", err
		}
		newContent := strings.Join(entries, "\n") + "\n"
		if err := fsys.WriteFile(path, []byte(newContent), 0o644); err != nil {
			return "", err
		}
		return GitignoreCreated, nil
	}

	newContent := string(content)
	if len(newContent) > 0 && !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}
	for _, entry := range entries {
		if !hasEntry(newContent, entry) {
			newContent += entry + "\n"
		}
	}

	if newContent == string(content) {
		return GitignoreUnchanged, nil
	}
	if err := fsys.WriteFile(path, []byte(newContent), 0o644); err != nil {
		return "", err
	}
	return GitignoreUpdated, nil
}

func hasEntry(content, entry string) bool {
	want := strings.TrimSuffix(entry, "/")
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSuffix(strings.TrimSpace(line), "/") == want {
			return true
		}
	}
	return false
}
