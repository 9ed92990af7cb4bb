// Package render provides output formatting for skeleton commands.
package render

import (
	"encoding/json"
	"io"
)

// SchemaVersion is the version of every JSON envelope written by this package.
const SchemaVersion = "1.0"

// Summary describes one materialization run (both human and JSON).
// This is the public contract for --json output.
type Summary struct {
	// Root is the absolute directory the manifest was written into.
	Root string `json:"root"`

	// Manifest is "worldfund" for the built-in manifest, else the file path.
	Manifest string `json:"manifest"`

	// DryRun is true if nothing was written.
	DryRun bool `json:"dry_run"`

	DirsCreated      []string `json:"dirs_created"`
	DirsExisting     []string `json:"dirs_existing"`
	FilesCreated     []string `json:"files_created"`
	FilesOverwritten []string `json:"files_overwritten"`

	// Gitignore is the .gitignore outcome ("skipped" unless requested).
	Gitignore string `json:"gitignore"`
}

// Entry is one manifest entry in list output.
type Entry struct {
	Path  string `json:"path"`
	Dir   bool   `json:"dir"`
	Bytes int    `json:"bytes"`
}

type envelope struct {
	SchemaVersion string `json:"schema_version"`
	Data          any    `json:"data"`
}

// WriteSummaryJSON writes the materialize output as JSON to the given writer.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	// Use empty slices so every list is a JSON array
	s.DirsCreated = nonNil(s.DirsCreated)
	s.DirsExisting = nonNil(s.DirsExisting)
	s.FilesCreated = nonNil(s.FilesCreated)
	s.FilesOverwritten = nonNil(s.FilesOverwritten)
	return writeJSON(w, s)
}

// WriteListJSON writes the list output as JSON to the given writer.
func WriteListJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	return writeJSON(w, entries)
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope{SchemaVersion: SchemaVersion, Data: data})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
