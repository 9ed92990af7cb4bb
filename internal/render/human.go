package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

// CompletionMessage is printed after a successful run.
const CompletionMessage = "Project structure created successfully."

// WriteSummaryHuman writes the stable key: value output for a run, followed
// by the completion message.
func WriteSummaryHuman(w io.Writer, s Summary) {
	fmt.Fprintf(w, "root: %s\n", s.Root)
	fmt.Fprintf(w, "manifest: %s\n", s.Manifest)
	fmt.Fprintf(w, "dirs_created: %d\n", len(s.DirsCreated))
	fmt.Fprintf(w, "dirs_existing: %d\n", len(s.DirsExisting))
	fmt.Fprintf(w, "files_created: %d\n", len(s.FilesCreated))
	fmt.Fprintf(w, "files_overwritten: %d\n", len(s.FilesOverwritten))
	fmt.Fprintf(w, "gitignore: %s\n", s.Gitignore)

	if s.DryRun {
		color.New(color.Faint).Fprintln(w, "dry run: nothing was written")
		return
	}
	color.New(color.FgGreen).Fprintln(w, CompletionMessage)
}

// WriteListHuman writes manifest entries as aligned TYPE, BYTES, PATH columns.
func WriteListHuman(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	bytesW := len("BYTES")
	for _, e := range entries {
		if n := len(strconv.Itoa(e.Bytes)); n > bytesW {
			bytesW = n
		}
	}

	if _, err := fmt.Fprintf(w, "%-4s  %*s  %s\n", "TYPE", bytesW, "BYTES", "PATH"); err != nil {
		return err
	}
	for _, e := range entries {
		kind, size, path := "file", strconv.Itoa(e.Bytes), e.Path
		if e.Dir {
			kind, size, path = "dir", "-", e.Path+"/"
		}
		if _, err := fmt.Fprintf(w, "%-4s  %*s  %s\n", kind, bytesW, size, path); err != nil {
			return err
		}
	}
	return nil
}
