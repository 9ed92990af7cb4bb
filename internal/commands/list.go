package commands

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
	"github.com/NielsdaWheelz/skeleton/internal/render"
)

// ListOpts holds options for the list command.
type ListOpts struct {
	SourceOpts
	JSON bool
}

// List implements `skeleton list`.
// Prints the manifest's directories, then its files, in manifest order.
// Nothing under the root is read or written.
func List(ctx context.Context, fsys fs.FS, cwd string, opts ListOpts, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts.SourceOpts)
	if err != nil {
		return err
	}
	m, err := loadManifest(fsys, cwd, opts.Manifest, cfg)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().
		Str("manifest", m.Name).
		Int("dirs", len(m.Dirs)).
		Int("files", len(m.Files)).
		Msg("listing manifest")

	entries := make([]render.Entry, 0, len(m.Dirs)+len(m.Files))
	for _, d := range m.Dirs {
		entries = append(entries, render.Entry{Path: d, Dir: true})
	}
	for _, f := range m.Files {
		entries = append(entries, render.Entry{Path: f.Path, Bytes: len(f.Content)})
	}

	if opts.JSON {
		err = render.WriteListJSON(stdout, entries)
	} else {
		err = render.WriteListHuman(stdout, entries)
	}
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to write output", err)
	}
	return nil
}
