// Package commands implements skeleton CLI commands.
package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/NielsdaWheelz/skeleton/internal/config"
	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
	"github.com/NielsdaWheelz/skeleton/internal/manifest"
	"github.com/NielsdaWheelz/skeleton/internal/render"
	"github.com/NielsdaWheelz/skeleton/internal/scaffold"
)

// SourceOpts selects the config files and manifest shared by all commands.
type SourceOpts struct {
	// UserConfig is loaded first and may be missing.
	UserConfig string
	// ConfigPath is the --config file. It must exist when set.
	ConfigPath string
	// Manifest overrides the configured manifest. Relative to cwd.
	Manifest string
}

// MaterializeOpts holds options for the root command.
type MaterializeOpts struct {
	SourceOpts

	// Root overrides the configured root. Relative to cwd.
	Root string

	// Boolean flags can only switch a behavior on; config may also enable it.
	Atomic    bool
	DryRun    bool
	Gitignore bool
	JSON      bool
}

// Materialize implements `skeleton`.
// Loads config, resolves root and manifest, writes the scaffold and prints
// a summary. A filesystem failure returns E_IO with the failing path.
func Materialize(ctx context.Context, fsys fs.FS, cwd string, opts MaterializeOpts, stdout io.Writer) error {
	log := zerolog.Ctx(ctx)

	cfg, err := loadConfig(fsys, opts.SourceOpts)
	if err != nil {
		return err
	}

	root := cwd
	switch {
	case opts.Root != "":
		root = absFrom(cwd, opts.Root)
	case cfg.Root != "":
		root = absFrom(cwd, cfg.Root)
	}

	m, err := loadManifest(fsys, cwd, opts.Manifest, cfg)
	if err != nil {
		return err
	}

	sopts := scaffold.Options{
		DirMode:  cfg.DirMode,
		FileMode: cfg.FileMode,
		Atomic:   opts.Atomic || cfg.Atomic,
		DryRun:   opts.DryRun,
		Logger:   log.With().Str("root", root).Logger(),
	}
	log.Debug().
		Str("root", root).
		Str("manifest", m.Name).
		Bool("atomic", sopts.Atomic).
		Bool("dry_run", sopts.DryRun).
		Msg("materializing")

	res, err := scaffold.Materialize(fsys, root, m, sopts)
	if err != nil {
		return ioFailure(root, err)
	}

	gitignoreState := scaffold.GitignoreSkipped
	if (opts.Gitignore || cfg.Gitignore) && !opts.DryRun {
		gitignorePath := filepath.Join(root, ".gitignore")
		gitignoreState, err = scaffold.EnsureGitignore(fsys, gitignorePath, scaffold.DefaultIgnoreEntries...)
		if err != nil {
			return errors.WrapIO("failed to update .gitignore", err, root, ".gitignore")
		}
	}

	summary := render.Summary{
		Root:             root,
		Manifest:         m.Name,
		DryRun:           res.DryRun,
		DirsCreated:      res.DirsCreated,
		DirsExisting:     res.DirsExisting,
		FilesCreated:     res.FilesCreated,
		FilesOverwritten: res.FilesOverwritten,
		Gitignore:        string(gitignoreState),
	}
	if opts.JSON {
		if err := render.WriteSummaryJSON(stdout, summary); err != nil {
			return errors.Wrap(errors.EInternal, "failed to write json output", err)
		}
		return nil
	}
	render.WriteSummaryHuman(stdout, summary)
	return nil
}

// ioFailure converts a scaffold error into E_IO, keeping the failing path.
func ioFailure(root string, err error) error {
	var relPath string
	var ioErr *scaffold.IOError
	if errors.As(err, &ioErr) {
		relPath = ioErr.Path
	}
	return errors.WrapIO("materialize failed", err, root, relPath)
}

func loadConfig(fsys fs.FS, opts SourceOpts) (config.Config, error) {
	return config.Load(fsys,
		config.Source{Path: opts.UserConfig, Optional: true},
		config.Source{Path: opts.ConfigPath},
	)
}

// loadManifest returns the flag manifest, else the configured one, else
// the built-in manifest. The result is validated.
func loadManifest(fsys fs.FS, cwd, flagPath string, cfg config.Config) (manifest.Manifest, error) {
	path := cfg.Manifest
	if flagPath != "" {
		path = flagPath
	}

	m := manifest.Builtin()
	if path != "" {
		var err error
		m, err = manifest.Load(fsys, absFrom(cwd, path))
		if err != nil {
			return manifest.Manifest{}, err
		}
	}
	if err := m.Validate(); err != nil {
		return manifest.Manifest{}, err
	}
	return m, nil
}

func absFrom(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}
