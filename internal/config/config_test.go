package config

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want Config
	}{
		{
			name: "empty",
			want: Default(),
		},
		{
			name: "all keys",
			toml: `
root = "site"
manifest = "templates/worldfund.txtar"
atomic = true
gitignore = true
dir_mode = "0750"
file_mode = "0640"
`,
			want: Config{
				Root:      "site",
				Manifest:  "templates/worldfund.txtar",
				Atomic:    true,
				Gitignore: true,
				DirMode:   0o750,
				FileMode:  0o640,
			},
		},
		{
			name: "integer modes",
			toml: "dir_mode = 0o700\nfile_mode = 0o600\n",
			want: Config{DirMode: 0o700, FileMode: 0o600},
		},
	}

	c := qt.New(t)
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			got, err := Parse([]byte(tt.toml))
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		wantMsg string
	}{
		{"bad toml", "root = ", "invalid toml"},
		{"unknown key", "rot = \"x\"", `unknown config key "rot"`},
		{"nested unknown key", "[paths]\nroot = \"x\"", `unknown config key "paths.root"`},
		{"non-octal mode", `dir_mode = "rwxr-xr-x"`, "dir_mode must be an octal mode"},
		{"mode out of range", `file_mode = "1777"`, "file_mode 01777 has bits outside 0777"},
		{"mode of wrong type", `file_mode = true`, "file_mode must be a string or integer"},
		{"read-only files", `file_mode = "0444"`, "file_mode: 0444 must grant the owner write"},
		{"unsearchable dirs", `dir_mode = "0600"`, "dir_mode: 0600 must grant the owner write and search"},
	}

	c := qt.New(t)
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := Parse([]byte(tt.toml))
			c.Assert(errors.GetCode(err), qt.Equals, errors.EInvalidConfig)
			ce, _ := errors.AsCodedError(err)
			c.Assert(ce.Msg, qt.Contains, tt.wantMsg)
		})
	}
}

func TestLoad_MergesInOrder(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	user := filepath.Join(dir, "user", "config.toml")
	project := filepath.Join(dir, "project", "skeleton.toml")
	writeFile(c, user, "atomic = true\nfile_mode = \"0600\"\nroot = \"/abs/site\"\n")
	writeFile(c, project, "file_mode = \"0640\"\nmanifest = \"tmpl/app.txtar\"\n")

	cfg, err := Load(fs.NewRealFS(),
		Source{Path: user, Optional: true},
		Source{Path: project},
	)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Config{
		Root:     "/abs/site",
		Manifest: filepath.Join(dir, "project", "tmpl", "app.txtar"),
		Atomic:   true,
		DirMode:  0o755,
		FileMode: 0o640,
	})
}

func TestLoad_MissingFiles(t *testing.T) {
	c := qt.New(t)
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(fs.NewRealFS(), Source{Path: missing, Optional: true}, Source{})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Default())

	_, err = Load(fs.NewRealFS(), Source{Path: missing})
	c.Assert(errors.GetCode(err), qt.Equals, errors.EInvalidConfig)
	ce, _ := errors.AsCodedError(err)
	c.Assert(ce.Details["path"], qt.Equals, missing)
}

func TestLoad_InvalidFileReportsPath(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "skeleton.toml")
	writeFile(c, path, "bogus = 1\n")

	_, err := Load(fs.NewRealFS(), Source{Path: path})
	ce, ok := errors.AsCodedError(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ce.Code, qt.Equals, errors.EInvalidConfig)
	c.Assert(ce.Details["path"], qt.Equals, path)
}

func writeFile(c *qt.C, path, content string) {
	c.Helper()
	c.Assert(os.MkdirAll(filepath.Dir(path), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
}
