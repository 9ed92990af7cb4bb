package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
	"github.com/NielsdaWheelz/skeleton/internal/render"
)

func TestList_Builtin(t *testing.T) {
	c := qt.New(t)
	cwd := c.TempDir()

	var stdout bytes.Buffer
	err := List(context.Background(), fs.NewRealFS(), cwd, ListOpts{SourceOpts: noUserConfig(c)}, &stdout)
	c.Assert(err, qt.IsNil)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	c.Assert(lines, qt.HasLen, 1+10+21)
	c.Assert(strings.Fields(lines[0]), qt.DeepEquals, []string{"TYPE", "BYTES", "PATH"})
	c.Assert(strings.Fields(lines[1]), qt.DeepEquals, []string{"dir", "-", "configs/linting/"})
	c.Assert(strings.Fields(lines[len(lines)-1])[2], qt.Equals, "README.md")
}

func TestList_JSON(t *testing.T) {
	c := qt.New(t)
	cwd := c.TempDir()
	writeFile(c, filepath.Join(cwd, "m.txtar"), "-- lib/ --\n-- lib/x.go --\npackage x\n")

	opts := ListOpts{SourceOpts: noUserConfig(c), JSON: true}
	opts.Manifest = "m.txtar"

	var stdout bytes.Buffer
	err := List(context.Background(), fs.NewRealFS(), cwd, opts, &stdout)
	c.Assert(err, qt.IsNil)

	var env struct {
		Data []render.Entry `json:"data"`
	}
	c.Assert(json.Unmarshal(stdout.Bytes(), &env), qt.IsNil)
	c.Assert(env.Data, qt.DeepEquals, []render.Entry{
		{Path: "lib", Dir: true},
		{Path: "lib/x.go", Bytes: len("package x\n")},
	})
}

func TestList_InvalidManifest(t *testing.T) {
	c := qt.New(t)
	cwd := c.TempDir()
	writeFile(c, filepath.Join(cwd, "m.txtar"), "-- a.txt --\n-- a.txt --\n")

	opts := ListOpts{SourceOpts: noUserConfig(c)}
	opts.Manifest = "m.txtar"

	var stdout bytes.Buffer
	err := List(context.Background(), fs.NewRealFS(), cwd, opts, &stdout)
	c.Assert(errors.GetCode(err), qt.Equals, errors.EInvalidManifest)
	c.Assert(stdout.Len(), qt.Equals, 0)
}
