package errors

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorFormat(t *testing.T) {
	c := qt.New(t)

	c.Assert(New(EUsage, "x").Error(), qt.Equals, "E_USAGE: x")

	cause := errors.New("underlying")
	err := Wrap(EIO, "write failed", cause)
	c.Assert(err.Error(), qt.Equals, "E_IO: write failed")
	c.Assert(errors.Is(err, cause), qt.IsTrue)
}

func TestWrapPreservesOSError(t *testing.T) {
	c := qt.New(t)

	pathErr := &fs.PathError{Op: "open", Path: "a/b.txt", Err: fs.ErrPermission}
	err := WrapWithDetails(EIO, "cannot write file", pathErr, map[string]string{"path": "a/b.txt"})

	c.Assert(errors.Is(err, fs.ErrPermission), qt.IsTrue)
	var got *fs.PathError
	c.Assert(errors.As(err, &got), qt.IsTrue)
	c.Assert(got.Path, qt.Equals, "a/b.txt")
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil error", nil, ""},
		{"coded error", New(EUsage, "x"), EUsage},
		{"wrapped coded error", Wrap(EInvalidManifest, "y", errors.New("z")), EInvalidManifest},
		{"plain error", errors.New("plain"), ""},
	}

	c := qt.New(t)
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(GetCode(tt.err), qt.Equals, tt.want)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"E_USAGE", New(EUsage, "x"), 2},
		{"E_IO", New(EIO, "x"), 1},
		{"plain error", errors.New("x"), 1},
	}

	c := qt.New(t)
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(ExitCode(tt.err), qt.Equals, tt.want)
		})
	}
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "boom\n"},
		{"usage", New(EUsage, "bad args"), "error_code: E_USAGE\nbad args\n"},
		{
			"with cause and details",
			WrapWithDetails(EIO, "cannot write file", errors.New("permission denied"), map[string]string{
				"root": "/tmp/x",
				"path": "src/App.tsx",
			}),
			"error_code: E_IO\ncannot write file: permission denied\npath: src/App.tsx\nroot: /tmp/x\n",
		},
	}

	c := qt.New(t)
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			var buf bytes.Buffer
			Print(&buf, tt.err)
			c.Assert(buf.String(), qt.Equals, tt.want)
		})
	}
}

func TestDetailsAreCopied(t *testing.T) {
	c := qt.New(t)

	details := map[string]string{"path": "a"}
	err := NewWithDetails(EIO, "x", details)
	details["path"] = "modified"

	ce, ok := AsCodedError(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ce.Details["path"], qt.Equals, "a")

	ce, ok = AsCodedError(NewWithDetails(EIO, "x", nil))
	c.Assert(ok, qt.IsTrue)
	c.Assert(ce.Details, qt.IsNil)

	ce, ok = AsCodedError(errors.New("plain"))
	c.Assert(ok, qt.IsFalse)
	c.Assert(ce == nil, qt.IsTrue)
}

func TestWrapIO(t *testing.T) {
	c := qt.New(t)

	cause := &fs.PathError{Op: "open", Path: "/site/src", Err: fs.ErrPermission}
	err := WrapIO("materialize failed", cause, "/site", "src/App.tsx")
	c.Assert(GetCode(err), qt.Equals, EIO)
	c.Assert(ExitCode(err), qt.Equals, 1)
	c.Assert(errors.Is(err, fs.ErrPermission), qt.IsTrue)

	var buf bytes.Buffer
	Print(&buf, err)
	c.Assert(buf.String(), qt.Equals, "error_code: E_IO\n"+
		"materialize failed: open /site/src: permission denied\n"+
		"path: src/App.tsx\n"+
		"root: /site\n")

	ce, ok := AsCodedError(WrapIO("x", cause, "/site", ""))
	c.Assert(ok, qt.IsTrue)
	c.Assert(ce.Details, qt.DeepEquals, map[string]string{"root": "/site"})
}
