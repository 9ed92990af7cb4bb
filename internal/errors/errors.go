// Package errors defines the stable error code system for skeleton.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Code is a stable error code string.
type Code string

// Error codes. Printed on stderr and relied on by scripts wrapping skeleton.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Manifest
	ENoManifest      Code = "E_NO_MANIFEST"
	EInvalidManifest Code = "E_INVALID_MANIFEST"

	// Configuration
	EInvalidConfig Code = "E_INVALID_CONFIG"

	// Filesystem
	EIO Code = "E_IO"
)

// CodedError is the standard error type for skeleton errors.
type CodedError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *CodedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// New creates a new CodedError with the given code and message.
func New(code Code, msg string) error {
	return &CodedError{Code: code, Msg: msg}
}

// NewWithDetails creates a new CodedError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &CodedError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new CodedError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &CodedError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new CodedError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &CodedError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// WrapIO creates an E_IO error for a failure under root. relPath is the
// slash path, relative to root, at which the run stopped; empty if unknown.
func WrapIO(msg string, err error, root, relPath string) error {
	details := map[string]string{"root": root}
	if relPath != "" {
		details["path"] = relPath
	}
	return &CodedError{Code: EIO, Msg: msg, Cause: err, Details: details}
}

// GetCode extracts the error code from an error, or empty string if not a CodedError.
func GetCode(err error) Code {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// AsCodedError returns (*CodedError, true) if err is or wraps a CodedError.
func AsCodedError(err error) (*CodedError, bool) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Is reports whether any error in err's chain matches target (see errors.Is).
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target (see errors.As).
func As(err error, target any) bool {
	return errors.As(err, target)
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//	<key>: <value>   (one line per detail, sorted by key)
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ce *CodedError
	if !errors.As(err, &ce) {
		// Fallback for errors that escaped classification
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintf(w, "error_code: %s\n", ce.Code)
	msg := ce.Msg
	if ce.Cause != nil {
		msg += ": " + ce.Cause.Error()
	}
	fmt.Fprintln(w, msg)

	keys := make([]string, 0, len(ce.Details))
	for k := range ce.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, ce.Details[k])
	}
}
