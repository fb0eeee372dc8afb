package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrDownloadActive is returned when a download starts while another one holds the slot
	ErrDownloadActive = errors.New("a download is already running")

	// ErrTaskInFlight is returned when the same row already runs a task of that kind
	ErrTaskInFlight = errors.New("task already in progress for this file")

	// ErrStaleRow is wrapped by StaleRowError
	ErrStaleRow = errors.New("file no longer exists")

	// ErrRowNotFound is returned for unknown row IDs
	ErrRowNotFound = errors.New("row not found")

	// ErrInvalidURL is returned for download requests without an http(s) URL
	ErrInvalidURL = errors.New("enter a valid http or https URL")

	// ErrNotResumable is returned when resuming a row with no paused or failed download
	ErrNotResumable = errors.New("nothing to resume for this row")
)

// ToolUnavailableError reports a required external binary missing from PATH
type ToolUnavailableError struct {
	Tool string
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s not found, install it and add it to PATH", e.Tool)
}

// StaleRowError reports a row whose backing file disappeared
type StaleRowError struct {
	Path string
}

func (e *StaleRowError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), ErrStaleRow)
}

func (e *StaleRowError) Unwrap() error {
	return ErrStaleRow
}

// FileError pairs a path with the error that kept it on disk
type FileError struct {
	Path string
	Err  error
}

// PartialDeletionError aggregates per-file failures of a group delete.
// Files not listed were deleted (or already missing).
type PartialDeletionError struct {
	Failures []FileError
}

func (e *PartialDeletionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", filepath.Base(f.Path), unwrapPathError(f.Err)))
	}
	return "some files could not be deleted: " + strings.Join(parts, "; ")
}

// Paths returns the paths that could not be deleted
func (e *PartialDeletionError) Paths() []string {
	paths := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		paths = append(paths, f.Path)
	}
	return paths
}

// unwrapPathError drops the path prefix of *fs.PathError messages, the path is printed already
func unwrapPathError(err error) error {
	var pe interface{ Unwrap() error }
	if errors.As(err, &pe) {
		if inner := pe.Unwrap(); inner != nil {
			return inner
		}
	}
	return err
}
