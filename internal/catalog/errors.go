package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileUnreadable marks I/O and decompression failures while reading
	// a catalog file.
	ErrFileUnreadable = errors.New("file unreadable")
	// ErrCatalogCorrupt marks structurally invalid catalog data: malformed
	// JSON, a missing catalog array, or an unrecognized container.
	ErrCatalogCorrupt = errors.New("catalog corrupt")
)

// FileError records a recoverable per-file load failure.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// LoadReport aggregates the per-file errors of one Load call. A report with
// no errors is not returned at all.
type LoadReport struct {
	Errors []*FileError
}

func (r *LoadReport) Error() string {
	if len(r.Errors) == 1 {
		return "load catalog: " + r.Errors[0].Error()
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("load catalog: %d files failed: %s", len(r.Errors), strings.Join(parts, "; "))
}

func (r *LoadReport) Unwrap() []error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errs
}
