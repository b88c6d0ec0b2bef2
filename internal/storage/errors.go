package storage

import "errors"

// ErrPermission marks an output file that could not be created or written.
// Use errors.As with *PermissionError for the path.
var ErrPermission = errors.New("output file could not be created or written to")

// PermissionError wraps the filesystem error behind ErrPermission.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return "Output file " + e.Path + " could not be created or written to."
}

func (e *PermissionError) Unwrap() []error { return []error{ErrPermission, e.Err} }
