package loader

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("input file not found")
	ErrBadArchive      = errors.New("not a valid zip file")
	ErrUnsupportedType = errors.New("unsupported file type inside zip")
	ErrEmptyArchive    = errors.New("zip archive has no files")
	ErrNoStrategy      = errors.New("no file handling strategy has been set")
)

// Message renders err as the operator-facing line logged by Handler.
func Message(path string, err error) string {
	var ut *UnsupportedTypeError
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Input file %s not found.", path)
	case errors.Is(err, ErrBadArchive):
		return fmt.Sprintf("Input file %s is not a valid zip file.", path)
	case errors.As(err, &ut):
		return fmt.Sprintf("Unsupported file type inside zip: %s", ut.Ext)
	case errors.Is(err, ErrEmptyArchive):
		return fmt.Sprintf("Input file %s contains no files.", path)
	case errors.Is(err, ErrNoStrategy):
		return "No file handling strategy has been set."
	default:
		return fmt.Sprintf("Could not load %s: %v", path, err)
	}
}

// UnsupportedTypeError names the extension of an archive entry no strategy
// can read.
type UnsupportedTypeError struct {
	Entry string
	Ext   string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: %q (%s)", ErrUnsupportedType, e.Ext, e.Entry)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }
