package cleaning

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrCompositeKey marks a composite key that does not split into exactly
	// four fields. Use errors.As with *CompositeKeyError for details.
	ErrCompositeKey = errors.New("malformed composite key")

	// ErrMalformedYear marks a year label that is not an integer.
	ErrMalformedYear = errors.New("malformed year")

	// ErrNumericMismatch is returned when the numeric pattern matched a cell
	// but the matched text could not be parsed as a finite float.
	ErrNumericMismatch = errors.New("numeric extraction mismatch")

	// ErrUnknownRegion is returned in strict mode for a code outside the
	// whitelist. Use errors.As with *RegionError for the available codes.
	ErrUnknownRegion = errors.New("region not recognized")

	// ErrEmptyResult is returned in strict mode when no observation survives
	// the region filter and missing-value drop.
	ErrEmptyResult = errors.New("no data for region")
)

// CompositeKeyError describes a composite key cell that violates the
// four-field precondition.
type CompositeKeyError struct {
	Row   int
	Value any
	Parts int
}

func (e *CompositeKeyError) Error() string {
	return fmt.Sprintf("row %d: composite key %q has %d fields, want %d",
		e.Row, fmt.Sprint(e.Value), e.Parts, len(IdentityColumns))
}

func (e *CompositeKeyError) Unwrap() error { return ErrCompositeKey }

// YearError describes a year label that could not be read as an integer.
type YearError struct {
	Label string
	Err   error
}

func (e *YearError) Error() string {
	return fmt.Sprintf("year %q: %v", e.Label, e.Err)
}

func (e *YearError) Unwrap() []error { return []error{ErrMalformedYear, e.Err} }

// RegionError reports a requested region that is not whitelisted together
// with the whitelisted codes the source actually contains.
type RegionError struct {
	Region    string
	Available []string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %q not recognized; available regions: %s",
		e.Region, strings.Join(e.Available, ", "))
}

func (e *RegionError) Unwrap() error { return ErrUnknownRegion }
