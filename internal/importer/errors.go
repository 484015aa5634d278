package importer

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("column mapped twice")
	ErrInvalidValue    = errors.New("invalid value")
	ErrVehicleConflict = errors.New("vehicle id reused with different attributes")
	ErrDuplicateRental = errors.New("duplicate rental id")
	ErrSchemaNotEmpty  = errors.New("rental schema already holds data")
)

// RowError locates a rejected value in the source file. Line is 1-based
// and counts the header.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
