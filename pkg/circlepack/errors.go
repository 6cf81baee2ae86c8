package circlepack

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a readable xlsx or csv file.
var ErrInvalidFormat = errors.New("invalid spreadsheet format")

// ErrSheetConflict indicates that one workbook was given for both inputs
// without a second table sheet to hold the assignments.
var ErrSheetConflict = errors.New("organization and assignment sheets resolve to the same sheet")

// ErrNoData indicates that input parsed but yielded no circles.
var ErrNoData = errors.New("no valid organizational data")

// ExtractionError represents an error while reading one input sheet.
type ExtractionError struct {
	SheetName string
	Component string // "organization", "assignments"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
