package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned when a query arrives before any dataset has ever
// been loaded successfully.
var ErrNotLoaded = errors.New("no dataset loaded")

// ErrNotSpreadsheet rejects replacement sources whose name does not carry
// the expected spreadsheet extension.
var ErrNotSpreadsheet = errors.New("source is not an .xlsx spreadsheet")

// MissingColumnsError reports required columns absent from a source header.
// Columns is sorted so the error text is deterministic.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// UnreadableSourceError wraps a failure to parse the source bytes as a table
// at all.
type UnreadableSourceError struct {
	Err error
}

func (e *UnreadableSourceError) Error() string {
	return fmt.Sprintf("unreadable source: %v", e.Err)
}

func (e *UnreadableSourceError) Unwrap() error { return e.Err }
