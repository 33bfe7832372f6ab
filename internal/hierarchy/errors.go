package hierarchy

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader is returned when a sheet has content but no recognizable hierarchy header.
	ErrNoHeader = errors.New("no recognizable hierarchy header")
	// ErrUnsupportedFormat is returned for file types the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument is returned when no sheet of a document contains any data.
	ErrEmptyDocument = errors.New("document contains no data")
)

// DocumentParseError fails a whole document. No chunks are written for it.
type DocumentParseError struct {
	Document string
	Sheet    string
	Reason   string
	Err      error
}

func (e *DocumentParseError) Error() string {
	msg := fmt.Sprintf("failed to parse document %q", e.Document)
	if e.Sheet != "" {
		msg += fmt.Sprintf(" (sheet %q)", e.Sheet)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

// RowWarning reports a single row that was skipped because one of its
// hierarchy labels could not be resolved.
type RowWarning struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("%s row %d: %s %s", w.Sheet, w.Row, w.Column, w.Reason)
}
