package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline sequencing.
var (
	// ErrRecordNotFound means no record exists for the document identity.
	ErrRecordNotFound = errors.New("document record not found")

	// ErrStageOrder means a stage ran before its predecessor produced a
	// successful result for the same document identity.
	ErrStageOrder = errors.New("stage executed out of order")
)

// DocumentFormatError means the ingested bytes are not a readable document.
// Fatal to the redaction call; no partial artifact is persisted.
type DocumentFormatError struct {
	Filename string
	Err      error
}

func (e *DocumentFormatError) Error() string {
	return fmt.Sprintf("unreadable document %q: %v", e.Filename, e.Err)
}

func (e *DocumentFormatError) Unwrap() error { return e.Err }

// ExtractionFormatError means the reasoning backend response did not match
// the expected three-field JSON shape. Fatal to the extraction call; no
// automatic retry or repair.
type ExtractionFormatError struct {
	Raw string // response text, for diagnostics
	Err error
}

func (e *ExtractionFormatError) Error() string {
	return fmt.Sprintf("malformed extraction response: %v", e.Err)
}

func (e *ExtractionFormatError) Unwrap() error { return e.Err }

// CoordinateParseError means non-numeric coordinates reached verification.
type CoordinateParseError struct {
	Axis  string // "latitude" or "longitude"
	Value string
}

func (e *CoordinateParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q as a decimal", e.Axis, e.Value)
}

// BackendError wraps an unexpected failure from an external call. The
// verification boundary converts it into a structured ERROR result instead
// of aborting the pipeline.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
