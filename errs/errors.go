// Package errs defines the sentinel errors and structured error types returned by pcdio.
//
// Every structured error unwraps to one of the sentinels, so callers can branch with
// errors.Is and still extract details (line numbers, field names, sizes) with errors.As:
//
//	var herr *errs.HeaderError
//	if errors.As(err, &herr) {
//	    log.Printf("bad header at line %d: %s", herr.Line, herr.Msg)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader is returned for any header grammar or consistency violation.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrUnsupportedType is returned when a type character and size do not map to a supported element type.
	ErrUnsupportedType = errors.New("unsupported field type")
	// ErrUnsupportedDataFormat is returned for an unknown DATA token.
	ErrUnsupportedDataFormat = errors.New("unsupported data format")
	// ErrInvalidDataFormat is returned for body-level parse failures and missing columns.
	ErrInvalidDataFormat = errors.New("invalid data")
	// ErrDecompression is returned when the compression codec fails or reports an unexpected length.
	ErrDecompression = errors.New("decompression failed")
	// ErrLayoutMismatch is returned for structural size or stride disagreements.
	ErrLayoutMismatch = errors.New("layout mismatch")
	// ErrBufferTooSmall is returned when a supplied buffer cannot hold the declared data.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrBodyConsumed is returned when a streaming reader's point body is read a second time.
	ErrBodyConsumed = errors.New("point body already read")

	// ErrDuplicateColumn is returned when a multi-column request names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrColumnNotFound is returned when a column name is absent from the schema.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidSchema is returned when a store schema is empty-named, duplicated or badly typed.
	ErrInvalidSchema = errors.New("invalid schema")
)

// HeaderError reports a header violation at a 1-based line number.
// Line is 0 for headers assembled in memory (e.g. by a builder).
type HeaderError struct {
	Line int
	Msg  string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid header at line %d: %s", e.Line, e.Msg)
}

func (e *HeaderError) Unwrap() error { return ErrInvalidHeader }

// NewHeaderError creates a HeaderError with a formatted message.
func NewHeaderError(line int, format string, args ...any) *HeaderError {
	return &HeaderError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// LayoutMismatchError reports a disagreement between an expected and an actual size.
// What names the quantity being compared, e.g. "stride*points" or a field name.
type LayoutMismatchError struct {
	What     string
	Expected int
	Got      int
}

func (e *LayoutMismatchError) Error() string {
	if e.What == "" {
		return fmt.Sprintf("layout mismatch: expected %d, got %d", e.Expected, e.Got)
	}

	return fmt.Sprintf("layout mismatch (%s): expected %d, got %d", e.What, e.Expected, e.Got)
}

func (e *LayoutMismatchError) Unwrap() error { return ErrLayoutMismatch }

// BufferTooSmallError reports a buffer shorter than the declared data.
type BufferTooSmallError struct {
	Expected int
	Got      int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("buffer too small: expected %d, got %d", e.Expected, e.Got)
}

func (e *BufferTooSmallError) Unwrap() error { return ErrBufferTooSmall }

// DataError reports a body-level failure. Point is -1 when the failure is not tied to a point.
type DataError struct {
	Point int
	Field string
	Token string
	Msg   string
}

func (e *DataError) Error() string {
	switch {
	case e.Point < 0:
		return fmt.Sprintf("invalid data: field %q: %s", e.Field, e.Msg)
	case e.Token != "":
		return fmt.Sprintf("invalid data: point %d, field %q, token %q: %s", e.Point, e.Field, e.Token, e.Msg)
	default:
		return fmt.Sprintf("invalid data: point %d, field %q: %s", e.Point, e.Field, e.Msg)
	}
}

func (e *DataError) Unwrap() error { return ErrInvalidDataFormat }
