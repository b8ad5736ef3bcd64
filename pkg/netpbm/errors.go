package netpbm

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrMalformedNumber indicates a numeric token that is empty, contains a
	// non-digit byte, or does not fit the destination type.
	ErrMalformedNumber = errors.New("netpbm: malformed number")

	// ErrIncompleteHeader indicates the input ended before all header fields were read.
	ErrIncompleteHeader = errors.New("netpbm: incomplete header")

	// ErrUnsupportedFormat indicates a magic number that is not one of P1..P7.
	ErrUnsupportedFormat = errors.New("netpbm: unsupported format")

	// ErrNotImplemented indicates a recognized format with no body decoder.
	ErrNotImplemented = errors.New("netpbm: format not implemented")

	// ErrTruncatedData indicates a body holding fewer samples than the header declares.
	ErrTruncatedData = errors.New("netpbm: truncated data")

	// ErrInvalidHeader indicates header values that are well formed but unusable,
	// such as a zero max value or dimensions above the configured limit.
	ErrInvalidHeader = errors.New("netpbm: invalid header")
)

// FormatError provides detailed information about a decoding error.
type FormatError struct {
	Offset int    // Byte offset of the token or body that failed
	Reason string // Human-readable explanation
	Err    error  // One of the sentinel errors above
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(sentinel error, offset int, format string, args ...any) error {
	return &FormatError{
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}
