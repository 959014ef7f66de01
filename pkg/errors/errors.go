// Package errors provides the closed set of failures that can occur at the
// image codec boundary.
//
// The filters and the overlay cannot fail. Everything that can go wrong
// (missing input, undecodable bytes, unencodable output, unwritable path) is
// reported as an *Error carrying one of four codes.
//
// # Usage
//
//	r, err := codec.Load(path)
//	if errors.Is(err, errors.ErrCodeInputNotFound) {
//	    // handle missing file
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code names which codec step failed.
type Code string

// The four codec failures. No other codes exist.
const (
	// ErrCodeInputNotFound: the input file could not be opened
	ErrCodeInputNotFound Code = "INPUT_NOT_FOUND"

	// ErrCodeDecodeFailed: the input bytes are not a decodable image
	ErrCodeDecodeFailed Code = "DECODE_FAILED"

	// ErrCodeEncodeFailed: the raster cannot be written in the requested format
	ErrCodeEncodeFailed Code = "ENCODE_FAILED"

	// ErrCodeWriteFailed: the encoded bytes could not be stored at the output path
	ErrCodeWriteFailed Code = "WRITE_FAILED"
)

// Error is a codec failure: which step failed, on what, and the os or
// image package error behind it.
type Error struct {
	Code    Code
	Message string // usually names the file involved
	Cause   error  // nil for failures detected by the codec itself
}

// Error renders "CODE: message" followed by the cause when there is one.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause, so callers can still test for fs.ErrNotExist and the like.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New reports a failure the codec detected on its own, such as an
// unsupported extension.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap reports a failure raised by the file system or an image decoder or
// encoder.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the first *Error in err's chain carries code. Errors
// wrapped further up with fmt.Errorf("%w") still match.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the codec step that failed, or "" when err did not come
// from the codec.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
