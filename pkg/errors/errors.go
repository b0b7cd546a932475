// Package errors gives recipetable failures a stable code.
//
// The CLI prints the message and the server maps the code to an HTTP status,
// so both surfaces agree on what went wrong:
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", f)
//	errors.Is(err, errors.ErrCodeInvalidFormat) // true
//
//	err = errors.Wrap(errors.ErrCodeParse, cause, "parse %s", path)
//
// Codes named INVALID_* reject input, *_NOT_FOUND name a missing resource,
// and PARSE_ERROR or INVALID_RECIPE blame the recipe source. Everything else
// is an infrastructure fault.
//
// A compiler pass that finds several problems collects them with [Append]
// and callers unpack them with [List].
package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable part of an [Error].
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidOption  Code = "INVALID_OPTION"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeSourceTooLarge Code = "SOURCE_TOO_LARGE"

	ErrCodeParse         Code = "PARSE_ERROR"
	ErrCodeInvalidRecipe Code = "INVALID_RECIPE"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"

	ErrCodeCache       Code = "CACHE_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a code, a message meant for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error that keeps cause reachable through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coded finds the outermost *Error in err's chain.
func coded(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	if e, ok := coded(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage drops the code prefix and cause from coded errors. Other
// errors are returned as their plain text.
func UserMessage(err error) string {
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}
