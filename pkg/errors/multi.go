package errors

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Append adds err to reterr, either of which may be nil. The result is nil,
// the single non-nil error, or a *multierror.Error listing both.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// List flattens an error built with Append back into its parts. A non-multi
// error is returned as a single-element list, nil as an empty one.
func List(err error) []error {
	if err == nil {
		return nil
	}
	if me, ok := err.(*multierror.Error); ok {
		return me.WrappedErrors()
	}
	if e, ok := err.(*Error); ok {
		if me, ok := e.Cause.(*multierror.Error); ok {
			return me.WrappedErrors()
		}
	}
	return []error{err}
}

// Join wraps a list of problems under one coded error. The message stays
// short; the individual causes are available through List.
func Join(code Code, errs []error, format string, args ...any) *Error {
	merr := &multierror.Error{ErrorFormat: inlineFormat}
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	return Wrap(code, merr.ErrorOrNil(), format, args...)
}

func inlineFormat(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
