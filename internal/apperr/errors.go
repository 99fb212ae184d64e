// Package apperr defines the error kinds that abort an extraction or comparison run.
package apperr

import (
	"errors"
	"fmt"
)

// FormatError reports a coordinate string that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid DMS %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid DMS %q", e.Input)
}

// NewFormatError returns a FormatError for the given input.
func NewFormatError(input, reason string) *FormatError {
	return &FormatError{Input: input, Reason: reason}
}

// NotFoundError reports a missing boundary feature or an empty vertex set.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.What
}

// NewNotFoundError returns a NotFoundError describing what was missing.
func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{What: fmt.Sprintf(format, args...)}
}

// SchemaError reports a feature that lacks a required member.
type SchemaError struct {
	Index int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("feature %d: invalid or missing %q", e.Index, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// AmbiguousMatchError reports more than one feature matching a selection.
type AmbiguousMatchError struct {
	Name       string
	AdminLevel string
	Count      int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d features match name %q at admin_level %s", e.Count, e.Name, e.AdminLevel)
}

// IsFormat reports whether err (or any error in its chain) is a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsSchema reports whether err (or any error in its chain) is a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsAmbiguous reports whether err (or any error in its chain) is an AmbiguousMatchError.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousMatchError
	return errors.As(err, &ae)
}
