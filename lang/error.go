package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrDivisionByZero       = NewError("division by zero")
	ErrTypeConflict         = NewError("re-declaring variable with different type")
	ErrUnknownIdentifier    = NewError("unknown identifier")
	ErrMalformedOperand     = NewError("malformed operand")
	ErrReferenceCycle       = NewError("reference cycle")
	ErrMaxDepthExceeded     = NewError("maximum resolution depth exceeded")
	ErrConstantReassignment = NewError("re-defining an already declared constant")
	ErrInvalidType          = NewError("invalid variable type")
	ErrInvalidModifier      = NewError("invalid type modifier")
	ErrInvalidOperator      = NewError("invalid operator")
	ErrInvalidSyntax        = NewError("invalid expression syntax")
	ErrReadInput            = NewError("failed to read input")
	ErrCheckFailed          = NewError("check failed")
	ErrWriteOutput          = NewError("failed to write output")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2+len(e.attrs))

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if len(e.attrs) == 0 {
		return msg
	}

	detail := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		detail = append(detail, a.String())
	}

	return msg + " (" + strings.Join(detail, ", ") + ")"
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same base message.
// Errors derived from a sentinel with Wrap or With match that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
