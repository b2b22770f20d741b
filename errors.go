package uritemplate

import (
	"errors"
	"fmt"
)

// CompileErrorCause discriminates between the ways a template string
// can be rejected by Compile.
type CompileErrorCause int

const (
	// UnbalancedParenthesis indicates a "$(" without a closing
	// ")".
	UnbalancedParenthesis CompileErrorCause = iota + 1

	// UnknownFieldCode indicates a field code that is neither a
	// built-in code nor the name of a registered handler.
	UnknownFieldCode

	// InvalidQualifier indicates a qualifier that is unsupported
	// for its field, or whose value cannot be interpreted (for
	// example "Y=abc" or "shift=").
	InvalidQualifier

	// MissingQualifier indicates that a qualifier required by the
	// field is absent, or was given without its value.
	MissingQualifier

	// AmbiguousFieldBoundary indicates a field of unknown length
	// immediately followed by another field, with no literal text
	// between them to locate the boundary.
	AmbiguousFieldBoundary

	// HourRequired indicates an am/pm field that is not preceded
	// by an hour field.
	HourRequired

	// HandlerConfiguration indicates that a plug-in handler
	// rejected its qualifiers.
	HandlerConfiguration

	// InvalidOption indicates that an Option passed to Compile
	// could not be applied.
	InvalidOption
)

var compileErrorCauseNames = [...]string{
	UnbalancedParenthesis:  "unbalanced parenthesis",
	UnknownFieldCode:       "unknown field code",
	InvalidQualifier:       "invalid qualifier",
	MissingQualifier:       "missing qualifier",
	AmbiguousFieldBoundary: "ambiguous field boundary",
	HourRequired:           "hour field required",
	HandlerConfiguration:   "handler configuration",
	InvalidOption:          "invalid option",
}

func (c CompileErrorCause) String() string {
	if c > 0 && int(c) < len(compileErrorCauseNames) {
		return compileErrorCauseNames[c]
	}
	return fmt.Sprintf("CompileErrorCause(%d)", int(c))
}

// CompileError represents a template string that cannot be compiled.
// Compilation is all or nothing: no Template is returned alongside a
// CompileError.
type CompileError struct {
	// cause specifies the kind of problem found.
	cause CompileErrorCause

	// field is the 1-based number of the field at fault, or 0
	// when the problem is not specific to one field.
	field int

	// detail is a human readable description including the
	// offending text.
	detail string

	// err is the underlying error, if any.
	err error
}

// Cause returns the specific cause of the CompileError.
func (e *CompileError) Cause() CompileErrorCause {
	return e.cause
}

// Field returns the 1-based number of the field that could not be
// compiled, or 0 if the error concerns the template as a whole.
func (e *CompileError) Field() int {
	return e.field
}

func (e *CompileError) Error() string {
	if e.field > 0 {
		return fmt.Sprintf("compile error in field %d: %v: %s", e.field, e.cause, e.detail)
	}
	return fmt.Sprintf("compile error: %v: %s", e.cause, e.detail)
}

// Unwrap returns the underlying error, if any.
func (e *CompileError) Unwrap() error {
	return e.err
}

// Is checks whether the provided target error matches the
// CompileError type. This method facilitates the use of the errors.Is
// function for matching against CompileError.
//
// Example:
//
//	if errors.Is(err, &uritemplate.CompileError{}) {
//	    // handle CompileError
//	}
func (e *CompileError) Is(target error) bool {
	var compileError *CompileError
	return errors.As(target, &compileError)
}

func newCompileError(cause CompileErrorCause, field int, format string, a ...any) *CompileError {
	return &CompileError{
		cause:  cause,
		field:  field,
		detail: fmt.Sprintf(format, a...),
	}
}

// ParseErrorCause discriminates between the ways a name can fail to
// match a compiled template.
type ParseErrorCause int

const (
	// DelimiterMismatch indicates that the literal text between
	// fields is not what the template expects.
	DelimiterMismatch ParseErrorCause = iota + 1

	// InputTooShort indicates that the name ends before a field of
	// known length is complete.
	InputTooShort

	// InvalidNumber indicates a numeric field containing
	// something other than digits.
	InvalidNumber

	// HandlerRejected indicates that a plug-in handler, or the
	// month name or am/pm field, rejected the field content.
	HandlerRejected

	// EmptyRange indicates that the name decodes to a stop time
	// that is not after its start time.
	EmptyRange

	// CalendarFailure indicates that the decoded components do
	// not form a representable time.
	CalendarFailure
)

var parseErrorCauseNames = [...]string{
	DelimiterMismatch: "delimiter mismatch",
	InputTooShort:     "input too short",
	InvalidNumber:     "invalid number",
	HandlerRejected:   "field rejected",
	EmptyRange:        "empty time range",
	CalendarFailure:   "calendar failure",
}

func (c ParseErrorCause) String() string {
	if c > 0 && int(c) < len(parseErrorCauseNames) {
		return parseErrorCauseNames[c]
	}
	return fmt.Sprintf("ParseErrorCause(%d)", int(c))
}

// ParseError represents a name that cannot be decoded by a Template.
// A failed parse leaves the Template untouched and reusable.
type ParseError struct {
	// cause specifies the kind of mismatch found.
	cause ParseErrorCause

	// position is the 0-indexed offset into the name where the
	// problem was detected.
	position int

	// field is the 1-based number of the field being decoded, or
	// 0 when the problem was found after the last field.
	field int

	// detail is a human readable description.
	detail string

	// err is the underlying error, if any.
	err error
}

// Cause returns the specific cause of the ParseError.
func (e *ParseError) Cause() ParseErrorCause {
	return e.cause
}

// Position returns the position in the name where the ParseError
// occurred. The position is 0-based, meaning that the first character
// of the name is at position 0.
func (e *ParseError) Position() int {
	return e.position
}

// Field returns the 1-based number of the field being decoded.
func (e *ParseError) Field() int {
	return e.field
}

// Error implements the error interface for ParseError. Note that the
// position is reported as 1-index based.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at position %d: %v: %s", e.position+1, e.cause, e.detail)
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, which is a
// *timeutil.CalendarError for CalendarFailure.
func (e *ParseError) Unwrap() error {
	return e.err
}

// Is checks whether the provided target error matches the ParseError
// type. This method facilitates the use of the errors.Is function for
// matching against ParseError.
//
// Example:
//
//	if errors.Is(err, &uritemplate.ParseError{}) {
//	    // handle ParseError
//	}
func (e *ParseError) Is(target error) bool {
	var parseError *ParseError
	return errors.As(target, &parseError)
}

func newParseError(cause ParseErrorCause, position, field int, format string, a ...any) *ParseError {
	return &ParseError{
		cause:    cause,
		position: position,
		field:    field,
		detail:   fmt.Sprintf(format, a...),
	}
}

func wrapParseError(cause ParseErrorCause, position, field int, err error, format string, a ...any) *ParseError {
	e := newParseError(cause, position, field, format, a...)
	e.err = err
	return e
}

// FormatErrorCause discriminates between the ways a time range can
// fail to be rendered by a Template.
type FormatErrorCause int

const (
	// MissingExtra indicates that a field needs a value from the
	// extras map that was not supplied.
	MissingExtra FormatErrorCause = iota + 1

	// LengthMismatch indicates that a rendered field does not fit
	// its declared length and no padding policy applies.
	LengthMismatch

	// Unsupported indicates a field that cannot be rendered: am/pm,
	// numeric time zone or ignore.
	Unsupported

	// InvalidTime indicates that a time could not be read or
	// rendered.
	InvalidTime

	// NonAdvancing indicates that FormatRange did not move forward
	// after rendering a name.
	NonAdvancing

	// InvertedRange indicates a requested range whose start is
	// after its stop.
	InvertedRange

	// PhaseStartRequired indicates a day field quantized with
	// delta or span without a phasestart reference date.
	PhaseStartRequired
)

var formatErrorCauseNames = [...]string{
	MissingExtra:       "missing extra",
	LengthMismatch:     "length mismatch",
	Unsupported:        "unsupported field",
	InvalidTime:        "invalid time",
	NonAdvancing:       "template does not advance",
	InvertedRange:      "start after stop",
	PhaseStartRequired: "phasestart required",
}

func (c FormatErrorCause) String() string {
	if c > 0 && int(c) < len(formatErrorCauseNames) {
		return formatErrorCauseNames[c]
	}
	return fmt.Sprintf("FormatErrorCause(%d)", int(c))
}

// FormatError represents a time range that cannot be rendered by a
// Template.
type FormatError struct {
	// cause specifies the kind of problem found.
	cause FormatErrorCause

	// field is the 1-based number of the field being rendered,
	// or 0 when the problem is not specific to one field.
	field int

	// detail is a human readable description.
	detail string

	// err is the underlying error, if any.
	err error
}

// Cause returns the specific cause of the FormatError.
func (e *FormatError) Cause() FormatErrorCause {
	return e.cause
}

// Field returns the 1-based number of the field being rendered, or 0.
func (e *FormatError) Field() int {
	return e.field
}

func (e *FormatError) Error() string {
	var msg string
	if e.field > 0 {
		msg = fmt.Sprintf("format error in field %d: %v: %s", e.field, e.cause, e.detail)
	} else {
		msg = fmt.Sprintf("format error: %v: %s", e.cause, e.detail)
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *FormatError) Unwrap() error {
	return e.err
}

// Is checks whether the provided target error matches the
// FormatError type. This method facilitates the use of the errors.Is
// function for matching against FormatError.
//
// Example:
//
//	if errors.Is(err, &uritemplate.FormatError{}) {
//	    // handle FormatError
//	}
func (e *FormatError) Is(target error) bool {
	var formatError *FormatError
	return errors.As(target, &formatError)
}

func newFormatError(cause FormatErrorCause, field int, format string, a ...any) *FormatError {
	return &FormatError{
		cause:  cause,
		field:  field,
		detail: fmt.Sprintf(format, a...),
	}
}

func wrapFormatError(cause FormatErrorCause, field int, err error, format string, a ...any) *FormatError {
	e := newFormatError(cause, field, format, a...)
	e.err = err
	return e
}
