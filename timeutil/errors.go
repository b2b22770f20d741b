package timeutil

import (
	"errors"
	"fmt"
)

// CalendarErrorCause discriminates between the different ways a
// decomposed time, a duration or an ISO-8601 string can be rejected.
type CalendarErrorCause int

const (
	// YearOutOfRange indicates that a year falls outside the window
	// supported by the operation (leap-year computation, Julian day
	// conversion or template validity).
	YearOutOfRange CalendarErrorCause = iota + 1

	// MonthOutOfRange indicates a month outside 1..12.
	MonthOutOfRange

	// DayOutOfRange indicates a day of month or day of year that
	// cannot exist in the given month or year.
	DayOutOfRange

	// InvalidFormat indicates an ISO-8601 time string that does
	// not match any of the accepted forms.
	InvalidFormat

	// InvalidDuration indicates an ISO-8601 duration string that
	// does not match PnYnMnDTnHnMnS.
	InvalidDuration

	// EmptyRange indicates a time range whose start is not
	// strictly before its stop.
	EmptyRange
)

var calendarErrorCauseNames = [...]string{
	YearOutOfRange:  "year out of range",
	MonthOutOfRange: "month out of range",
	DayOutOfRange:   "day out of range",
	InvalidFormat:   "invalid time format",
	InvalidDuration: "invalid duration",
	EmptyRange:      "empty time range",
}

func (c CalendarErrorCause) String() string {
	if c > 0 && int(c) < len(calendarErrorCauseNames) {
		return calendarErrorCauseNames[c]
	}
	return fmt.Sprintf("CalendarErrorCause(%d)", int(c))
}

// CalendarError reports a failure of one of the decomposed-time
// operations. When the failure is tied to a single component the
// index of that component (Year, Month, ...) is available through
// Component; otherwise Component returns -1.
type CalendarError struct {
	cause     CalendarErrorCause
	component int
	detail    string
}

// Cause returns the specific cause of the CalendarError.
func (e *CalendarError) Cause() CalendarErrorCause {
	return e.cause
}

// Component returns the index of the offending time component, or -1.
func (e *CalendarError) Component() int {
	return e.component
}

// Error implements the error interface.
func (e *CalendarError) Error() string {
	if e.detail == "" {
		return "calendar error: " + e.cause.String()
	}
	return fmt.Sprintf("calendar error: %v: %s", e.cause, e.detail)
}

// Is checks whether the provided target error matches the
// CalendarError type, so that callers can write:
//
//	if errors.Is(err, &timeutil.CalendarError{}) {
//	    // handle CalendarError
//	}
func (e *CalendarError) Is(target error) bool {
	var calendarError *CalendarError
	return errors.As(target, &calendarError)
}

func newCalendarError(cause CalendarErrorCause, component int, format string, a ...any) *CalendarError {
	return &CalendarError{
		cause:     cause,
		component: component,
		detail:    fmt.Sprintf(format, a...),
	}
}
