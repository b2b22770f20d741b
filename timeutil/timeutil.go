// Package timeutil implements exact, leap-year aware calendar
// arithmetic on decomposed times: seven integers holding year, month,
// day, hour, minute, second and nanosecond.
//
// Decomposed times are used instead of time.Time because file names
// encode calendar fields, not instants. A day-of-year is carried as
// month 1 with a day up to 366, an hour of 24 means midnight of the
// following day, and durations such as "one month" keep their
// calendar meaning until they are added to a time.
//
// Key Features:
//
//   - Normalization with carry and borrow across non-uniform month
//     lengths, including day-of-year inputs and negative components.
//
//   - Julian day conversion, ISO week dates and day-of-week.
//
//   - ISO-8601 time, time range and duration parsing and
//     formatting, including the relative forms "now-P1D" and
//     "lastday".
//
//   - Time ranges that step forward and backward by their own
//     calendar width.
package timeutil

// Indices of the components of a Time or Duration.
const (
	Year = iota
	Month
	Day
	Hour
	Minute
	Second
	Nanosecond
)

const (
	// Digits is the number of components in a Time or Duration.
	Digits = 7

	// RangeDigits is the number of components in the array form
	// of a TimeRange: start followed by stop.
	RangeDigits = 2 * Digits

	// MinLeapYear and MaxLeapYear bound the years for which
	// leap-year computation, and therefore normalization, is
	// defined.
	MinLeapYear = 1582
	MaxLeapYear = 9999

	// ValidFirstYear and ValidLastYear are the default template
	// validity window used by IsValidTime.
	ValidFirstYear = 1900
	ValidLastYear  = 2100

	nanosPerSecond = 1_000_000_000
)

// Time is a decomposed time [year, month, day, hour, minute, second,
// nanosecond]. A Time is a value: all operations return a new Time,
// except Normalize which works in place on a caller-owned buffer.
type Time [Digits]int

// Duration has the same shape as Time but is an offset. No range
// constraints apply to its components.
type Duration [Digits]int

// Date returns a normalized Time at midnight of the given day.
func Date(year, month, day int) (Time, error) {
	return Time{year, month, day}.Normalized()
}

// MustDate is like Date but panics on error. It is intended for
// tests and package-level variables.
func MustDate(year, month, day int) Time {
	t, err := Date(year, month, day)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalized returns a normalized copy of t.
func (t Time) Normalized() (Time, error) {
	err := Normalize(&t)
	return t, err
}

// Compare compares two normalized times component by component. It
// returns -1 if t is before u, +1 if t is after u and 0 when they are
// equal.
func (t Time) Compare(u Time) int {
	for i := 0; i < Digits; i++ {
		switch {
		case t[i] < u[i]:
			return -1
		case t[i] > u[i]:
			return 1
		}
	}
	return 0
}

// Before reports whether t is before u. Both must be normalized.
func (t Time) Before(u Time) bool {
	return t.Compare(u) < 0
}

// After reports whether t is after u. Both must be normalized.
func (t Time) After(u Time) bool {
	return t.Compare(u) > 0
}

// String formats t as an ISO-8601 time to nanosecond precision.
func (t Time) String() string {
	return FormatISO8601Time(t)
}

// String formats d as an ISO-8601 duration.
func (d Duration) String() string {
	return FormatISO8601Duration(d)
}

// IsZero reports whether every component of d is zero.
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Gt normalizes both operands and reports whether t1 is strictly
// after t2.
func Gt(t1, t2 Time) (bool, error) {
	c, err := compareNormalized(t1, t2)
	return c > 0, err
}

// Eq normalizes both operands and reports whether they denote the
// same instant.
func Eq(t1, t2 Time) (bool, error) {
	c, err := compareNormalized(t1, t2)
	return c == 0, err
}

// Lt normalizes both operands and reports whether t1 is strictly
// before t2.
func Lt(t1, t2 Time) (bool, error) {
	c, err := compareNormalized(t1, t2)
	return c < 0, err
}

func compareNormalized(t1, t2 Time) (int, error) {
	if err := Normalize(&t1); err != nil {
		return 0, err
	}
	if err := Normalize(&t2); err != nil {
		return 0, err
	}
	return t1.Compare(t2), nil
}

// Add adds offset to base componentwise and normalizes the result.
//
// Adding durations with month or year components is calendar
// relative: adding P1M then P1D is not the same as adding P1D then
// P1M, so composed offsets should not be chained blindly.
func Add(base Time, offset Duration) (Time, error) {
	for i := range base {
		base[i] += offset[i]
	}
	err := Normalize(&base)
	return base, err
}

// Subtract subtracts offset from base componentwise and normalizes
// the result.
func Subtract(base Time, offset Duration) (Time, error) {
	for i := range base {
		base[i] -= offset[i]
	}
	err := Normalize(&base)
	return base, err
}

// Width returns stop-start componentwise, without normalization.
func Width(start, stop Time) Duration {
	var d Duration
	for i := range d {
		d[i] = stop[i] - start[i]
	}
	return d
}
