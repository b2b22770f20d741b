package timeutil

import (
	"strings"
)

// TimeRange is a half-open interval [start, stop) of normalized
// times, with start strictly before stop.
type TimeRange struct {
	start Time
	stop  Time
}

// NewTimeRange normalizes start and stop and returns the range
// between them. It fails with EmptyRange unless start < stop.
func NewTimeRange(start, stop Time) (TimeRange, error) {
	if err := Normalize(&start); err != nil {
		return TimeRange{}, err
	}
	if err := Normalize(&stop); err != nil {
		return TimeRange{}, err
	}
	if !start.Before(stop) {
		return TimeRange{}, newCalendarError(EmptyRange, -1, "start %s is not before stop %s", FormatISO8601TimeBrief(start), FormatISO8601TimeBrief(stop))
	}
	return TimeRange{start: start, stop: stop}, nil
}

// MustTimeRange is like NewTimeRange but panics on error.
func MustTimeRange(start, stop Time) TimeRange {
	r, err := NewTimeRange(start, stop)
	if err != nil {
		panic(err)
	}
	return r
}

// TimeRangeFromArray builds a range from the 14-component form
// [Y m d H M S N Y m d H M S N].
func TimeRangeFromArray(a [RangeDigits]int) (TimeRange, error) {
	var start, stop Time
	copy(start[:], a[:Digits])
	copy(stop[:], a[Digits:])
	return NewTimeRange(start, stop)
}

// Start returns the inclusive start of the range.
func (r TimeRange) Start() Time { return r.start }

// Stop returns the exclusive stop of the range.
func (r TimeRange) Stop() Time { return r.stop }

// Array returns the 14-component form of the range.
func (r TimeRange) Array() [RangeDigits]int {
	var a [RangeDigits]int
	copy(a[:Digits], r.start[:])
	copy(a[Digits:], r.stop[:])
	return a
}

// Width returns stop-start componentwise, without normalization.
// The width of 2022-03-28/2022-04-04 is [0, 1, -24, 0, 0, 0, 0].
func (r TimeRange) Width() Duration {
	return Width(r.start, r.stop)
}

// Contains reports whether t lies in [start, stop). t must be
// normalized.
func (r TimeRange) Contains(t Time) bool {
	return !t.Before(r.start) && t.Before(r.stop)
}

// String formats the range briefly, see FormatISO8601TimeRange.
func (r TimeRange) String() string {
	return FormatISO8601TimeRange(r)
}

// calendarWidth returns the width of the range with negative
// components borrowed from the more significant ones, using the
// length of the start month for days.
func (r TimeRange) calendarWidth() (Duration, error) {
	w := r.Width()
	borrow := func(i, base int) {
		if w[i] < 0 {
			w[i] += base
			w[i-1]--
		}
	}
	borrow(Nanosecond, nanosPerSecond)
	borrow(Second, 60)
	borrow(Minute, 60)
	borrow(Hour, 24)
	if w[Day] < 0 {
		n, err := DaysInMonth(r.start[Year], r.start[Month])
		if err != nil {
			return Duration{}, err
		}
		w[Day] += n
		w[Month]--
	}
	borrow(Month, 12)
	return w, nil
}

// Next returns the range of the same calendar width that starts where
// r stops. Stepping is calendar aware: the month after
// 2022-01-01/2022-02-01 is 2022-02-01/2022-03-01.
func (r TimeRange) Next() (TimeRange, error) {
	w, err := r.calendarWidth()
	if err != nil {
		return TimeRange{}, err
	}
	stop, err := Add(r.stop, w)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(r.stop, stop)
}

// Previous returns the range of the same calendar width that stops
// where r starts.
func (r TimeRange) Previous() (TimeRange, error) {
	w, err := r.calendarWidth()
	if err != nil {
		return TimeRange{}, err
	}
	start, err := Subtract(r.start, w)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(start, r.start)
}

// ParseISO8601TimeRange parses "start/stop", "start/duration" or
// "duration/stop", for example "1998-01-02/1998-01-17",
// "2022-W13/P7D" or "P7D/2022-01-02".
func ParseISO8601TimeRange(s string) (TimeRange, error) {
	ss := strings.Split(s, "/")
	if len(ss) != 2 {
		return TimeRange{}, newCalendarError(InvalidFormat, -1, "%q: expected one slash (/) splitting start and stop times", s)
	}
	for i, part := range ss {
		if part == "" || !(isDigit(part[0]) || part[0] == 'P' || strings.HasPrefix(part, "now") || strings.HasPrefix(part, "last")) {
			return TimeRange{}, newCalendarError(InvalidFormat, -1, "%q: time %d is misformatted, should be an ISO-8601 time or duration like P1D", s, i+1)
		}
	}

	switch {
	case strings.HasPrefix(ss[0], "P"):
		d, err := ParseISO8601Duration(ss[0])
		if err != nil {
			return TimeRange{}, err
		}
		stop, err := ParseISO8601Time(ss[1])
		if err != nil {
			return TimeRange{}, err
		}
		start, err := Subtract(stop, d)
		if err != nil {
			return TimeRange{}, err
		}
		return NewTimeRange(start, stop)
	case strings.HasPrefix(ss[1], "P"):
		start, err := ParseISO8601Time(ss[0])
		if err != nil {
			return TimeRange{}, err
		}
		d, err := ParseISO8601Duration(ss[1])
		if err != nil {
			return TimeRange{}, err
		}
		stop, err := Add(start, d)
		if err != nil {
			return TimeRange{}, err
		}
		return NewTimeRange(start, stop)
	}

	start, err := ParseISO8601Time(ss[0])
	if err != nil {
		return TimeRange{}, err
	}
	stop, err := ParseISO8601Time(ss[1])
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(start, stop)
}

// FormatISO8601TimeRange formats r as "start/stop", dropping the
// components that are zero in both ends: "2000-01-01/2000-01-02",
// "2000-01-01T06:00Z/2000-01-01T12:00Z" and so on down to
// nanoseconds.
func FormatISO8601TimeRange(r TimeRange) string {
	s1 := FormatISO8601Time(r.start)
	s2 := FormatISO8601Time(r.stop)
	first := Digits
	for first > Hour && r.start[first-1] == 0 && r.stop[first-1] == 0 {
		first--
	}
	switch first {
	case Hour:
		return s1[:10] + "/" + s2[:10]
	case Minute, Second:
		return s1[:16] + "Z/" + s2[:16] + "Z"
	case Nanosecond:
		return s1[:19] + "Z/" + s2[:19] + "Z"
	}
	return s1 + "/" + s2
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
