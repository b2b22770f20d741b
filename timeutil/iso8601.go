package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var lastRegex = regexp.MustCompile(`^last([a-z]+)([+-]P.*)?$`)

// lastUnits maps the unit of a "last<unit>" expression to the index
// of the first component that is truncated.
var lastUnits = map[string]int{
	"year":   Month,
	"month":  Day,
	"day":    Hour,
	"hour":   Minute,
	"minute": Second,
	"second": Nanosecond,
}

// Now returns the current UTC time.
func Now() Time {
	return FromTime(time.Now())
}

// FromTime decomposes t, converted to UTC.
func FromTime(t time.Time) Time {
	t = t.UTC()
	return Time{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()}
}

// ParseISO8601Time parses an ISO-8601 time in one of the forms:
//
//	2021
//	2020-01
//	2020-01-01, 2020-01-01Z
//	2020-032, 2020-032Z (day of year)
//	2022-W08 (ISO week)
//	any date above followed by Thh, Thh:mm, Thh:mm:ss or
//	Thh:mm:ss.fraction, with an optional trailing Z
//	now, now-P1D, now+PT1H
//	lastday, lasthour-PT1H, lastmonth+P1D (year, month, day,
//	hour, minute and second are accepted units)
//
// The result is normalized. Relative forms are resolved against the
// current time; see ParseISO8601TimeRelativeTo.
func ParseISO8601Time(s string) (Time, error) {
	return ParseISO8601TimeRelativeTo(s, Now())
}

// ParseISO8601TimeRelativeTo is ParseISO8601Time with "now" fixed to
// the given time.
func ParseISO8601TimeRelativeTo(s string, now Time) (Time, error) {
	switch {
	case strings.HasPrefix(s, "now"):
		return applyRelative(s, now, s[3:])
	case strings.HasPrefix(s, "last"):
		m := lastRegex.FindStringSubmatch(s)
		if m == nil {
			return Time{}, newCalendarError(InvalidFormat, -1, "%q: expected lastday+P1D, etc", s)
		}
		first, ok := lastUnits[m[1]]
		if !ok {
			return Time{}, newCalendarError(InvalidFormat, -1, "%q: unsupported unit %q", s, m[1])
		}
		for i := first; i < Digits; i++ {
			if i < Hour {
				now[i] = 1
			} else {
				now[i] = 0
			}
		}
		return applyRelative(s, now, m[2])
	}

	t, err := parseAbsolute(s)
	if err != nil {
		return Time{}, err
	}
	if err := Normalize(&t); err != nil {
		return Time{}, err
	}
	return t, nil
}

func applyRelative(s string, base Time, remainder string) (Time, error) {
	if remainder == "" {
		return base, nil
	}
	d, err := ParseISO8601Duration(remainder[1:])
	if err != nil {
		return Time{}, err
	}
	switch remainder[0] {
	case '-':
		return Subtract(base, d)
	case '+':
		return Add(base, d)
	}
	return Time{}, newCalendarError(InvalidFormat, -1, "%q: expected + or - before the duration", s)
}

func parseAbsolute(s string) (Time, error) {
	var t Time
	var rest string
	var err error

	field := func(from, to, component int) {
		if err != nil {
			return
		}
		if to > len(s) {
			err = newCalendarError(InvalidFormat, component, "%q is too short", s)
			return
		}
		t[component], err = parseDigits(s[from:to], s, component)
	}
	sep := func(i int, want byte) {
		if err == nil && (i >= len(s) || s[i] != want) {
			err = newCalendarError(InvalidFormat, -1, "%q: expected %q at position %d", s, want, i+1)
		}
	}

	switch {
	case len(s) == 4:
		field(0, 4, Year)
		t[Month], t[Day] = 1, 1
		return t, err
	case len(s) < 7:
		return Time{}, newCalendarError(InvalidFormat, -1, "%q: time must have 4 or at least 7 characters", s)
	case len(s) == 7 && s[4] == 'W', len(s) == 8 && s[5] == 'W':
		field(0, 4, Year)
		if len(s) == 8 {
			sep(4, '-')
		}
		var week int
		if err == nil {
			week, err = parseDigits(s[len(s)-2:], s, Day)
		}
		if err != nil {
			return Time{}, err
		}
		return FromWeekOfYear(t[Year], week)
	case len(s) == 7:
		field(0, 4, Year)
		sep(4, '-')
		field(5, 7, Month)
		t[Day] = 1
		return t, err
	case len(s) == 8:
		field(0, 4, Year)
		sep(4, '-')
		field(5, 8, Day)
		t[Month] = 1
		return t, err
	case s[8] == 'T' || s[8] == 'Z':
		field(0, 4, Year)
		sep(4, '-')
		field(5, 8, Day)
		t[Month] = 1
		if s[8] == 'Z' && len(s) > 9 {
			return Time{}, newCalendarError(InvalidFormat, -1, "%q: unexpected text after Z", s)
		}
		rest = s[9:]
	default:
		field(0, 4, Year)
		sep(4, '-')
		field(5, 7, Month)
		sep(7, '-')
		field(8, 10, Day)
		if len(s) > 10 {
			switch {
			case s[10] == 'Z' && len(s) == 11:
			case s[10] == 'T':
				rest = s[11:]
			default:
				return Time{}, newCalendarError(InvalidFormat, -1, "%q: expected T or Z after the date", s)
			}
		}
	}
	if err != nil {
		return Time{}, err
	}

	rest = strings.TrimSuffix(rest, "Z")
	// hh, hh:mm, hh:mm:ss and hh:mm:ss.fraction. at is where the
	// separator before the part sits.
	parts := [...]struct {
		at, component int
		name          string
	}{
		{0, Hour, "hour"},
		{2, Minute, "minute"},
		{5, Second, "second"},
	}
	for _, p := range parts {
		if len(rest) <= p.at {
			break
		}
		from := p.at
		if p.component != Hour {
			if rest[p.at] != ':' {
				return Time{}, newCalendarError(InvalidFormat, p.component, "%q: expected ':' before the %s", s, p.name)
			}
			from++
		}
		if len(rest) < from+2 {
			return Time{}, newCalendarError(InvalidFormat, p.component, "%q: the %s needs two digits", s, p.name)
		}
		if t[p.component], err = parseDigits(rest[from:from+2], s, p.component); err != nil {
			return Time{}, err
		}
	}
	if len(rest) > 8 {
		if rest[8] != '.' || len(rest) == 9 {
			return Time{}, newCalendarError(InvalidFormat, Nanosecond, "%q: expected a fraction of a second after '.'", s)
		}
		frac := rest[9:]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := parseDigits(frac, s, Nanosecond)
		if err != nil {
			return Time{}, err
		}
		t[Nanosecond] = n * int(pow10[9-len(frac)])
	}
	return t, nil
}

// parseDigits parses a string made only of ASCII digits.
func parseDigits(digits, input string, component int) (int, error) {
	if digits == "" {
		return 0, newCalendarError(InvalidFormat, component, "%q: expected digits", input)
	}
	n := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, newCalendarError(InvalidFormat, component, "%q: only digits are allowed in %q", input, digits)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// resolveDayOfYear converts the day-of-year form [Y, 1, doy, ...]
// into month and day.
func resolveDayOfYear(t Time) Time {
	if t[Month] == 1 && t[Day] > 31 {
		if month, err := MonthForDayOfYear(t[Year], t[Day]); err == nil {
			first, _ := DayOfYear(t[Year], month, 1)
			t[Day] = t[Day] - first + 1
			t[Month] = month
		}
	}
	return t
}

// FormatISO8601Time formats t as "1999-12-31T23:00:00.000000000Z".
// A day-of-year form is resolved into month and day first.
func FormatISO8601Time(t Time) string {
	t = resolveDayOfYear(t)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%09dZ", t[Year], t[Month], t[Day], t[Hour], t[Minute], t[Second], t[Nanosecond])
}

// FormatISO8601TimeBrief formats t, omitting trailing zero fields.
// The coarsest result is "1999-12-31T23:00Z"; seconds, milliseconds,
// microseconds and nanoseconds are added as needed.
func FormatISO8601TimeBrief(t Time) string {
	s := FormatISO8601Time(t)
	nanos := t[Nanosecond]
	switch {
	case nanos == 0 && t[Second] == 0:
		return s[:16] + "Z"
	case nanos == 0:
		return s[:19] + "Z"
	case nanos%1_000_000 == 0:
		return s[:23] + "Z"
	case nanos%1_000 == 0:
		return s[:26] + "Z"
	}
	return s
}

// NormalizeTimeString parses any accepted ISO-8601 time and returns
// it in the form "1999-12-31T23:00:00.000000000Z".
func NormalizeTimeString(s string) (string, error) {
	t, err := ParseISO8601Time(s)
	if err != nil {
		return "", err
	}
	return FormatISO8601Time(t), nil
}

// ReformatISOTime returns the time s in the same form as example,
// which must be one of the $Y-$m-$d or $Y-$j based ISO-8601 forms,
// for example "2020-032T00:00Z" or "2020-02-01".
func ReformatISOTime(example, s string) (string, error) {
	if len(example) < 9 {
		return "", newCalendarError(InvalidFormat, -1, "example %q is too short", example)
	}
	t, err := ParseISO8601Time(s)
	if err != nil {
		return "", err
	}

	var out string
	switch example[8] {
	case 'T', 'Z':
		doy, err := DayOfYear(t[Year], t[Month], t[Day])
		if err != nil {
			return "", err
		}
		if example[8] == 'T' {
			out = fmt.Sprintf("%d-%03dT%02d:%02d:%02d.%09dZ", t[Year], doy, t[Hour], t[Minute], t[Second], t[Nanosecond])
		} else {
			out = fmt.Sprintf("%d-%03dZ", t[Year], doy)
		}
	default:
		if len(example) > 10 && example[10] == 'T' {
			out = FormatISO8601Time(t)
		} else {
			out = fmt.Sprintf("%d-%02d-%02dZ", t[Year], t[Month], t[Day])
		}
	}

	if strings.HasSuffix(example, "Z") {
		n := min(len(example)-1, len(out))
		return out[:n] + "Z", nil
	}
	return out[:min(len(example), len(out))], nil
}
