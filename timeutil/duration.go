package timeutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

var iso8601DurationRegex = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d*\.?\d+)S)?)?$`)

var pow10 = [...]uint64{
	1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
}

// ParseISO8601Duration parses an ISO-8601 duration such as "P1D",
// "PT5H4M" or "PT0.000123S" into a Duration. Fractional seconds are
// kept exactly, down to the nanosecond; further digits are
// truncated.
func ParseISO8601Duration(s string) (Duration, error) {
	m := iso8601DurationRegex.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") {
		if strings.HasPrefix(s, "P") && strings.Contains(s, "S") && !strings.Contains(s, "T") {
			return Duration{}, newCalendarError(InvalidDuration, -1, "unable to parse %q: was the T missing before S?", s)
		}
		return Duration{}, newCalendarError(InvalidDuration, -1, "unable to parse %q, expected PnYnMnDTnHnMnS", s)
	}

	var d Duration
	for i, group := range m[1:6] {
		if group == "" {
			continue
		}
		v, err := strconv.Atoi(group)
		if err != nil {
			return Duration{}, newCalendarError(InvalidDuration, i, "%q: %v", s, err)
		}
		d[i] = v
	}

	if m[6] != "" {
		seconds, nanos, err := parseSeconds(m[6])
		if err != nil {
			return Duration{}, newCalendarError(InvalidDuration, Second, "%q: %v", s, err)
		}
		d[Second] = seconds
		d[Nanosecond] = nanos
	}

	return d, nil
}

// parseSeconds splits a decimal number of seconds into whole seconds
// and nanoseconds without going through floating point.
func parseSeconds(s string) (int, int, error) {
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	dec, err := decimal.Parse(s)
	if err != nil {
		return 0, 0, err
	}
	coef, scale := dec.Coef(), dec.Scale()
	if scale > 9 {
		coef /= powerOfTen(scale - 9)
		scale = 9
	}
	unit := pow10[scale]
	whole := coef / unit
	frac := coef % unit
	return int(whole), int(frac * pow10[9-scale]), nil
}

func powerOfTen(n int) uint64 {
	p := uint64(1)
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

var durationUnits = [...]string{"Y", "M", "D", "H", "M"}

// FormatISO8601Duration formats d as an ISO-8601 duration, for
// example [0, 0, 7, 0, 0, 6, 0] becomes "P7DT6S". Fractional seconds
// use three, six or nine digits, the fewest that represent the
// nanoseconds exactly. A zero duration is "PT0S". Negative
// components are omitted.
func FormatISO8601Duration(d Duration) string {
	var sb strings.Builder
	sb.WriteString("P")

	needT := false
	for i, unit := range durationUnits {
		if i == Hour {
			needT = true
		}
		if d[i] > 0 {
			if needT {
				sb.WriteString("T")
				needT = false
			}
			sb.WriteString(strconv.Itoa(d[i]))
			sb.WriteString(unit)
		}
	}

	if d[Second] > 0 || d[Nanosecond] > 0 || sb.Len() == 1 {
		if needT {
			sb.WriteString("T")
		}
		sb.WriteString(formatSeconds(d[Second], d[Nanosecond]))
		sb.WriteString("S")
	}

	return sb.String()
}

func formatSeconds(seconds, nanos int) string {
	if nanos <= 0 {
		return strconv.Itoa(seconds)
	}
	var places int
	switch {
	case nanos%1_000_000 == 0:
		places = 3
	case nanos%1_000 == 0:
		places = 6
	default:
		places = 9
	}
	total := int64(seconds)*nanosPerSecond + int64(nanos)
	return decimal.MustNew(total, 9).Trim(places).String()
}
