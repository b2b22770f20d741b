package uritemplate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/frobware/uritemplate/timeutil"
)

// Parse returns the time range covered by name. Values of fields that
// carry no time, such as $(x;name=sc) or $v, are stored in extras,
// which may be nil when the template has none.
//
// Parse returns a *ParseError when name does not match the template,
// including when it decodes to a range whose stop is not after its
// start.
func (t *Template) Parse(name string, extras map[string]string) (timeutil.TimeRange, error) {
	if extras == nil {
		extras = map[string]string{}
	}
	start, stop, err := t.parse(name, extras)
	if err != nil {
		return timeutil.TimeRange{}, err
	}
	if !start.Before(stop) {
		return timeutil.TimeRange{}, newParseError(EmptyRange, 0, 0, "%q decodes to %s which is not before %s",
			name, timeutil.FormatISO8601TimeBrief(start), timeutil.FormatISO8601TimeBrief(stop))
	}
	return timeutil.MustTimeRange(start, stop), nil
}

// parse decodes name into normalized start and stop times without
// requiring start to precede stop.
func (t *Template) parse(name string, extras map[string]string) (timeutil.Time, timeutil.Time, error) {
	var start, stop timeutil.Time
	start = t.context
	width := t.width
	cur := &start

	offs, length := 0, 0
	lastOffset, lastLength := 0, 0
	for i := range t.fields {
		f := &t.fields[i]
		n := i + 1
		if i == t.stopField {
			stop = *cur
			cur = &stop
		}

		if f.offset != -1 {
			offs = f.offset
		} else {
			offs += length + len(t.delimBefore(i))
		}
		if offs > len(name) {
			return start, stop, newParseError(InputTooShort, len(name), n, "name ends before $%s", f.name)
		}

		switch {
		case f.length != -1:
			length = f.length
		case f.delim == "":
			length = len(name) - offs
		default:
			for offs < len(name) && isSpace(name[offs]) {
				offs++
			}
			if offs >= len(name) {
				return start, stop, newParseError(DelimiterMismatch, len(name), n, "expected delimiter %q but reached end of name", f.delim)
			}
			j := strings.Index(name[offs:], f.delim)
			if j == -1 {
				return start, stop, newParseError(DelimiterMismatch, offs, n, "expected delimiter %q after $%s", f.delim, f.name)
			}
			length = j
		}

		before := t.delimBefore(i)
		if lastOffset+lastLength > offs {
			return start, stop, newParseError(DelimiterMismatch, offs, n, "expected %q before $%s", before, f.name)
		}
		if found := name[lastOffset+lastLength : offs]; found != before {
			return start, stop, newParseError(DelimiterMismatch, lastOffset+lastLength, n, "expected %q before $%s, got %q", before, f.name, found)
		}
		lastOffset, lastLength = offs, length

		if len(name) < offs+length {
			return start, stop, newParseError(InputTooShort, len(name), n, "$%s needs %d characters, %q is too short", f.name, length, name)
		}
		if err := t.parseField(f, n, offs, name[offs:offs+length], cur, &width, extras); err != nil {
			return start, stop, err
		}
	}

	trailing := t.lastDelim()
	if found := name[lastOffset+lastLength:]; found != trailing {
		return start, stop, newParseError(DelimiterMismatch, lastOffset+lastLength, 0, "expected %q at end of name, got %q", trailing, found)
	}

	if err := timeutil.Normalize(&start); err != nil {
		return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "start time")
	}

	switch {
	case t.hasPhaseStart:
		if err := t.alignToPhase(&start, width); err != nil {
			return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "phasestart")
		}
		if t.stopField == -1 {
			var err error
			if stop, err = timeutil.Add(start, width); err != nil {
				return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "stop time")
			}
		}
	case t.stopField == -1:
		var err error
		if stop, err = timeutil.Add(start, width); err != nil {
			return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "stop time")
		}
		if t.disallowCarry && width[timeutil.Year] == 0 && width[timeutil.Month] == 0 &&
			width[timeutil.Day] > 1 && stop[timeutil.Year] > start[timeutil.Year] {
			stop = timeutil.Time{start[timeutil.Year] + 1, 1, 1, 0, 0, 0, 0}
		}
	}

	var err error
	if t.hasStartShift {
		if start, err = timeutil.Add(start, t.startShift); err != nil {
			return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "shifted start time")
		}
	}
	if t.hasStopShift {
		stop, err = timeutil.Add(stop, t.stopShift)
	} else {
		err = timeutil.Normalize(&stop)
	}
	if err != nil {
		return start, stop, wrapParseError(CalendarFailure, 0, 0, err, "stop time")
	}
	return start, stop, nil
}

// parseField decodes the content of one field into cur.
func (t *Template) parseField(f *field, n, offs int, raw string, cur *timeutil.Time, width *timeutil.Duration, extras map[string]string) error {
	if f.handler != nil {
		if err := f.handler.Parse(raw, cur, width, extras); err != nil {
			return wrapParseError(HandlerRejected, offs, n, err, "$(%s) rejected %q", f.name, raw)
		}
		return nil
	}

	content := strings.TrimSpace(raw)
	switch f.code {
	case codeAMPM:
		if content == "" {
			return newParseError(HandlerRejected, offs, n, "expected am or pm")
		}
		switch content[0] {
		case 'P', 'p':
			if cur[timeutil.Hour] != 12 {
				cur[timeutil.Hour] += 12
			}
		case 'A', 'a':
			if cur[timeutil.Hour] == 12 {
				cur[timeutil.Hour] = 0
			}
		default:
			return newParseError(HandlerRejected, offs, n, "expected am or pm, got %q", content)
		}
		return nil
	case codeZone:
		zone, err := strconv.Atoi(content)
		if err != nil {
			return newParseError(InvalidNumber, offs, n, "expected a numeric time zone, got %q", content)
		}
		cur[timeutil.Hour] -= zone / 100
		cur[timeutil.Minute] -= zone % 100
		return nil
	case codeIgnore:
		extras["ignore"] = raw
		return nil
	case codeMonthName:
		m, err := timeutil.MonthNumber(content)
		if err != nil {
			return wrapParseError(HandlerRejected, offs, n, err, "expected a month name, got %q", content)
		}
		cur[timeutil.Month] = m
		return nil
	}

	digits := strings.TrimLeft(content, "_ ")
	if !isDigits(digits) {
		return newParseError(InvalidNumber, offs, n, "$%s expects digits, got %q", f.name, raw)
	}
	digit, err := strconv.Atoi(digits)
	if err != nil {
		return newParseError(InvalidNumber, offs, n, "$%s expects digits, got %q", f.name, raw)
	}
	digit *= f.div

	switch f.code {
	case codeYear:
		cur[timeutil.Year] = digit
	case codeTwoDigitYear:
		mod := f.pivot % 100
		century := f.pivot / 100
		if digit >= mod {
			cur[timeutil.Year] = century*100 + digit
		} else {
			cur[timeutil.Year] = (century+1)*100 + digit
		}
	case codeDayOfYear:
		cur[timeutil.Month] = 1
		cur[timeutil.Day] = digit
	case codeMonth:
		cur[timeutil.Month] = digit
	case codeDay:
		cur[timeutil.Day] = digit
	case codeHour:
		cur[timeutil.Hour] = digit
	case codeMinute:
		cur[timeutil.Minute] = digit
	case codeSecond:
		cur[timeutil.Second] = digit
	case codeNanosecond:
		cur[timeutil.Nanosecond] = digit
	case codeMilli:
		cur[timeutil.Nanosecond] = digit*1_000_000 + cur[timeutil.Nanosecond]%1_000_000
	case codeMicro:
		ns := cur[timeutil.Nanosecond]
		cur[timeutil.Nanosecond] = ns/1_000_000*1_000_000 + digit*1_000 + ns%1_000
	default:
		return fmt.Errorf("unexpected field code %v", f.code)
	}
	return nil
}

// alignToPhase snaps start down onto the grid of steps of width that
// passes through the phasestart date. Month and year steps keep the
// day, day steps are counted in Julian days.
func (t *Template) alignToPhase(start *timeutil.Time, width timeutil.Duration) error {
	ps := t.phaseStart
	switch {
	case width[timeutil.Month] > 0:
		w := width[timeutil.Month]
		start[timeutil.Month] = timeutil.FloorDiv(start[timeutil.Month]-ps[timeutil.Month], w)*w + ps[timeutil.Month]
	case width[timeutil.Year] > 0:
		w := width[timeutil.Year]
		start[timeutil.Year] = timeutil.FloorDiv(start[timeutil.Year]-ps[timeutil.Year], w)*w + ps[timeutil.Year]
	case width[timeutil.Day] > 1:
		aligned, err := t.alignDays(*start, width[timeutil.Day])
		if err != nil {
			return err
		}
		*start = aligned
	default:
		log.Warn(context.Background(), fmt.Sprintf("phasestart can only be used with steps of months, years or several days, not %s",
			timeutil.FormatISO8601Duration(width)))
	}
	return timeutil.Normalize(start)
}

// alignDays returns midnight of the first day of the step of days
// containing t, counting from phasestart.
func (t *Template) alignDays(tm timeutil.Time, days int) (timeutil.Time, error) {
	ps := t.phaseStart
	phase, err := timeutil.JulianDay(ps[timeutil.Year], ps[timeutil.Month], ps[timeutil.Day])
	if err != nil {
		return tm, err
	}
	jd, err := timeutil.JulianDay(tm[timeutil.Year], tm[timeutil.Month], tm[timeutil.Day])
	if err != nil {
		return tm, err
	}
	return timeutil.FromJulianDay(phase + timeutil.FloorDiv(jd-phase, days)*days), nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
// strconv.Atoi alone would also accept a sign.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
