package uritemplate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/frobware/uritemplate/timeutil"
)

// Format returns the name for the time range from start to stop, both
// ISO-8601 times. extras supplies the values of fields that carry no
// time, such as $(x;name=sc) or $v. When the template declares its
// width, stop is ignored.
func (t *Template) Format(start, stop string, extras map[string]string) (string, error) {
	st, err := timeutil.ParseISO8601Time(start)
	if err != nil {
		return "", wrapFormatError(InvalidTime, 0, err, "start %q", start)
	}
	sp, err := timeutil.ParseISO8601Time(stop)
	if err != nil {
		return "", wrapFormatError(InvalidTime, 0, err, "stop %q", stop)
	}
	return t.FormatStartStop(st, sp, extras)
}

// FormatTimeRange returns the name for r.
func (t *Template) FormatTimeRange(r timeutil.TimeRange, extras map[string]string) (string, error) {
	return t.FormatStartStop(r.Start(), r.Stop(), extras)
}

// FormatStartStop returns the name for the time range from start to
// stop. The extras map is only read.
func (t *Template) FormatStartStop(start, stop timeutil.Time, extras map[string]string) (string, error) {
	if err := timeutil.Normalize(&start); err != nil {
		return "", wrapFormatError(InvalidTime, 0, err, "start time")
	}
	if err := timeutil.Normalize(&stop); err != nil {
		return "", wrapFormatError(InvalidTime, 0, err, "stop time")
	}

	var err error
	if t.widthExplicit {
		if stop, err = timeutil.Add(start, t.width); err != nil {
			return "", wrapFormatError(InvalidTime, 0, err, "stop time")
		}
	}

	width := t.width
	if !t.widthExplicit {
		width = timeutil.Width(start, stop)
	}
	if t.hasStartShift {
		if start, err = timeutil.Subtract(start, t.startShift); err != nil {
			return "", wrapFormatError(InvalidTime, 0, err, "shifted start time")
		}
	}
	if t.hasStopShift {
		if stop, err = timeutil.Subtract(stop, t.stopShift); err != nil {
			return "", wrapFormatError(InvalidTime, 0, err, "shifted stop time")
		}
	}
	if t.widthExplicit && t.hasPhaseStart && t.width[timeutil.Day] > 0 {
		aligned, err := t.alignDays(start, t.width[timeutil.Day])
		if err != nil {
			return "", wrapFormatError(InvalidTime, 0, err, "phasestart")
		}
		start[timeutil.Year] = aligned[timeutil.Year]
		start[timeutil.Month] = aligned[timeutil.Month]
		start[timeutil.Day] = aligned[timeutil.Day]
		if stop, err = timeutil.Add(start, t.width); err != nil {
			return "", wrapFormatError(InvalidTime, 0, err, "stop time")
		}
	}

	if extras == nil {
		extras = map[string]string{}
	}

	var b strings.Builder
	b.WriteString(t.prefix)
	cur := &start
	for i := range t.fields {
		f := &t.fields[i]
		n := i + 1
		if i == t.stopField {
			cur = &stop
		}

		var s string
		switch {
		case f.isNumeric():
			s, err = t.formatNumber(f, n, cur)
		case f.code == codeMonthName:
			s = formatMonthName(f, cur[timeutil.Month])
		case f.handler != nil:
			s, err = t.formatPlugin(f, n, cur, &stop, &width, cur == &start, extras)
		default:
			err = newFormatError(Unsupported, n, "$%s cannot be formatted", f.name)
		}
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString(f.delim)
	}
	return strings.TrimSpace(b.String()), nil
}

func (t *Template) formatNumber(f *field, n int, cur *timeutil.Time) (string, error) {
	var digit int
	switch f.code {
	case codeYear:
		digit = cur[timeutil.Year]
	case codeTwoDigitYear:
		digit = timeutil.FloorMod(cur[timeutil.Year], 100)
	case codeDayOfYear:
		doy, err := timeutil.DayOfYear(cur[timeutil.Year], cur[timeutil.Month], cur[timeutil.Day])
		if err != nil {
			return "", wrapFormatError(InvalidTime, n, err, "day of year")
		}
		digit = doy
	case codeMonth:
		digit = cur[timeutil.Month]
	case codeDay:
		digit = cur[timeutil.Day]
	case codeHour:
		digit = cur[timeutil.Hour]
	case codeMinute:
		digit = cur[timeutil.Minute]
	case codeSecond:
		digit = cur[timeutil.Second]
	case codeNanosecond:
		digit = cur[timeutil.Nanosecond]
	case codeMilli:
		digit = cur[timeutil.Nanosecond] / 1_000_000
	case codeMicro:
		digit = cur[timeutil.Nanosecond] / 1_000 % 1_000
	}

	if delta := f.delta; delta > 1 {
		switch f.code {
		case codeDayOfYear, codeMonth:
			digit = (digit-1)/delta*delta + 1
		case codeDay:
			if !t.hasPhaseStart {
				return "", newFormatError(PhaseStartRequired, n, "$(d;delta=%d) needs phasestart", delta)
			}
			aligned, err := t.alignDays(*cur, delta)
			if err != nil {
				return "", wrapFormatError(InvalidTime, n, err, "phasestart")
			}
			cur[timeutil.Year] = aligned[timeutil.Year]
			cur[timeutil.Month] = aligned[timeutil.Month]
			cur[timeutil.Day] = aligned[timeutil.Day]
			digit = cur[timeutil.Day]
		default:
			digit = digit / delta * delta
		}
	}
	digit /= f.div

	if f.length < 0 {
		return strconv.Itoa(digit), nil
	}
	switch f.pad {
	case "space":
		return fmt.Sprintf("%*d", f.length, digit), nil
	case "underscore", "_":
		s := strconv.Itoa(digit)
		if len(s) < f.length {
			s = strings.Repeat("_", f.length-len(s)) + s
		}
		return s, nil
	}
	return fmt.Sprintf("%0*d", f.length, digit), nil
}

func formatMonthName(f *field, month int) string {
	name := timeutil.MonthNameAbbrev(month)
	if f.full {
		name = timeutil.MonthName(month)
	}
	switch f.mcase {
	case "uc":
		return cases.Upper(language.English).String(name)
	case "cap":
		return cases.Title(language.English).String(name)
	}
	return cases.Lower(language.English).String(name)
}

// formatPlugin renders a handler's field and then parses the result
// back, so that the handler can refine the running time: a periodic
// index snaps cur to the start of its period and the stop time
// follows. The round trip writes into scratch extras only.
func (t *Template) formatPlugin(f *field, n int, cur, stop *timeutil.Time, width *timeutil.Duration, inStart bool, extras map[string]string) (string, error) {
	s, err := f.handler.Format(*cur, timeutil.Width(*cur, *stop), f.length, extras)
	if err != nil {
		if errors.Is(err, ErrMissingExtra) {
			return "", wrapFormatError(MissingExtra, n, err, "$(%s)", f.name)
		}
		return "", wrapFormatError(InvalidTime, n, err, "$(%s)", f.name)
	}

	refined := *cur
	refinedWidth := *width
	if perr := f.handler.Parse(s, &refined, &refinedWidth, map[string]string{}); perr == nil {
		*cur = refined
		*width = refinedWidth
		if inStart {
			if next, err := timeutil.Add(refined, refinedWidth); err == nil {
				*stop = next
			}
		}
	} else {
		log.Debug(context.Background(), fmt.Sprintf("$(%s) could not parse its own output %q: %v", f.name, s, perr))
	}

	if f.length > -1 && len(s) != f.length {
		if f.pad == "" {
			return "", newFormatError(LengthMismatch, n, "$(%s) should be %d characters, got %q, and pad is not set", f.name, f.length, s)
		}
		if len(s) > f.length {
			return "", newFormatError(LengthMismatch, n, "$(%s) should be %d characters, got %q which is too long", f.name, f.length, s)
		}
		padding := "_"
		if f.pad == "space" {
			padding = " "
		}
		s = strings.Repeat(padding, f.length-len(s)) + s
	}
	return s, nil
}

// FormatRange returns the names covering the time range from start to
// stop, both ISO-8601 times, in order. The first name may begin
// before start. A template that encodes both a start and a stop time
// yields a single name for the whole range.
func (t *Template) FormatRange(start, stop string, extras map[string]string) ([]string, error) {
	sptr, err := timeutil.ParseISO8601Time(start)
	if err != nil {
		return nil, wrapFormatError(InvalidTime, 0, err, "start %q", start)
	}
	end, err := timeutil.ParseISO8601Time(stop)
	if err != nil {
		return nil, wrapFormatError(InvalidTime, 0, err, "stop %q", stop)
	}
	if sptr.After(end) {
		return nil, newFormatError(InvertedRange, 0, "start %s is after stop %s", start, stop)
	}

	ut := t
	if t.externalContext > 0 {
		ut = t.WithContext(end)
	}

	from := sptr
	var names []string
	first := true
	for sptr.Before(end) {
		prev := sptr
		name, err := ut.FormatStartStop(sptr, sptr, extras)
		if err != nil {
			return nil, err
		}
		pstart, pstop, err := ut.parse(name, map[string]string{})
		if err != nil {
			return nil, wrapFormatError(InvalidTime, 0, err, "%q does not parse", name)
		}
		if first {
			first = false
			sptr = pstart
			if name, err = ut.FormatStartStop(sptr, sptr, extras); err != nil {
				return nil, err
			}
		}
		if pstart == pstop {
			name, err := ut.FormatStartStop(from, end, extras)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			break
		}
		names = append(names, name)
		sptr = pstop
		if !sptr.After(prev) {
			return nil, newFormatError(NonAdvancing, 0, "template does not advance past %s", timeutil.FormatISO8601Time(sptr))
		}
	}
	return names, nil
}
