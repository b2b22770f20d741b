package uritemplate

import (
	"github.com/frobware/uritemplate/timeutil"
)

// fieldCode identifies the built-in interpretation of a template
// field. Fields whose code is not built in are served by a
// FieldHandler and carry codePlugin.
type fieldCode int

const (
	codeYear fieldCode = iota
	codeTwoDigitYear
	codeDayOfYear
	codeMonth
	codeDay
	codeHour
	codeMinute
	codeSecond
	codeNanosecond
	codeMilli
	codeMicro
	codeAMPM
	codeZone
	codeIgnore
	codeMonthName
	codePlugin
)

// codeProperties describes a built-in field code.
type codeProperties struct {
	// name is the code as written in a template.
	name string

	// description is used in diagnostics.
	description string

	// length is the natural width of the field, or -1 when
	// unknown.
	length int

	// precision is the time component the field resolves, or -1
	// when it does not resolve a component.
	precision int

	// unit is the width, in units of precision, of one step of the
	// field. It is 1 except for milli and micro, which resolve
	// nanoseconds in steps of 10^6 and 10^3.
	unit int
}

// builtinCodes is indexed by fieldCode.
var builtinCodes = [...]codeProperties{
	codeYear:         {"Y", "year", 4, timeutil.Year, 1},
	codeTwoDigitYear: {"y", "2-digit-year", 2, timeutil.Year, 1},
	codeDayOfYear:    {"j", "day-of-year", 3, timeutil.Day, 1},
	codeMonth:        {"m", "month", 2, timeutil.Month, 1},
	codeDay:          {"d", "day", 2, timeutil.Day, 1},
	codeHour:         {"H", "hour", 2, timeutil.Hour, 1},
	codeMinute:       {"M", "minute", 2, timeutil.Minute, 1},
	codeSecond:       {"S", "second", 2, timeutil.Second, 1},
	codeNanosecond:   {"N", "nanosecond", 9, timeutil.Nanosecond, 1},
	codeMilli:        {"milli", "millisecond", 3, timeutil.Nanosecond, 1_000_000},
	codeMicro:        {"micro", "microsecond", 3, timeutil.Nanosecond, 1_000},
	codeAMPM:         {"p", "am/pm", 2, -1, 1},
	codeZone:         {"z", "RFC-822 numeric time zone", 5, -1, 1},
	codeIgnore:       {"ignore", "ignore", -1, -1, 1},
	codeMonthName:    {"b", "3-char-month-name", 3, timeutil.Month, 1},
}

// lookupCode returns the built-in code named name.
func lookupCode(name string) (fieldCode, bool) {
	for i, p := range builtinCodes {
		if p.name == name {
			return fieldCode(i), true
		}
	}
	return codePlugin, false
}

// isNumeric reports whether the field is rendered and decoded as a
// plain integer.
func (c fieldCode) isNumeric() bool {
	return c <= codeMicro
}

func (c fieldCode) String() string {
	if c >= 0 && int(c) < len(builtinCodes) {
		return builtinCodes[c].description
	}
	return "plug-in"
}

// digitForCode returns the time component addressed by a single
// letter code or unit, as used by shift, span and period qualifiers.
// It returns -1 for anything else.
func digitForCode(code byte) int {
	switch code {
	case 'Y':
		return timeutil.Year
	case 'm':
		return timeutil.Month
	case 'j', 'd':
		return timeutil.Day
	case 'H':
		return timeutil.Hour
	case 'M':
		return timeutil.Minute
	case 'S':
		return timeutil.Second
	case 'N':
		return timeutil.Nanosecond
	}
	return -1
}

// contextDepth returns how many leading components are determined
// once a field with the given single letter code is present: a year
// field determines none of the components that precede the year, a
// month field leaves the year to be supplied, and so on. It returns
// -1 for codes that do not fix the context.
func contextDepth(code string) int {
	switch code {
	case "Y", "y":
		return 0
	case "m", "b", "j":
		return 1
	case "d":
		return 2
	case "H":
		return 3
	case "M":
		return 4
	case "S":
		return 5
	}
	return -1
}
