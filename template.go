// Package uritemplate compiles URI templates such as
// "/data/$Y/$m/data_$Y$j_v$(v).dat" and uses them to map between
// time ranges and the names of time-partitioned files.
//
// Key Features:
//
//   - Parse recovers the time range a name covers, including names
//     that carry both a start and a stop time, two-digit years,
//     day-of-year, month names and periodic indices.
//
//   - Format and FormatRange produce the name, or every name,
//     covering a time range.
//
//   - Fields that carry no time information, such as spacecraft
//     identifiers or versions, are passed through an extras map.
//
//   - New field types can be added by registering a FieldHandler.
//
// A compiled Template is immutable and can be shared by concurrent
// callers.
package uritemplate

import (
	"fmt"

	"github.com/frobware/uritemplate/timeutil"
)

// DefaultTwoDigitYearPivot is the default first year represented by
// $y: "50" is 1950 and "49" is 2049.
const DefaultTwoDigitYearPivot = 1950

// unboundedYears is the width, in years, given to a template that
// resolves no time component at all.
const unboundedYears = 8000

// field is one compiled "$" field of a template.
type field struct {
	// name is the field code as written, "Y" or "subsec".
	name string

	code    fieldCode
	handler FieldHandler

	// delim is the literal text that follows the field.
	delim string

	// offset is the byte offset of the field in a name, or -1
	// when it can only be found by searching for delimiters.
	offset int

	// length is the byte length of the field, or -1 when
	// unknown.
	length int

	div   int
	delta int
	pad   string
	full  bool
	mcase string
	pivot int
}

func (f *field) isNumeric() bool {
	return f.handler == nil && f.code.isNumeric()
}

// Template is a compiled URI template.
type Template struct {
	spec   string
	prefix string
	fields []field
	regex  string

	// context seeds every parse. Components not encoded by the
	// template come from here.
	context         timeutil.Time
	externalContext int

	width         timeutil.Duration
	widthExplicit bool

	// lsd is the finest time component the template resolves,
	// or -1.
	lsd int

	// stopField is the index of the first field holding the stop
	// time, or -1 when the stop time is derived from the width.
	stopField int

	startShift    timeutil.Duration
	stopShift     timeutil.Duration
	hasStartShift bool
	hasStopShift  bool

	phaseStart    timeutil.Time
	hasPhaseStart bool

	// disallowCarry clamps a derived stop time that would spill
	// into the following year.
	disallowCarry bool

	validFirstYear int
	validLastYear  int
}

// MustCompile is like Compile but panics if the template cannot be
// compiled.
func MustCompile(template string, opts ...Option) *Template {
	t, err := Compile(template, opts...)
	if err != nil {
		panic(`uritemplate: Compile(` + fmt.Sprintf("%q", template) + `): ` + err.Error())
	}
	return t
}

// String returns the template in canonical form.
func (t *Template) String() string {
	return t.spec
}

// Regex returns a regular expression matching names produced by the
// template. Fields of unknown length match anything. It is meant for
// diagnostics: Parse does not use it.
func (t *Template) Regex() string {
	return t.regex
}

// ExternalContext returns the number of leading time components,
// starting with the year, that the template does not encode and that
// must be supplied with WithContext. "data_$j.dat" has an external
// context of 1 because the year is missing, "data_$d.dat" has 2.
func (t *Template) ExternalContext() int {
	return t.externalContext
}

// WithContext returns a copy of the template whose missing leading
// components are taken from context.
func (t *Template) WithContext(context timeutil.Time) *Template {
	c := *t
	copy(c.context[:c.externalContext], context[:c.externalContext])
	return &c
}

// Width returns the width of the range a name covers when the
// template does not encode a stop time. The boolean reports whether
// the width was declared with delta, span, cadence or resolution
// rather than derived from the finest field.
func (t *Template) Width() (timeutil.Duration, bool) {
	return t.width, t.widthExplicit
}

// Validate checks that r falls within the years the template was
// compiled to accept.
func (t *Template) Validate(r timeutil.TimeRange) error {
	if err := timeutil.IsValidTimeIn(r.Start(), t.validFirstYear, t.validLastYear); err != nil {
		return err
	}
	return timeutil.IsValidTimeIn(r.Stop(), t.validFirstYear, t.validLastYear)
}

// VersioningType returns the ordering of the versions matched by the
// template's $v fields. A template with several $v fields, as in
// "$v.$v", compares versions part by part. The boolean is false when
// the template has no $v field.
func (t *Template) VersioningType() (VersioningType, bool) {
	var found *versionHandler
	n := 0
	for i := range t.fields {
		if h, ok := t.fields[i].handler.(*versionHandler); ok {
			if found == nil {
				found = h
			}
			n++
		}
	}
	switch {
	case n == 0:
		return 0, false
	case n > 1:
		return NumericSplit, true
	}
	return found.typ, true
}

func (t *Template) delimBefore(i int) string {
	if i == 0 {
		return t.prefix
	}
	return t.fields[i-1].delim
}

func (t *Template) lastDelim() string {
	if len(t.fields) == 0 {
		return t.prefix
	}
	return t.fields[len(t.fields)-1].delim
}
