package uritemplate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/frobware/uritemplate/timeutil"
)

// contextStart seeds the components a template leaves unset.
var contextStart = timeutil.Time{timeutil.MinLeapYear, 1, 1, 0, 0, 0, 0}

// rawField is a field as split out of the template string, before its
// code and qualifiers are interpreted.
type rawField struct {
	lengthPrefix string
	name         string
	qualifiers   string
	delim        string
	paren        bool
}

func (r rawField) String() string {
	if !r.paren {
		return "$" + r.lengthPrefix + r.name + r.delim
	}
	if r.qualifiers == "" {
		return "$" + r.lengthPrefix + "(" + r.name + ")" + r.delim
	}
	return "$" + r.lengthPrefix + "(" + r.name + ";" + r.qualifiers + ")" + r.delim
}

// compiler holds the state accumulated while fields are compiled
// left to right.
type compiler struct {
	opts compileOptions
	t    *Template

	// pos is the offset just past the previous field, before the
	// literal that follows it, or -1 once a field of unknown
	// length has been seen.
	pos int

	lsdMult  int
	haveHour bool
}

// Compile parses a URI template. The template is first made
// canonical (see MakeCanonical). Each field is "$" followed by an
// optional length, then either a single letter code or a code and
// its qualifiers in parentheses:
//
//	$Y$m$d                        four digit year, month, day
//	$(j;Y=2012)                   day of year in 2012
//	$(Y;end)$m$d                  start of the stop time
//	$(d;delta=10;phasestart=...)  ten day bins
//	$-1m                          month without zero padding
//	$(subsec;places=3)            a registered FieldHandler
//
// Compile returns a *CompileError if the template is malformed.
func Compile(template string, opts ...Option) (*Template, error) {
	o := defaultCompileOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			e := newCompileError(InvalidOption, 0, "%v", err)
			e.err = err
			return nil, e
		}
	}

	spec := MakeCanonical(template)
	pieces := strings.Split(spec, "$")
	t := &Template{
		spec:            spec,
		prefix:          pieces[0],
		fields:          make([]field, len(pieces)-1),
		context:         contextStart,
		externalContext: timeutil.Digits,
		lsd:             -1,
		stopField:       -1,
		validFirstYear:  o.validFirstYear,
		validLastYear:   o.validLastYear,
	}

	c := &compiler{opts: o, t: t, lsdMult: 1}
	var canonical strings.Builder
	canonical.WriteString(t.prefix)
	for i, piece := range pieces[1:] {
		raw, err := splitField(piece, i+1)
		if err != nil {
			return nil, err
		}
		if err := c.compileField(i, raw); err != nil {
			return nil, err
		}
		canonical.WriteString(raw.String())
	}
	t.spec = canonical.String()
	numberVersionParts(t.fields)

	for i := range t.fields {
		f := &t.fields[i]
		if f.length < 0 && f.delim == "" && i < len(t.fields)-1 {
			return nil, newCompileError(AmbiguousFieldBoundary, i+1,
				"$%s has no fixed length and is followed by $%s with nothing in between", f.name, t.fields[i+1].name)
		}
	}

	switch {
	case t.widthExplicit:
	case t.lsd >= 0:
		t.width[t.lsd] = c.lsdMult
	default:
		t.width[timeutil.Year] = unboundedYears
	}

	if t.stopField < 0 && t.hasStartShift {
		t.stopShift = t.startShift
		t.hasStopShift = true
	}

	t.regex = buildRegex(t)

	log.Debug(context.Background(), fmt.Sprintf("compiled %q: lsd=%d width=%s explicit=%t externalContext=%d",
		t.spec, t.lsd, timeutil.FormatISO8601Duration(t.width), t.widthExplicit, t.externalContext))

	return t, nil
}

// numberVersionParts tells each $v field which part of a split
// version it formats, so "$v.$v" writes "3.14" as "3" and "14".
func numberVersionParts(fields []field) {
	var parts []*versionHandler
	for i := range fields {
		if h, ok := fields[i].handler.(*versionHandler); ok {
			parts = append(parts, h)
		}
	}
	for i, h := range parts {
		h.part, h.parts = i, len(parts)
	}
}

// splitField decomposes the text following a "$" into its length
// prefix, code, qualifiers and trailing delimiter.
func splitField(piece string, n int) (rawField, error) {
	var raw rawField
	pp := 0
	for pp < len(piece) && (unicode.IsDigit(rune(piece[pp])) || piece[pp] == '-') {
		pp++
	}
	raw.lengthPrefix = piece[:pp]
	if pp >= len(piece) {
		return raw, newCompileError(UnknownFieldCode, n, "missing field code after $%s", piece)
	}

	if piece[pp] != '(' {
		raw.name = piece[pp : pp+1]
		raw.delim = piece[pp+1:]
		return raw, nil
	}

	end := closingParen(piece, pp)
	if end == -1 {
		return raw, newCompileError(UnbalancedParenthesis, n, "opening parenthesis but no closing parenthesis in %q", "$"+piece)
	}
	raw.paren = true
	inner := makeQualifiersCanonical(piece[pp : end+1])
	inner = inner[1 : len(inner)-1]
	if semi := strings.IndexByte(inner, ';'); semi != -1 {
		raw.name = strings.TrimSpace(inner[:semi])
		raw.qualifiers = inner[semi+1:]
	} else {
		raw.name = strings.TrimSpace(inner)
	}
	raw.delim = piece[end+1:]
	if raw.name == "" {
		return raw, newCompileError(UnknownFieldCode, n, "missing field code in %q", "$"+piece)
	}
	return raw, nil
}

func (c *compiler) compileField(i int, raw rawField) error {
	t := c.t
	n := i + 1
	f := &t.fields[i]
	f.name = raw.name
	f.delim = raw.delim
	f.div = 1
	f.pivot = c.opts.pivot

	explicitLength := 0
	if raw.lengthPrefix != "" {
		v, err := strconv.Atoi(raw.lengthPrefix)
		if err != nil {
			return newCompileError(InvalidQualifier, n, "invalid field length %q", raw.lengthPrefix)
		}
		explicitLength = v
	}

	if c.pos != -1 {
		c.pos += len(t.delimBefore(i))
	}
	f.offset = c.pos

	code, builtin := lookupCode(raw.name)
	if builtin {
		f.code = code
		f.length = explicitLength
		if f.length == 0 {
			f.length = builtinCodes[code].length
		}
	} else {
		factory, ok := c.opts.lookupHandler(raw.name)
		if !ok {
			return newCompileError(UnknownFieldCode, n, "no handler registered for %q", raw.name)
		}
		f.code = codePlugin
		f.length = explicitLength
		if f.length < 1 {
			f.length = -1
		}
		h := factory()
		if err := h.Configure(parseArgs(raw.qualifiers)); err != nil {
			e := newCompileError(HandlerConfiguration, n, "$(%s): %v", raw.name, err)
			e.err = err
			return e
		}
		f.handler = h
		log.Debug(context.Background(), fmt.Sprintf("configured handler %s for field %d", raw.name, n))
	}

	switch raw.name {
	case "H":
		c.haveHour = true
	case "p":
		if !c.haveHour {
			return newCompileError(HourRequired, n, "$H must precede $p")
		}
	}

	span := 1
	if raw.qualifiers != "" {
		var err error
		span, err = c.applyQualifiers(i, raw)
		if err != nil {
			return err
		}
	} else if len(raw.name) == 1 && t.lsd >= 0 && digitForCode(raw.name[0]) == t.lsd {
		// A repeated field, as in T$y$(m;delta=4)/$x_T$y$m$d.DAT,
		// resolves to single steps again.
		c.lsdMult = 1
	}

	if f.length < 1 || c.pos == -1 {
		c.pos = -1
	} else {
		c.pos += f.length
	}

	if d := contextDepth(raw.name); d >= 0 {
		t.externalContext = min(t.externalContext, d)
	}

	if builtin {
		p := builtinCodes[code]
		if p.precision >= 0 {
			res := max(span, f.div) * p.unit
			if p.precision > t.lsd && c.lsdMult == 1 {
				t.lsd = p.precision
				c.lsdMult = res
			} else if p.precision == timeutil.Nanosecond && t.lsd == timeutil.Nanosecond && res < c.lsdMult {
				c.lsdMult = res
			}
		}
	}
	return nil
}

// applyQualifiers interprets the qualifiers of field i and returns the
// field's span, 1 unless set with span, delta, cadence or resolution.
func (c *compiler) applyQualifiers(i int, raw rawField) (int, error) {
	t := c.t
	n := i + 1
	f := &t.fields[i]
	plugin := f.handler != nil
	quals := splitQualifiers(raw.qualifiers)

	for _, q := range quals {
		if name, _ := splitQualifier(q); name == "end" && t.stopField == -1 {
			t.stopField = i
		}
	}

	span := 1
	for _, q := range quals {
		name, val := splitQualifier(q)
		if name == "" {
			continue
		}
		hasValue := strings.Contains(q, "=")

		switch name {
		case "Y", "m", "d", "j", "H", "M", "S":
			if !hasValue || val == "" {
				return 0, newCompileError(MissingQualifier, n, "%s must be assigned an integer value (e.g. %s=1) in $(%s)", name, name, raw.name)
			}
			v, err := strconv.Atoi(val)
			if err != nil {
				return 0, newCompileError(InvalidQualifier, n, "%s must be assigned an integer value (e.g. %s=1), got %q", name, name, val)
			}
			c.seedContext(name, v)
			continue
		case "end":
			continue
		case "shift":
			if err := c.applyShift(i, val); err != nil {
				return 0, err
			}
			continue
		case "len":
			v, err := strconv.Atoi(val)
			if err != nil {
				return 0, newCompileError(InvalidQualifier, n, "len must be an integer, got %q", val)
			}
			f.length = v
			continue
		case "pad":
			switch val {
			case "zero", "space", "underscore", "_":
			case "none":
				f.length = -1
				c.pos = -1
			default:
				return 0, newCompileError(InvalidQualifier, n, "pad must be zero, space, underscore or none, got %q", val)
			}
			f.pad = val
			continue
		}

		if plugin {
			// The handler has seen the remaining qualifiers.
			continue
		}

		if !hasValue {
			log.Warn(context.Background(), fmt.Sprintf("unrecognized qualifier %q in $(%s)", name, raw.name))
			continue
		}

		switch name {
		case "cadence", "span", "delta", "resolution":
			w, err := c.applyWidth(i, val)
			if err != nil {
				return 0, err
			}
			span = w
			if name == "delta" || name == "span" {
				f.delta = w
			}
		case "period":
			if err := c.applyPeriod(i, val); err != nil {
				return 0, err
			}
		case "phasestart":
			ps, err := timeutil.ParseISO8601Time(val)
			if err != nil {
				e := newCompileError(InvalidQualifier, n, "phasestart %q", val)
				e.err = err
				return 0, e
			}
			t.phaseStart = ps
			t.hasPhaseStart = true
		case "start":
			if f.code != codeTwoDigitYear {
				return 0, newCompileError(InvalidQualifier, n, "start applies to $y only")
			}
			v, err := strconv.Atoi(val)
			if err != nil {
				return 0, newCompileError(InvalidQualifier, n, "start must be a year, got %q", val)
			}
			f.pivot = v
		case "fmt":
			switch val {
			case "full":
				f.full = true
				if f.code == codeMonthName {
					f.length = -1
					c.pos = -1
				}
			case "abbrev":
			default:
				return 0, newCompileError(InvalidQualifier, n, "fmt must be full or abbrev, got %q", val)
			}
		case "case":
			switch val {
			case "lc", "uc", "cap":
			default:
				return 0, newCompileError(InvalidQualifier, n, "case must be lc, uc or cap, got %q", val)
			}
			f.mcase = val
		case "div":
			fv, err := strconv.ParseFloat(val, 64)
			if err != nil || fv < 1 {
				return 0, newCompileError(InvalidQualifier, n, "div must be a number not less than 1, got %q", val)
			}
			f.div = int(fv)
			if f.length != -1 {
				f.length = max(1, f.length-decimalDigits(f.div)+1)
			}
			t.disallowCarry = true
		default:
			return 0, newCompileError(InvalidQualifier, n, "unsupported qualifier %q for $%s", name, raw.name)
		}
	}
	return span, nil
}

// closingParen returns the index of the parenthesis closing the one
// at open, or -1.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decimalDigits returns the number of decimal digits in v > 0.
func decimalDigits(v int) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

func (c *compiler) seedContext(name string, v int) {
	t := c.t
	switch name {
	case "Y":
		t.context[timeutil.Year] = v
	case "m":
		t.context[timeutil.Month] = v
	case "d":
		t.context[timeutil.Day] = v
	case "j":
		t.context[timeutil.Month] = 1
		t.context[timeutil.Day] = v
	case "H":
		t.context[timeutil.Hour] = v
	case "M":
		t.context[timeutil.Minute] = v
	case "S":
		t.context[timeutil.Second] = v
	}
	t.externalContext = min(t.externalContext, contextDepth(name))
}

// splitUnit splits "4H" into 4 and the component for H. Without a
// trailing unit the component is the field's own.
func (c *compiler) splitUnit(i int, spec string) (int, int, error) {
	f := &c.t.fields[i]
	digit := -1
	if f.handler == nil {
		digit = builtinCodes[f.code].precision
	}
	if spec != "" {
		if last := spec[len(spec)-1]; unicode.IsLetter(rune(last)) {
			digit = digitForCode(last)
			spec = spec[:len(spec)-1]
		}
	}
	v, err := strconv.Atoi(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("expected an integer: %q", spec)
	}
	if digit < 0 {
		return 0, 0, fmt.Errorf("no time component for %q", spec)
	}
	return v, digit, nil
}

func (c *compiler) applyWidth(i int, val string) (int, error) {
	v, digit, err := c.splitUnit(i, val)
	if err != nil {
		e := newCompileError(InvalidQualifier, i+1, "width %q", val)
		e.err = err
		return 0, e
	}
	if v < 1 {
		return 0, newCompileError(InvalidQualifier, i+1, "width must be positive, got %q", val)
	}
	c.t.width[digit] = v
	c.t.widthExplicit = true
	return v, nil
}

func (c *compiler) applyShift(i int, val string) error {
	if val == "" {
		return newCompileError(MissingQualifier, i+1, "shift is empty")
	}
	v, digit, err := c.splitUnit(i, val)
	if err != nil {
		e := newCompileError(InvalidQualifier, i+1, "shift %q", val)
		e.err = err
		return e
	}
	t := c.t
	if t.stopField == -1 || i < t.stopField {
		t.startShift[digit] = v
		t.hasStartShift = true
	} else {
		t.stopShift[digit] = v
		t.hasStopShift = true
	}
	return nil
}

func (c *compiler) applyPeriod(i int, val string) error {
	t := c.t
	if strings.HasPrefix(val, "P") {
		d, err := timeutil.ParseISO8601Duration(val)
		if err != nil {
			e := newCompileError(InvalidQualifier, i+1, "period %q", val)
			e.err = err
			return e
		}
		for j, v := range d {
			if v > 0 {
				t.lsd = j
				c.lsdMult = v
				return nil
			}
		}
		return newCompileError(InvalidQualifier, i+1, "period must not be zero: %q", val)
	}
	if val == "" || !unicode.IsLetter(rune(val[len(val)-1])) {
		return newCompileError(InvalidQualifier, i+1, "period must be an ISO-8601 duration or a count and unit, as in 10d: %q", val)
	}
	v, digit, err := c.splitUnit(i, val)
	if err != nil {
		e := newCompileError(InvalidQualifier, i+1, "period %q", val)
		e.err = err
		return e
	}
	t.lsd = digit
	c.lsdMult = v
	return nil
}

func buildRegex(t *Template) string {
	var b strings.Builder
	b.WriteString(regexp.QuoteMeta(t.prefix))
	for _, f := range t.fields {
		if f.length < 0 {
			b.WriteString("(.*)")
		} else {
			b.WriteString("(" + strings.Repeat(".", f.length) + ")")
		}
		b.WriteString(regexp.QuoteMeta(f.delim))
	}
	return b.String()
}

// splitQualifiers splits "a=1;b=2" into its qualifiers.
func splitQualifiers(qualifiers string) []string {
	return strings.Split(qualifiers, ";")
}

// splitQualifier splits "key=value" at the first "=". A bare
// qualifier has an empty value.
func splitQualifier(q string) (key, value string) {
	key, value, _ = strings.Cut(q, "=")
	return strings.TrimSpace(key), strings.TrimSpace(value)
}
