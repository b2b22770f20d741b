package uritemplate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/govalues/decimal"

	"github.com/frobware/uritemplate/timeutil"
)

// VersioningType is the ordering used to compare the versions found
// in names matched by the same template, for example to pick the
// latest of several files covering the same time range.
type VersioningType int

const (
	// Numeric compares versions as decimal numbers: "1.10" is
	// less than "1.9".
	Numeric VersioningType = iota + 1

	// Alphanumeric compares versions as strings.
	Alphanumeric

	// NumericSplit compares versions such as "1.10.2" part by
	// part, each part as an integer. When all common parts are
	// equal the version with more parts is the greater.
	NumericSplit
)

var versioningTypeNames = [...]string{
	Numeric:      "numeric",
	Alphanumeric: "alphanumeric",
	NumericSplit: "numericSplit",
}

func (v VersioningType) String() string {
	if v > 0 && int(v) < len(versioningTypeNames) {
		return versioningTypeNames[v]
	}
	return fmt.Sprintf("VersioningType(%d)", int(v))
}

var versionSeparators = regexp.MustCompile(`[.-]`)

// Compare returns -1, 0 or +1 as a is less than, equal to or greater
// than b. It fails when a or b cannot be read as a version of type v.
func (v VersioningType) Compare(a, b string) (int, error) {
	switch v {
	case Numeric:
		da, err := decimal.Parse(a)
		if err != nil {
			return 0, fmt.Errorf("version %q is not numeric: %w", a, err)
		}
		db, err := decimal.Parse(b)
		if err != nil {
			return 0, fmt.Errorf("version %q is not numeric: %w", b, err)
		}
		return da.Cmp(db), nil
	case Alphanumeric:
		return strings.Compare(a, b), nil
	case NumericSplit:
		pa := versionSeparators.Split(a, -1)
		pb := versionSeparators.Split(b, -1)
		for i := 0; i < len(pa) && i < len(pb); i++ {
			ia, err := strconv.Atoi(pa[i])
			if err != nil {
				return 0, fmt.Errorf("version %q: part %q is not an integer", a, pa[i])
			}
			ib, err := strconv.Atoi(pb[i])
			if err != nil {
				return 0, fmt.Errorf("version %q: part %q is not an integer", b, pb[i])
			}
			if ia != ib {
				if ia < ib {
					return -1, nil
				}
				return 1, nil
			}
		}
		switch {
		case len(pa) < len(pb):
			return -1, nil
		case len(pa) > len(pb):
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unknown versioning type %v", v)
}

// versionHandler serves $v. Each $v field found while parsing
// appends to extras["v"], so "$v.$v" applied to "3.14" records
// "3.14". Formatting splits the value again: part i of parts writes
// the i-th dot separated segment, and the last part takes whatever
// remains.
type versionHandler struct {
	typ VersioningType
	ge  string
	lt  string

	part, parts int
}

func (h *versionHandler) Configure(args map[string]string) error {
	_, sep := args["sep"]
	if !sep {
		_, sep = args["separator"]
	}
	if !sep {
		_, sep = args["dotnotation"]
	}
	_, alpha := args["alpha"]
	if !alpha {
		_, alpha = args["alphanumeric"]
	}
	if t, ok := args["type"]; ok {
		switch t {
		case "sep", "dotnotation":
			sep = true
		case "alpha", "alphanumeric":
			alpha = true
		case "numeric":
		default:
			return fmt.Errorf("unknown version type %q", t)
		}
	}
	if _, ok := args["gt"]; ok {
		return errors.New("gt specified but not supported: must be ge or lt")
	}
	if _, ok := args["le"]; ok {
		return errors.New("le specified but not supported: must be ge or lt")
	}

	switch {
	case alpha && sep:
		return errors.New("alpha with split not supported")
	case alpha:
		h.typ = Alphanumeric
	case sep:
		h.typ = NumericSplit
	default:
		h.typ = Numeric
	}

	h.ge = args["ge"]
	h.lt = args["lt"]
	for _, bound := range []string{h.ge, h.lt} {
		if bound == "" {
			continue
		}
		if _, err := h.typ.Compare(bound, bound); err != nil {
			return err
		}
	}
	return nil
}

func (h *versionHandler) Regex() string {
	return ".*"
}

func (h *versionHandler) Parse(content string, _ *timeutil.Time, _ *timeutil.Duration, extras map[string]string) error {
	if h.ge != "" {
		c, err := h.typ.Compare(content, h.ge)
		if err != nil {
			return err
		}
		if c < 0 {
			return fmt.Errorf("version %s is less than %s", content, h.ge)
		}
	}
	if h.lt != "" {
		c, err := h.typ.Compare(content, h.lt)
		if err != nil {
			return err
		}
		if c >= 0 {
			return fmt.Errorf("version %s is not less than %s", content, h.lt)
		}
	}
	if v, ok := extras["v"]; ok {
		content = v + "." + content
	}
	extras["v"] = content
	return nil
}

func (h *versionHandler) Format(_ timeutil.Time, _ timeutil.Duration, _ int, extras map[string]string) (string, error) {
	v, ok := extras["v"]
	if !ok {
		return "", fmt.Errorf("%w: v", ErrMissingExtra)
	}
	if h.parts < 2 {
		return v, nil
	}
	segments := strings.SplitN(v, ".", h.parts)
	if len(segments) < h.parts {
		return "", fmt.Errorf("%w: v=%q has %d parts, the template needs %d", ErrMissingExtra, v, len(segments), h.parts)
	}
	return segments[h.part], nil
}
