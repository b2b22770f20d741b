package uritemplate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/frobware/uritemplate/timeutil"
)

// ErrMissingExtra is returned by a FieldHandler's Format when the
// extras map lacks the value the field renders. Handlers wrap it so
// that Format reports a FormatError with cause MissingExtra.
var ErrMissingExtra = errors.New("missing extra")

const defaultEnumID = "unidentifiedEnum"

// enumHandler accepts one of a fixed set of values and passes the
// value found through the extras map under its id.
type enumHandler struct {
	values []string
	set    map[string]struct{}
	id     string
}

func (h *enumHandler) Configure(args map[string]string) error {
	values, ok := args["values"]
	if !ok || values == "" {
		return errors.New("values must be specified for enum")
	}
	h.values = strings.Split(values, ",")
	if len(h.values) == 1 && strings.Contains(values, "|") {
		h.values = strings.Split(values, "|")
	}
	h.set = make(map[string]struct{}, len(h.values))
	for _, v := range h.values {
		h.set[v] = struct{}{}
	}
	h.id = defaultEnumID
	if id, ok := args["id"]; ok && id != "" {
		h.id = id
	}
	return nil
}

func (h *enumHandler) Regex() string {
	quoted := make([]string, len(h.values))
	for i, v := range h.values {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return "(" + strings.Join(quoted, "|") + ")"
}

func (h *enumHandler) Parse(content string, _ *timeutil.Time, _ *timeutil.Duration, extras map[string]string) error {
	if _, ok := h.set[content]; !ok {
		return fmt.Errorf("value is not in enum %s: %q", h.id, content)
	}
	extras[h.id] = content
	return nil
}

func (h *enumHandler) Format(_ timeutil.Time, _ timeutil.Duration, _ int, extras map[string]string) (string, error) {
	v, ok := extras[h.id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingExtra, h.id)
	}
	if _, ok := h.set[v]; !ok {
		return "", fmt.Errorf("value is not in enum %s: %q", h.id, v)
	}
	return v, nil
}
