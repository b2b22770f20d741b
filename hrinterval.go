package uritemplate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frobware/uritemplate/timeutil"
)

// hrintervalHandler names equal slices of the day, so
// $(hrinterval;names=a,b,c,d) writes "c" for 12:00 to 18:00.
type hrintervalHandler struct {
	labels []string
	index  map[string]int
	hours  int
}

func (h *hrintervalHandler) Configure(args map[string]string) error {
	values, ok := args["values"]
	if !ok {
		values, ok = args["names"]
	}
	if !ok || values == "" {
		return fmt.Errorf("values must be specified for hrinterval")
	}
	h.labels = strings.Split(values, ",")
	if 24%len(h.labels) != 0 {
		return fmt.Errorf("number of intervals must divide 24: %d", len(h.labels))
	}
	h.hours = 24 / len(h.labels)
	h.index = make(map[string]int, len(h.labels))
	for i, label := range h.labels {
		if _, dup := h.index[label]; dup {
			return fmt.Errorf("interval name %q used twice", label)
		}
		h.index[label] = i
	}
	return nil
}

func (h *hrintervalHandler) Regex() string {
	quoted := make([]string, len(h.labels))
	for i, label := range h.labels {
		quoted[i] = regexp.QuoteMeta(label)
	}
	return strings.Join(quoted, "|")
}

func (h *hrintervalHandler) Parse(content string, start *timeutil.Time, width *timeutil.Duration, _ map[string]string) error {
	i, ok := h.index[content]
	if !ok {
		return fmt.Errorf("expected one of %s: %q", strings.Join(h.labels, ","), content)
	}
	start[timeutil.Hour] = h.hours * i
	start[timeutil.Minute] = 0
	start[timeutil.Second] = 0
	start[timeutil.Nanosecond] = 0
	width[timeutil.Year] = 0
	width[timeutil.Month] = 0
	width[timeutil.Day] = 0
	width[timeutil.Hour] = h.hours
	return nil
}

// Format names the interval containing the hour of start. A range
// of non-zero width must begin on an interval boundary; an instant
// may fall anywhere within its interval.
func (h *hrintervalHandler) Format(start timeutil.Time, width timeutil.Duration, _ int, _ map[string]string) (string, error) {
	hour := start[timeutil.Hour]
	if !width.IsZero() && (hour%h.hours != 0 || start[timeutil.Minute] != 0 || start[timeutil.Second] != 0 || start[timeutil.Nanosecond] != 0) {
		return "", fmt.Errorf("start hour %d is not at the beginning of a %d hour interval", hour, h.hours)
	}
	i := hour / h.hours
	if i < 0 || i >= len(h.labels) {
		return "", fmt.Errorf("hour out of range: %d", hour)
	}
	return h.labels[i], nil
}
