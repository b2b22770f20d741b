package uritemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frobware/uritemplate/timeutil"
)

// subsecHandler decodes a fraction of a second written with a fixed
// number of decimal places, as in $(subsec;places=3).
type subsecHandler struct {
	places int
	factor int
}

func (h *subsecHandler) Configure(args map[string]string) error {
	s, ok := args["places"]
	if !ok || s == "" {
		return fmt.Errorf("places must be specified for subsec")
	}
	places, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("places must be an integer: %q", s)
	}
	if places < 1 || places > 9 {
		return fmt.Errorf("places must be between 1 and 9: %d", places)
	}
	h.places = places
	h.factor = 1
	for i := places; i < 9; i++ {
		h.factor *= 10
	}
	return nil
}

func (h *subsecHandler) Regex() string {
	return fmt.Sprintf("[0-9]{%d}", h.places)
}

func (h *subsecHandler) Parse(content string, start *timeutil.Time, width *timeutil.Duration, _ map[string]string) error {
	v, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || v < 0 {
		return fmt.Errorf("expected %d digits: %q", h.places, content)
	}
	start[timeutil.Nanosecond] = v * h.factor
	width[timeutil.Second] = 0
	width[timeutil.Nanosecond] = h.factor
	return nil
}

// Format truncates to the start of the bin containing the
// nanoseconds of start.
func (h *subsecHandler) Format(start timeutil.Time, _ timeutil.Duration, _ int, _ map[string]string) (string, error) {
	return fmt.Sprintf("%0*d", h.places, start[timeutil.Nanosecond]/h.factor), nil
}
