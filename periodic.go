package uritemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frobware/comptime"

	"github.com/frobware/uritemplate/timeutil"
)

// maxPeriodicLength is the widest index the periodic handler renders.
const maxPeriodicLength = 16

// periodicHandler numbers consecutive periods from a reference date:
// with $(periodic;offset=2285;start=2000-346;period=P27D) the period
// beginning 2000-12-11 is 2285, the next one 2286, and so on.
type periodicHandler struct {
	// julian is the Julian day of the start date.
	julian int

	// timeOfDay holds the hour, minute, second and nanosecond of
	// the start date. Its calendar components are zero.
	timeOfDay timeutil.Time

	offset int
	period timeutil.Duration
}

func (h *periodicHandler) Configure(args map[string]string) error {
	s, ok := args["start"]
	if !ok || s == "" {
		return errors.New("periodic field needs start")
	}
	start, err := timeutil.ParseISO8601Time(s)
	if err != nil {
		return fmt.Errorf("periodic start: %w", err)
	}
	h.julian, err = timeutil.JulianDay(start[timeutil.Year], start[timeutil.Month], start[timeutil.Day])
	if err != nil {
		return fmt.Errorf("periodic start: %w", err)
	}
	h.timeOfDay = start
	h.timeOfDay[timeutil.Year] = 0
	h.timeOfDay[timeutil.Month] = 0
	h.timeOfDay[timeutil.Day] = 0

	s, ok = args["offset"]
	if !ok || s == "" {
		return errors.New("periodic field needs offset")
	}
	h.offset, err = strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("periodic offset must be an integer: %q", s)
	}

	s, ok = args["period"]
	if !ok || s == "" {
		return errors.New("periodic field needs period")
	}
	h.period, err = parsePeriod(s)
	if err != nil {
		return err
	}
	if h.period[timeutil.Year] != 0 || h.period[timeutil.Month] != 0 {
		return fmt.Errorf("periodic period must not have year or month components: %s", s)
	}
	if h.period.IsZero() {
		return fmt.Errorf("periodic period must not be zero: %s", s)
	}
	return nil
}

// parsePeriod accepts either an ISO-8601 duration ("P27D") or the
// unit shorthand "27d", "6h", "1d12h".
func parsePeriod(s string) (timeutil.Duration, error) {
	if strings.HasPrefix(s, "P") {
		return timeutil.ParseISO8601Duration(s)
	}
	if strings.HasSuffix(s, "D") {
		return timeutil.Duration{}, errors.New("periodic unit for day is d, not D")
	}
	d, err := comptime.ParseDuration(s, comptime.Day, comptime.ParseModeMultiUnit, comptime.NoRangeChecking)
	if err != nil {
		return timeutil.Duration{}, fmt.Errorf("periodic period %q: %w", s, err)
	}
	if d <= 0 {
		return timeutil.Duration{}, fmt.Errorf("periodic period must be positive: %s", s)
	}
	return splitDuration(d), nil
}

// splitDuration spreads d over the day and time of day components.
func splitDuration(d time.Duration) timeutil.Duration {
	var period timeutil.Duration
	day := 24 * time.Hour
	period[timeutil.Day] = int(d / day)
	d %= day
	period[timeutil.Hour] = int(d / time.Hour)
	d %= time.Hour
	period[timeutil.Minute] = int(d / time.Minute)
	d %= time.Minute
	period[timeutil.Second] = int(d / time.Second)
	d %= time.Second
	period[timeutil.Nanosecond] = int(d)
	return period
}

func (h *periodicHandler) Regex() string {
	return "[0-9]+"
}

var periodicLimits = timeutil.Time{0, 0, 0, 24, 60, 60, 1_000_000_000}

func (h *periodicHandler) Parse(content string, start *timeutil.Time, width *timeutil.Duration, _ map[string]string) error {
	i, err := strconv.Atoi(strings.TrimLeft(strings.TrimSpace(content), "_"))
	if err != nil {
		return fmt.Errorf("periodic index must be an integer: %q", content)
	}
	k := i - h.offset

	carry := 0
	for c := timeutil.Nanosecond; c > timeutil.Day; c-- {
		v := h.timeOfDay[c] + k*h.period[c] + carry
		carry = timeutil.FloorDiv(v, periodicLimits[c])
		start[c] = v - carry*periodicLimits[c]
	}
	date := timeutil.FromJulianDay(h.julian + k*h.period[timeutil.Day] + carry)
	start[timeutil.Year] = date[timeutil.Year]
	start[timeutil.Month] = date[timeutil.Month]
	start[timeutil.Day] = date[timeutil.Day]

	width[timeutil.Year] = 0
	width[timeutil.Month] = 0
	for c := timeutil.Day; c < timeutil.Digits; c++ {
		width[c] = h.period[c]
	}
	return nil
}

func (h *periodicHandler) Format(start timeutil.Time, _ timeutil.Duration, length int, _ map[string]string) (string, error) {
	for c := timeutil.Hour; c < timeutil.Digits; c++ {
		if h.period[c] != 0 {
			return "", errors.New("only periods of whole days can be formatted")
		}
	}
	if length > maxPeriodicLength {
		return "", fmt.Errorf("periodic length must not exceed %d: %d", maxPeriodicLength, length)
	}
	jd, err := timeutil.JulianDay(start[timeutil.Year], start[timeutil.Month], start[timeutil.Day])
	if err != nil {
		return "", err
	}
	s := strconv.Itoa(timeutil.FloorDiv(jd-h.julian, h.period[timeutil.Day]) + h.offset)
	if length > len(s) {
		s = strings.Repeat("_", length-len(s)) + s
	}
	return s, nil
}
