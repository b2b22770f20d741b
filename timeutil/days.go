package timeutil

// Floor returns midnight at the start of the day containing t.
func Floor(t Time) Time {
	return Time{t[Year], t[Month], t[Day]}
}

// Ceil returns t when it is already at midnight, and midnight of the
// following day otherwise.
func Ceil(t Time) (Time, error) {
	f := Floor(t)
	if f == t {
		return t, nil
	}
	return NextDay(f)
}

// NextDay returns midnight of the day after t.
func NextDay(t Time) (Time, error) {
	return Add(Floor(t), Duration{Day: 1})
}

// PreviousDay returns midnight of the day before t.
func PreviousDay(t Time) (Time, error) {
	return Subtract(Floor(t), Duration{Day: 1})
}

// CountOffDays returns midnight of each day from the day containing
// start up to, but not including, the day containing stop. For
// example 1999-12-31 to 2000-01-03 gives 1999-12-31, 2000-01-01 and
// 2000-01-02.
func CountOffDays(start, stop Time) ([]Time, error) {
	j1, err := JulianDay(start[Year], start[Month], start[Day])
	if err != nil {
		return nil, err
	}
	j2, err := JulianDay(stop[Year], stop[Month], stop[Day])
	if err != nil {
		return nil, err
	}
	if j2 <= j1 {
		return nil, nil
	}
	days := make([]Time, 0, j2-j1)
	for j := j1; j < j2; j++ {
		days = append(days, FromJulianDay(j))
	}
	return days, nil
}

// ToMillisecondsSince1970 returns the number of non-leap
// milliseconds between 1970-01-01T00:00Z and t.
func ToMillisecondsSince1970(t Time) (int64, error) {
	if err := Normalize(&t); err != nil {
		return 0, err
	}
	jd, err := JulianDay(t[Year], t[Month], t[Day])
	if err != nil {
		return 0, err
	}
	days := int64(jd - julianDay1970)
	return days*86_400_000 +
		int64(t[Hour])*3_600_000 +
		int64(t[Minute])*60_000 +
		int64(t[Second])*1_000 +
		int64(t[Nanosecond]/1_000_000), nil
}

// FromMillisecondsSince1970 is the inverse of ToMillisecondsSince1970.
func FromMillisecondsSince1970(ms int64) Time {
	days := FloorDiv(ms, 86_400_000)
	rem := int(ms - days*86_400_000)
	t := FromJulianDay(julianDay1970 + int(days))
	t[Hour] = rem / 3_600_000
	t[Minute] = rem / 60_000 % 60
	t[Second] = rem / 1_000 % 60
	t[Nanosecond] = rem % 1_000 * 1_000_000
	return t
}

// IsValidTime checks that t is a plausible calendar time within the
// default template validity window ValidFirstYear..ValidLastYear.
func IsValidTime(t Time) error {
	return IsValidTimeIn(t, ValidFirstYear, ValidLastYear)
}

// IsValidTimeIn checks that t is a plausible calendar time whose year
// is within first..last. The day may be a day of year when month is
// 1.
func IsValidTimeIn(t Time, first, last int) error {
	year := t[Year]
	if year < first || year > last {
		return newCalendarError(YearOutOfRange, Year, "year must be between %d and %d, got %d", first, last, year)
	}
	month := t[Month]
	if month < 1 || month > 12 {
		return newCalendarError(MonthOutOfRange, Month, "month must be between 1 and 12, got %d", month)
	}
	day := t[Day]
	if day < 1 {
		return newCalendarError(DayOutOfRange, Day, "day must be at least 1, got %d", day)
	}
	limit, err := DaysInMonth(year, month)
	if err != nil {
		return err
	}
	if month == 1 {
		if limit, err = DaysInYear(year); err != nil {
			return err
		}
	}
	if day > limit {
		return newCalendarError(DayOutOfRange, Day, "day must be at most %d, got %d", limit, day)
	}
	return nil
}

// IsValidTimeRange checks both ends of r with IsValidTime.
func IsValidTimeRange(r TimeRange) error {
	if err := IsValidTime(r.start); err != nil {
		return err
	}
	return IsValidTime(r.stop)
}
