package timeutil

import "strings"

var (
	// daysInMonthTable[leap][month], months numbered from 1.
	daysInMonthTable = [2][14]int{
		{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 0},
		{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 0},
	}

	// dayOffsetTable[leap][month] is the number of days before
	// the first of month; index 13 is the length of the year.
	dayOffsetTable = [2][14]int{
		{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365},
		{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335, 366},
	}

	monthNames = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

// julianDay1970 is the Julian day of 1970-01-01.
const julianDay1970 = 2440588

// IsLeapYear reports whether year is a Gregorian leap year. Years
// outside MinLeapYear..MaxLeapYear are rejected.
func IsLeapYear(year int) (bool, error) {
	if year < MinLeapYear || year > MaxLeapYear {
		return false, newCalendarError(YearOutOfRange, Year, "year must be between %d and %d, got %d", MinLeapYear, MaxLeapYear, year)
	}
	return year%4 == 0 && (year%400 == 0 || year%100 != 0), nil
}

func leapIndex(year int) (int, error) {
	leap, err := IsLeapYear(year)
	if err != nil {
		return 0, err
	}
	if leap {
		return 1, nil
	}
	return 0, nil
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, newCalendarError(MonthOutOfRange, Month, "month must be between 1 and 12, got %d", month)
	}
	leap, err := leapIndex(year)
	if err != nil {
		return 0, err
	}
	return daysInMonthTable[leap][month], nil
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) (int, error) {
	leap, err := leapIndex(year)
	if err != nil {
		return 0, err
	}
	return dayOffsetTable[leap][13], nil
}

// DayOfYear returns the day of year for the given date. A month of 1
// is the day-of-year convention, and day is returned unchanged.
func DayOfYear(year, month, day int) (int, error) {
	if month == 1 {
		return day, nil
	}
	if month < 1 || month > 12 {
		return 0, newCalendarError(MonthOutOfRange, Month, "month must be between 1 and 12, got %d", month)
	}
	if day > 366 {
		return 0, newCalendarError(DayOutOfRange, Day, "day must be at most 366, got %d", day)
	}
	leap, err := leapIndex(year)
	if err != nil {
		return 0, err
	}
	return dayOffsetTable[leap][month] + day, nil
}

// MonthForDayOfYear returns the month (1..12) containing the day of
// year doy, for example 2 (February) for day 45.
func MonthForDayOfYear(year, doy int) (int, error) {
	leap, err := leapIndex(year)
	if err != nil {
		return 0, err
	}
	offsets := &dayOffsetTable[leap]
	if doy < 1 || doy > offsets[13] {
		return 0, newCalendarError(DayOutOfRange, Day, "day of year must be between 1 and %d, got %d", offsets[13], doy)
	}
	for m := 12; m > 1; m-- {
		if offsets[m] < doy {
			return m, nil
		}
	}
	return 1, nil
}

// JulianDay returns the Julian day number of the date. month may be 1
// with day holding a day of year. The year must be after 1582.
func JulianDay(year, month, day int) (int, error) {
	if year <= MinLeapYear {
		return 0, newCalendarError(YearOutOfRange, Year, "julian day requires a year after %d, got %d", MinLeapYear, year)
	}
	return 367*year - 7*(year+(month+9)/12)/4 - 3*((year+(month-9)/7)/100+1)/4 + 275*month/9 + day + 1721029, nil
}

// FromJulianDay returns midnight of the Julian day.
func FromJulianDay(julian int) Time {
	a := julian + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := 100*b + d - 4800 + m/10
	return Time{year, month, day}
}

// DayOfWeek returns the day of the week, 0 for Monday through 6 for
// Sunday.
func DayOfWeek(year, month, day int) (int, error) {
	jd, err := JulianDay(year, month, day)
	if err != nil {
		return 0, err
	}
	// 2022-01-01 was a Saturday.
	return FloorMod(jd-2459581+5, 7), nil
}

// FromWeekOfYear returns midnight of the Monday starting the ISO week
// of year. Week 0 is the last week of the previous year.
func FromWeekOfYear(year, week int) (Time, error) {
	dow, err := DayOfWeek(year, 1, 1)
	if err != nil {
		return Time{}, err
	}
	var doy int
	if dow < 4 {
		doy = week*7 - 7 - dow + 1
		if doy < 1 {
			year--
			n, err := DaysInYear(year)
			if err != nil {
				return Time{}, err
			}
			doy += n
		}
	} else {
		doy = week*7 - dow + 1
	}
	return Time{year, 1, doy}.Normalized()
}

// MonthName returns the English name of month 1..12, for example
// "February".
func MonthName(month int) string {
	return monthNames[month-1]
}

// MonthNameAbbrev returns the three letter English abbreviation of
// month 1..12, for example "Feb".
func MonthNameAbbrev(month int) string {
	return monthNames[month-1][:3]
}

// MonthNumber returns the month number of an English month name.
// Only the first three letters are used and case is ignored, so
// "feb", "FEB" and "February" all return 2.
func MonthNumber(name string) (int, error) {
	if len(name) < 3 {
		return 0, newCalendarError(MonthOutOfRange, Month, "month name needs at least three letters: %q", name)
	}
	for i, n := range monthNames {
		if strings.EqualFold(name[:3], n[:3]) {
			return i + 1, nil
		}
	}
	return 0, newCalendarError(MonthOutOfRange, Month, "unable to parse month %q", name)
}
