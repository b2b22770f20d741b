package timeutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/uritemplate/timeutil"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month int
		expected    int
	}{
		{2000, 2, 29},
		{1900, 2, 28},
		{2024, 2, 29},
		{2023, 2, 28},
		{2023, 4, 30},
		{2023, 12, 31},
	}

	for _, tc := range tests {
		n, err := timeutil.DaysInMonth(tc.year, tc.month)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, n, "%d-%02d", tc.year, tc.month)
	}
}

func TestIsLeapYear_Bounds(t *testing.T) {
	for _, year := range []int{1581, 10000} {
		_, err := timeutil.IsLeapYear(year)
		require.Error(t, err)
		assert.True(t, errors.Is(err, &timeutil.CalendarError{}))

		var calErr *timeutil.CalendarError
		require.True(t, errors.As(err, &calErr))
		assert.Equal(t, timeutil.YearOutOfRange, calErr.Cause())
		assert.Equal(t, timeutil.Year, calErr.Component())
	}

	leap, err := timeutil.IsLeapYear(1600)
	require.NoError(t, err)
	assert.True(t, leap)
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		year, month, day int
		expected         int
	}{
		{2020, 4, 21, 112},
		{2000, 3, 1, 61},
		{2001, 3, 1, 60},
		{2020, 1, 200, 200},
		{2021, 12, 31, 365},
	}

	for _, tc := range tests {
		doy, err := timeutil.DayOfYear(tc.year, tc.month, tc.day)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, doy)
	}

	_, err := timeutil.DayOfYear(2020, 13, 1)
	assert.Error(t, err)
	_, err = timeutil.DayOfYear(2020, 2, 367)
	assert.Error(t, err)
}

func TestMonthForDayOfYear(t *testing.T) {
	tests := []struct {
		year, doy int
		expected  int
	}{
		{2000, 45, 2},
		{2000, 1, 1},
		{2000, 31, 1},
		{2000, 32, 2},
		{2000, 60, 2},
		{2001, 60, 3},
		{2000, 366, 12},
	}

	for _, tc := range tests {
		m, err := timeutil.MonthForDayOfYear(tc.year, tc.doy)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, m, "%d-%03d", tc.year, tc.doy)
	}

	_, err := timeutil.MonthForDayOfYear(2001, 366)
	assert.Error(t, err)
	_, err = timeutil.MonthForDayOfYear(2001, 0)
	assert.Error(t, err)
}

func TestJulianDay(t *testing.T) {
	jd, err := timeutil.JulianDay(2020, 7, 9)
	require.NoError(t, err)
	assert.Equal(t, 2459040, jd)
	assert.Equal(t, timeutil.Time{2020, 7, 9, 0, 0, 0, 0}, timeutil.FromJulianDay(jd))

	doyForm, err := timeutil.JulianDay(2020, 1, 191)
	require.NoError(t, err)
	assert.Equal(t, jd, doyForm)

	_, err = timeutil.JulianDay(1582, 12, 31)
	assert.Error(t, err)
}

func TestJulianDay_Inverse(t *testing.T) {
	for _, year := range []int{1600, 1700, 1899, 1900, 1999, 2000, 2024, 2100, 2400} {
		for month := 1; month <= 12; month++ {
			n, err := timeutil.DaysInMonth(year, month)
			require.NoError(t, err)
			for day := 1; day <= n; day++ {
				jd, err := timeutil.JulianDay(year, month, day)
				require.NoError(t, err)
				require.Equal(t, timeutil.Time{year, month, day}, timeutil.FromJulianDay(jd))
			}
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		year, month, day int
		expected         int
	}{
		{2022, 3, 12, 5},
		{2022, 1, 1, 5},
		{2022, 1, 3, 0},
		{2021, 12, 26, 6},
		{2000, 1, 1, 5},
	}

	for _, tc := range tests {
		dow, err := timeutil.DayOfWeek(tc.year, tc.month, tc.day)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, dow, "%d-%02d-%02d", tc.year, tc.month, tc.day)
	}
}

func TestFromWeekOfYear(t *testing.T) {
	tests := []struct {
		year, week int
		expected   timeutil.Time
	}{
		{2022, 13, timeutil.Time{2022, 3, 28}},
		{2022, 0, timeutil.Time{2021, 12, 27}},
		{2022, 1, timeutil.Time{2022, 1, 3}},
		{2020, 1, timeutil.Time{2019, 12, 30}},
		{2020, 53, timeutil.Time{2020, 12, 28}},
	}

	for _, tc := range tests {
		got, err := timeutil.FromWeekOfYear(tc.year, tc.week)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "%d-W%02d", tc.year, tc.week)
	}
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "Feb", timeutil.MonthNameAbbrev(2))
	assert.Equal(t, "December", timeutil.MonthName(12))

	tests := []struct {
		name     string
		expected int
	}{
		{"jan", 1},
		{"FEB", 2},
		{"November", 11},
		{"NOVEMBER", 11},
		{"decxyz", 12},
	}
	for _, tc := range tests {
		n, err := timeutil.MonthNumber(tc.name)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, n, tc.name)
	}

	for _, bad := range []string{"ja", "", "foo"} {
		_, err := timeutil.MonthNumber(bad)
		assert.Error(t, err, bad)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b        int
		div, modulo int
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{-1, 7, -1, 6},
		{0, 7, 0, 0},
		{-14, 7, -2, 0},
		{7, -2, -4, -1},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.div, timeutil.FloorDiv(tc.a, tc.b), "%d/%d", tc.a, tc.b)
		assert.Equal(t, tc.modulo, timeutil.FloorMod(tc.a, tc.b), "%d%%%d", tc.a, tc.b)
	}

	assert.Equal(t, int64(-2), timeutil.FloorDiv(int64(-86_400_001), int64(86_400_000)))
}
