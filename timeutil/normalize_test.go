package timeutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/uritemplate/timeutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		description string
		input       timeutil.Time
		expected    timeutil.Time
	}{{
		description: "hour 24 rolls into next day",
		input:       timeutil.Time{2000, 1, 1, 24},
		expected:    timeutil.Time{2000, 1, 2, 0},
	}, {
		description: "negative hour borrows from previous year",
		input:       timeutil.Time{2000, 1, 1, -1},
		expected:    timeutil.Time{1999, 12, 31, 23},
	}, {
		description: "month 13",
		input:       timeutil.Time{1979, 13, 6},
		expected:    timeutil.Time{1980, 1, 6},
	}, {
		description: "day 37 of December",
		input:       timeutil.Time{1979, 12, 37},
		expected:    timeutil.Time{1980, 1, 6},
	}, {
		description: "day of year",
		input:       timeutil.Time{2020, 1, 34, 6, 7, 8, 10001},
		expected:    timeutil.Time{2020, 2, 3, 6, 7, 8, 10001},
	}, {
		description: "day of year in leap year",
		input:       timeutil.Time{2000, 1, 366},
		expected:    timeutil.Time{2000, 12, 31},
	}, {
		description: "day zero",
		input:       timeutil.Time{2000, 3, 0},
		expected:    timeutil.Time{2000, 2, 29},
	}, {
		description: "month zero",
		input:       timeutil.Time{2000, 0, 15},
		expected:    timeutil.Time{1999, 12, 15},
	}, {
		description: "nanosecond carry chain",
		input:       timeutil.Time{1999, 12, 31, 23, 59, 59, 1_000_000_000},
		expected:    timeutil.Time{2000, 1, 1, 0, 0, 0, 0},
	}, {
		description: "negative nanoseconds",
		input:       timeutil.Time{2000, 1, 1, 0, 0, 0, -1},
		expected:    timeutil.Time{1999, 12, 31, 23, 59, 59, 999_999_999},
	}, {
		description: "minutes and seconds",
		input:       timeutil.Time{2000, 1, 1, 0, 90, 125},
		expected:    timeutil.Time{2000, 1, 1, 1, 32, 5},
	}, {
		description: "negative days spanning months",
		input:       timeutil.Time{2022, 1, -4},
		expected:    timeutil.Time{2021, 12, 27},
	}, {
		description: "many days",
		input:       timeutil.Time{2000, 1, 1 + 731},
		expected:    timeutil.Time{2002, 1, 1},
	}}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got := tc.input
			require.NoError(t, timeutil.Normalize(&got))
			assert.Equal(t, tc.expected, got)

			again := got
			require.NoError(t, timeutil.Normalize(&again))
			assert.Equal(t, got, again, "normalize must be idempotent")
		})
	}
}

func TestNormalize_YearOutOfRange(t *testing.T) {
	tm := timeutil.Time{1582, 1, 0}
	assert.Error(t, timeutil.Normalize(&tm))
}

func TestAddSubtract(t *testing.T) {
	got, err := timeutil.Add(timeutil.Time{2020, 1, 31}, timeutil.Duration{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2020, 2, 1}, got)

	got, err = timeutil.Subtract(timeutil.Time{2020, 3, 1}, timeutil.Duration{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2020, 2, 29}, got)

	got, err = timeutil.Add(timeutil.Time{2012, 1, 17, 2, 0, 0, 245_000_000}, timeutil.Duration{timeutil.Nanosecond: 1_000_000})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2012, 1, 17, 2, 0, 0, 246_000_000}, got)

	assert.Equal(t, timeutil.Duration{0, 1, -24}, timeutil.Width(timeutil.Time{2022, 3, 28}, timeutil.Time{2022, 4, 4}))
}

func TestCompare(t *testing.T) {
	a := timeutil.Time{2020, 1, 1}
	b := timeutil.Time{2020, 1, 1, 0, 0, 0, 1}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))

	eq, err := timeutil.Eq(timeutil.Time{2020, 1, 32}, timeutil.Time{2020, 2, 1})
	require.NoError(t, err)
	assert.True(t, eq)

	gt, err := timeutil.Gt(timeutil.Time{2000, 1, 1, 24}, timeutil.Time{2000, 1, 1, 23})
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := timeutil.Lt(timeutil.Time{2000, 1, 1, 24}, timeutil.Time{2000, 1, 1, 23})
	require.NoError(t, err)
	assert.False(t, lt)
}
