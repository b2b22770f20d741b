package timeutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/uritemplate/timeutil"
)

func TestFloorCeil(t *testing.T) {
	tm := timeutil.Time{2020, 2, 29, 13, 5}
	assert.Equal(t, timeutil.Time{2020, 2, 29}, timeutil.Floor(tm))

	c, err := timeutil.Ceil(tm)
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2020, 3, 1}, c)

	c, err = timeutil.Ceil(timeutil.Time{2020, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2020, 3, 1}, c)

	next, err := timeutil.NextDay(timeutil.Time{1999, 12, 31, 23})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{2000, 1, 1}, next)

	prev, err := timeutil.PreviousDay(timeutil.Time{2000, 1, 1, 23})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Time{1999, 12, 31}, prev)
}

func TestCountOffDays(t *testing.T) {
	days, err := timeutil.CountOffDays(timeutil.Time{1999, 12, 31}, timeutil.Time{2000, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []timeutil.Time{
		{1999, 12, 31},
		{2000, 1, 1},
		{2000, 1, 2},
	}, days)

	days, err = timeutil.CountOffDays(timeutil.Time{2000, 1, 3}, timeutil.Time{2000, 1, 3})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestMillisecondsSince1970(t *testing.T) {
	tm, err := timeutil.ParseISO8601Time("2020-07-09T16:35:27Z")
	require.NoError(t, err)

	ms, err := timeutil.ToMillisecondsSince1970(tm)
	require.NoError(t, err)
	assert.Equal(t, int64(1594312527000), ms)
	assert.Equal(t, tm, timeutil.FromMillisecondsSince1970(ms))

	assert.Equal(t, timeutil.Time{1969, 12, 31, 23, 59, 59, 999_000_000}, timeutil.FromMillisecondsSince1970(-1))
	assert.Equal(t, timeutil.Time{1970, 1, 1}, timeutil.FromMillisecondsSince1970(0))
}

func TestIsValidTime(t *testing.T) {
	tests := []struct {
		input timeutil.Time
		valid bool
	}{
		{timeutil.Time{2020, 1, 1}, true},
		{timeutil.Time{2020, 1, 366}, true},
		{timeutil.Time{2021, 1, 366}, false},
		{timeutil.Time{2020, 2, 30}, false},
		{timeutil.Time{2020, 13, 1}, false},
		{timeutil.Time{2020, 3, 0}, false},
		{timeutil.Time{1899, 12, 31}, false},
		{timeutil.Time{2101, 1, 1}, false},
	}

	for _, tc := range tests {
		err := timeutil.IsValidTime(tc.input)
		if tc.valid {
			assert.NoError(t, err, "%v", tc.input)
		} else {
			assert.Error(t, err, "%v", tc.input)
		}
	}

	assert.NoError(t, timeutil.IsValidTimeIn(timeutil.Time{1700, 6, 1}, 1600, 1800))
	assert.NoError(t, timeutil.IsValidTimeRange(timeutil.MustTimeRange(timeutil.Time{2000, 1, 1}, timeutil.Time{2000, 1, 2})))
}
