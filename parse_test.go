package uritemplate_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/frobware/uritemplate"
	"github.com/frobware/uritemplate/timeutil"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		template string
		name     string
		cause    uritemplate.ParseErrorCause
		position int
	}{{
		template: "ac_$Y$j00-$(Y;end)$(j;end)00.gif",
		name:     "AC_199811900-199812000.gif",
		cause:    uritemplate.DelimiterMismatch,
		position: 0,
	}, {
		template: "ac_$Y$j00-$(Y;end)$(j;end)00.gif",
		name:     "ac_199811900-199812000-this-shouldnt-match.gif",
		cause:    uritemplate.DelimiterMismatch,
		position: 20,
	}, {
		template: "ac_$Y$j00-$(Y;end)$(j;end)00.gif",
		name:     "ac_1998119",
		cause:    uritemplate.InputTooShort,
		position: 10,
	}, {
		template: "$Y$m$d",
		name:     "202001",
		cause:    uritemplate.InputTooShort,
		position: 6,
	}, {
		template: "$Y-$j",
		name:     "2012-0x7",
		cause:    uritemplate.InvalidNumber,
		position: 5,
	}, {
		template: "$Y$m",
		name:     "2012-1",
		cause:    uritemplate.InvalidNumber,
		position: 4,
	}, {
		template: "$Y$m",
		name:     "2012+1",
		cause:    uritemplate.InvalidNumber,
		position: 4,
	}, {
		template: "x$Y",
		name:     "y2012",
		cause:    uritemplate.DelimiterMismatch,
		position: 0,
	}, {
		template: "$Y$m$d-$(enum;values=a,b,c,d)",
		name:     "20130202-e",
		cause:    uritemplate.HandlerRejected,
		position: 9,
	}, {
		template: "$Y_$(b)",
		name:     "2000_xyz",
		cause:    uritemplate.HandlerRejected,
		position: 5,
	}, {
		template: "$Y$m$d-$(Y;end)$m$d",
		name:     "20130202-20130202",
		cause:    uritemplate.EmptyRange,
		position: 0,
	}, {
		template: "$Y$m$d-$(Y;end)$m$d",
		name:     "20130202-20120202",
		cause:    uritemplate.EmptyRange,
		position: 0,
	}, {
		template: "data_v$(v;ge=2).dat",
		name:     "data_v1.dat",
		cause:    uritemplate.HandlerRejected,
		position: 6,
	}, {
		template: "data_v$(v;lt=3).dat",
		name:     "data_v3.dat",
		cause:    uritemplate.HandlerRejected,
		position: 6,
	}, {
		template: "$Y_$(x;name=orbit;regex=[0-9]{5}).dat",
		name:     "2020_1234a.dat",
		cause:    uritemplate.HandlerRejected,
		position: 5,
	}, {
		template: "$Y_$(x;name=id;regex=(?!000)[0-9]{3}).dat",
		name:     "2020_000.dat",
		cause:    uritemplate.HandlerRejected,
		position: 5,
	}, {
		template: "$(j;Y=2012)$(hrinterval;names=01,02,03,04)",
		name:     "01705",
		cause:    uritemplate.HandlerRejected,
		position: 3,
	}}

	for _, tc := range tests {
		t.Run(tc.template+"/"+tc.name, func(t *testing.T) {
			tmpl, err := uritemplate.Compile(tc.template)
			require.NoError(t, err)

			_, err = tmpl.Parse(tc.name, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, &uritemplate.ParseError{}))

			var parseErr *uritemplate.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.cause, parseErr.Cause(), err.Error())
			assert.Equal(t, tc.position, parseErr.Position(), err.Error())
		})
	}
}

func TestParseLeadingLiteral(t *testing.T) {
	tests := []struct {
		template string
		name     string
		expected string
	}{
		{"x$Y", "x2012", "2012-01-01/2013-01-01"},
		{"data_$Y.dat", "data_2001.dat", "2001-01-01/2002-01-01"},
		{"/gif/ac_$Y$j.gif", "/gif/ac_1998119.gif", "1998-04-29/1998-04-30"},
		{"ace_mag_$Y_$j_$H.cdf", "ace_mag_2005_032_06.cdf", "2005-02-01T06:00Z/2005-02-01T07:00Z"},
	}

	for _, tc := range tests {
		t.Run(tc.template, func(t *testing.T) {
			tmpl, err := uritemplate.Compile(tc.template)
			require.NoError(t, err)

			r, err := tmpl.Parse(tc.name, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, timeutil.FormatISO8601TimeRange(r))

			name, err := tmpl.FormatTimeRange(r, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	tmpl, err := uritemplate.Compile("ac_$Y$j00-$(Y;end)$(j;end)00.gif")
	require.NoError(t, err)

	_, err = tmpl.Parse("AC_199811900-199812000.gif", nil)
	require.Error(t, err)
	assert.Equal(t, `parse error at position 1: delimiter mismatch: expected "ac_" before $Y, got "AC_"`, err.Error())
}

func TestParseVersions(t *testing.T) {
	tests := []struct {
		template string
		name     string
		want     string
	}{
		{"data_v$(v;ge=2).dat", "data_v2.dat", "2"},
		{"data_v$(v;ge=2).dat", "data_v10.dat", "10"},
		{"data_v$(v;lt=3).dat", "data_v2.9.dat", "2.9"},
		{"data_v$(v;sep;ge=1.2).dat", "data_v1.10.dat", "1.10"},
		{"data_v$(v;alpha;lt=b).dat", "data_vab.dat", "ab"},
		{"data_v$v.$v.dat", "data_v3.14.dat", "3.14"},
	}

	for _, tc := range tests {
		t.Run(tc.template+"/"+tc.name, func(t *testing.T) {
			tmpl, err := uritemplate.Compile(tc.template)
			require.NoError(t, err)

			extras := map[string]string{}
			_, err = tmpl.Parse(tc.name, extras)
			require.NoError(t, err)
			assert.Equal(t, tc.want, extras["v"])
		})
	}
}

func TestParseCapture(t *testing.T) {
	tests := []struct {
		template string
		name     string
		extras   map[string]string
	}{
		{"$Y_$(x;name=orbit;regex=[0-9]{5}).dat", "2020_12345.dat", map[string]string{"orbit": "12345"}},
		{"$Y_$(x;name=id;regex=(?!000)[0-9]{3}).dat", "2020_123.dat", map[string]string{"id": "123"}},
		{"$Y_$(x;name=sc;enum=a|b)", "2020_b", map[string]string{"sc": "b"}},
		{"$Y_$(x,name=sc,enum=a|b)", "2020_a", map[string]string{"sc": "a"}},
		{"$Y_$(x;name=sc;len=4;pad=space).dat", "2020_  ab.dat", map[string]string{"sc": "ab"}},
		{"$Y_$x.dat", "2020_anything.dat", map[string]string{}},
	}

	for _, tc := range tests {
		t.Run(tc.template+"/"+tc.name, func(t *testing.T) {
			tmpl, err := uritemplate.Compile(tc.template)
			require.NoError(t, err)

			extras := map[string]string{}
			r, err := tmpl.Parse(tc.name, extras)
			require.NoError(t, err)
			assert.Equal(t, "2020-01-01/2021-01-01", timeutil.FormatISO8601TimeRange(r))
			assert.Equal(t, tc.extras, extras)
		})
	}
}

func TestParseAMPM(t *testing.T) {
	tmpl, err := uritemplate.Compile("$Y$m$d_$H$p")
	require.NoError(t, err)

	tests := []struct {
		name string
		want string
	}{
		{"20200101_12am", "2020-01-01T00:00Z"},
		{"20200101_01am", "2020-01-01T01:00Z"},
		{"20200101_12pm", "2020-01-01T12:00Z"},
		{"20200101_03PM", "2020-01-01T15:00Z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tmpl.Parse(tc.name, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, timeutil.FormatISO8601TimeBrief(r.Start()))
		})
	}
}

func TestParseZone(t *testing.T) {
	tmpl, err := uritemplate.Compile("$Y$m$d$H$M$z")
	require.NoError(t, err)

	r, err := tmpl.Parse("202001021030+0130", nil)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02T09:00Z", timeutil.FormatISO8601TimeBrief(r.Start()))
	assert.Equal(t, "2020-01-02T09:01Z", timeutil.FormatISO8601TimeBrief(r.Stop()))

	r, err = tmpl.Parse("202001020030+0100", nil)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T23:30Z", timeutil.FormatISO8601TimeBrief(r.Start()))
}

func TestParseIgnore(t *testing.T) {
	tmpl, err := uritemplate.Compile("$Y$m$d_$(ignore).dat")
	require.NoError(t, err)

	extras := map[string]string{}
	r, err := tmpl.Parse("20200101_whatever.dat", extras)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01/2020-01-02", timeutil.FormatISO8601TimeRange(r))
	assert.Equal(t, "whatever", extras["ignore"])
}

func TestParseMilliMicro(t *testing.T) {
	tmpl, err := uritemplate.Compile("$Y$m$d$H$M$S.$(milli)$(micro)")
	require.NoError(t, err)

	r, err := tmpl.Parse("20200101000000.123456", nil)
	require.NoError(t, err)
	assert.Equal(t, 123_456_000, r.Start()[timeutil.Nanosecond])
	assert.Equal(t, 123_457_000, r.Stop()[timeutil.Nanosecond])
}

// TestParseConcurrent checks that one Template can be shared by
// concurrent callers.
func TestParseConcurrent(t *testing.T) {
	tmpl, err := uritemplate.Compile("$Y_$(x;name=sc;len=6;pad=_)_$(subsec;places=3)_$(enum;values=a,b;id=e)_$v.dat")
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			year := 2000 + i%50
			sc := fmt.Sprintf("sc%d", i%7)
			e := []string{"a", "b"}[i%2]
			v := fmt.Sprintf("%d", i)
			name := fmt.Sprintf("%d_%s_%03d_%s_%s.dat", year, strings.Repeat("_", 6-len(sc))+sc, i, e, v)

			extras := map[string]string{}
			r, err := tmpl.Parse(name, extras)
			if err != nil {
				return err
			}
			if got := r.Start()[timeutil.Year]; got != year {
				return fmt.Errorf("%s: got year %d, want %d", name, got, year)
			}
			if got := r.Start()[timeutil.Nanosecond]; got != i*1_000_000 {
				return fmt.Errorf("%s: got nanoseconds %d, want %d", name, got, i*1_000_000)
			}
			if extras["sc"] != sc || extras["e"] != e || extras["v"] != v {
				return fmt.Errorf("%s: unexpected extras %v", name, extras)
			}

			formatted, err := tmpl.FormatTimeRange(r, extras)
			if err != nil {
				return err
			}
			if formatted != name {
				return fmt.Errorf("got %q, want %q", formatted, name)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
