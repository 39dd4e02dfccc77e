package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:30", 450, false},
		{"16:00", 960, false},
		{"23:59", 1439, false},
		{" 09:24 ", 564, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"1200", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Round-trip law: ParseClock(FormatClock(m)) == m mod 1440.
func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, err := ParseClock(FormatClock(m))
		require.NoError(t, err)
		require.Equal(t, m, got, "minute %d did not round-trip", m)
	}
}

func TestWrapMinute(t *testing.T) {
	assert.Equal(t, 0, WrapMinute(0))
	assert.Equal(t, 0, WrapMinute(1440))
	assert.Equal(t, 1350, WrapMinute(-90))
	assert.Equal(t, 210, WrapMinute(1650))
	assert.Equal(t, 1140, WrapMinute(-300))
}

func TestRingDistance(t *testing.T) {
	assert.Equal(t, 0, RingDistance(100, 100))
	assert.Equal(t, 10, RingDistance(100, 110))
	assert.Equal(t, 1430, RingDistance(110, 100))
	// Previous-evening trigger at 22:30, now at 00:30: 120 minutes elapsed.
	assert.Equal(t, 120, RingDistance(1350, 30))
}

func TestParseWeekday(t *testing.T) {
	testCases := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Mon", time.Monday, false},
		{" SATURDAY ", time.Saturday, false},
		{"sun", time.Sunday, false},
		{"weekday", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseWeekday(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinuteOfDayAndDateHourKey(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, 566, MinuteOfDay(ts))
	assert.Equal(t, "2026-03-14-09", DateHourKey(ts))
}
