package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHoursHoursFor(t *testing.T) {
	wh := &WorkingHours{}
	wh.Days[int(time.Monday)] = &DayHours{Start: "07:30", End: "16:00"}
	wh.Days[int(time.Tuesday)] = &DayHours{Start: "nine", End: "17:00"}
	wh.Days[int(time.Wednesday)] = &DayHours{Start: "17:00", End: "09:00"}

	start, end, ok := wh.HoursFor(time.Monday)
	require.True(t, ok)
	assert.Equal(t, 450, start)
	assert.Equal(t, 960, end)

	_, _, ok = wh.HoursFor(time.Sunday)
	assert.False(t, ok, "unset day")

	_, _, ok = wh.HoursFor(time.Tuesday)
	assert.False(t, ok, "unparseable start")

	_, _, ok = wh.HoursFor(time.Wednesday)
	assert.False(t, ok, "end before start")
}

func TestWorkingHoursHasConfiguredDays(t *testing.T) {
	wh := &WorkingHours{}
	assert.False(t, wh.HasConfiguredDays())

	wh.Days[int(time.Friday)] = &DayHours{Start: "09:00", End: "17:00"}
	assert.True(t, wh.HasConfiguredDays())
}

func TestOptimalStartTimesMinutes(t *testing.T) {
	times := &OptimalStartTimes{}
	assert.Nil(t, times.MinutesFor(time.Monday))

	times.SetMinutes(time.Monday, 450)
	got := times.MinutesFor(time.Monday)
	require.NotNil(t, got)
	assert.Equal(t, 450, *got)
	assert.Equal(t, "07:30", *times.Days[int(time.Monday)])

	// Wrapped input still lands on the ring.
	times.SetMinutes(time.Tuesday, -90)
	got = times.MinutesFor(time.Tuesday)
	require.NotNil(t, got)
	assert.Equal(t, 1350, *got)

	bad := "25:99"
	times.Days[int(time.Friday)] = &bad
	assert.Nil(t, times.MinutesFor(time.Friday))
}

// The settings survive a JSON round trip with nil days intact.
func TestWorkingHoursJSONRoundTrip(t *testing.T) {
	wh := &WorkingHours{Enabled: true, AutoAdjust: true}
	wh.Days[int(time.Monday)] = &DayHours{Start: "07:30", End: "16:00"}

	raw, err := json.Marshal(wh)
	require.NoError(t, err)

	decoded := &WorkingHours{}
	require.NoError(t, json.Unmarshal(raw, decoded))
	assert.Equal(t, wh, decoded)
	assert.Nil(t, decoded.Days[int(time.Sunday)])
}
