package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformProfile(pct float64) HourlyProfile {
	var p HourlyProfile
	for h := range p {
		p[h] = pct
	}
	return p
}

// A light uniform load should always produce a valid plan that starts
// before work does.
func TestFindOptimalTrigger_UniformLightLoad(t *testing.T) {
	result := FindOptimalTrigger(uniformProfile(10), 450, 960)

	require.True(t, result.IsValid)
	assert.Less(t, result.TriggerTime, 450)
	assert.Equal(t, len(result.Windows), result.BucketCount)
	assert.Greater(t, result.BucketCount, 0)
	for _, w := range result.Windows {
		assert.LessOrEqual(t, ExpectedWindowUsage(uniformProfile(10), w), Quota)
	}
}

// An overloaded profile has no valid candidate: the trigger falls back to
// the start of work and the result is flagged invalid.
func TestFindOptimalTrigger_Overloaded(t *testing.T) {
	result := FindOptimalTrigger(uniformProfile(150), 450, 960)

	assert.False(t, result.IsValid)
	assert.Equal(t, 450, result.TriggerTime)
	assert.NotEmpty(t, result.Windows)
}

func TestFindOptimalTrigger_BadWorkInterval(t *testing.T) {
	result := FindOptimalTrigger(uniformProfile(10), 960, 450)
	assert.False(t, result.IsValid)
	assert.Empty(t, result.Windows)
}

// The returned candidate must dominate every other valid candidate: no valid
// trigger yields more windows, and among equal window counts none yields a
// larger minimum slack.
func TestFindOptimalTrigger_Maximality(t *testing.T) {
	profiles := map[string]HourlyProfile{
		"uniform": uniformProfile(12),
		"morning heavy": func() HourlyProfile {
			p := uniformProfile(5)
			for h := 8; h < 12; h++ {
				p[h] = 45
			}
			return p
		}(),
		"evening spike": func() HourlyProfile {
			p := uniformProfile(8)
			p[15] = 80
			return p
		}(),
	}

	for name, profile := range profiles {
		t.Run(name, func(t *testing.T) {
			const workStart, workEnd = 450, 960
			best := FindOptimalTrigger(profile, workStart, workEnd)
			require.True(t, best.IsValid)

			for _, trigger := range candidateTriggers(workStart) {
				candidate := evaluateTrigger(profile, trigger, workStart, workEnd)
				if !candidate.IsValid {
					continue
				}
				require.GreaterOrEqual(t, best.BucketCount, candidate.BucketCount,
					"candidate %d beats chosen bucket count", trigger)
				if candidate.BucketCount == best.BucketCount {
					require.GreaterOrEqual(t, best.MinSlack, candidate.MinSlack,
						"candidate %d beats chosen slack", trigger)
				}
			}
		})
	}
}

func TestWindowsForTrigger_PositiveOverlapOnly(t *testing.T) {
	for trigger := 0; trigger < 1440; trigger += TimeGranularity {
		for _, w := range WindowsForTrigger(trigger, 450, 960) {
			assert.Greater(t, w.OverlapMinutes(), 0)
			assert.GreaterOrEqual(t, w.WorkOverlapStart, 450)
			assert.LessOrEqual(t, w.WorkOverlapEnd, 960)
			assert.Equal(t, w.Start+WindowSize, w.End)
		}
	}
}

// A trigger anchored the previous evening lays its first window across
// midnight so it can warm up before work starts.
func TestWindowsForTrigger_PreviousEveningAnchor(t *testing.T) {
	windows := WindowsForTrigger(1350, 450, 960) // 22:30 the evening before

	// Windows start at -90, 210, 510, 810, ... on the offset axis; the one
	// spanning midnight ends before work starts and is discarded.
	require.Len(t, windows, 3)
	assert.Equal(t, 210, windows[0].Start)
	assert.Equal(t, 450, windows[0].WorkOverlapStart)
	assert.Equal(t, 510, windows[1].Start)
	assert.Equal(t, 810, windows[2].Start)
	assert.Equal(t, 960, windows[2].WorkOverlapEnd)
}

func TestExpectedWindowUsage(t *testing.T) {
	var profile HourlyProfile
	profile[8] = 60
	profile[9] = 30

	w := Window{Start: 450, End: 750, WorkOverlapStart: 480, WorkOverlapEnd: 570}
	// Full hour 8 (60 min) plus half of hour 9 (30 min).
	assert.InDelta(t, 60.0+15.0, ExpectedWindowUsage(profile, w), 1e-9)

	empty := Window{Start: 0, End: 300, WorkOverlapStart: 100, WorkOverlapEnd: 100}
	assert.Zero(t, ExpectedWindowUsage(profile, empty))
}
