// Package planner reconstructs per-hour usage profiles from history and
// searches for the trigger time that keeps every resulting accounting window
// within quota. All functions are pure: no I/O, no shared state, safe from
// any goroutine.
package planner

import "time"

const (
	// WindowSize is the fixed length of a usage-accounting window in minutes.
	WindowSize = 300

	// Quota is the normalized usage budget per window.
	Quota = 100.0

	// TimeGranularity is the candidate-trigger step in minutes.
	TimeGranularity = 15

	// MaxWindowsPerTrigger bounds how many consecutive windows a single
	// trigger is evaluated against.
	MaxWindowsPerTrigger = 6
)

// HourlyProfile maps hour-of-day (0-23) to expected usage percentage.
// Values are >= 0 and may exceed 100 for pathological histories.
type HourlyProfile [24]float64

// Window is one usage-accounting window. Start is a minute-of-day; End is
// Start + WindowSize and may exceed 1440 when the window spills past
// midnight. The work-overlap fields are the intersection with the configured
// work interval and always lie inside [0, 1440).
type Window struct {
	Start            int
	End              int
	WorkOverlapStart int
	WorkOverlapEnd   int
}

// OverlapMinutes returns the length of the window's work overlap.
func (w Window) OverlapMinutes() int {
	return w.WorkOverlapEnd - w.WorkOverlapStart
}

// OptimizationResult is the outcome of a trigger search.
type OptimizationResult struct {
	// TriggerTime is a minute-of-day. Triggers in [1440-WindowSize, 1440)
	// anchor the previous evening so the first window can warm up before
	// work starts.
	TriggerTime int
	BucketCount int
	MinSlack    float64
	IsValid     bool
	Windows     []Window
}

// Sample is one cumulative hourly usage observation. CumulativePct counts up
// within a window and resets to zero at window boundaries.
type Sample struct {
	CumulativePct float64
	ObservedAt    time.Time
}

// Span is one historical window's wall-clock bounds, [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}
