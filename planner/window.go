package planner

import "github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"

// WindowsForTrigger generates the accounting windows produced by a trigger
// time, keeping only those that overlap the work interval [workStart,
// workEnd). A trigger in [1440-WindowSize, 1440) is treated as anchored the
// previous evening, so its windows are laid out starting before today's
// midnight.
func WindowsForTrigger(trigger, workStart, workEnd int) []Window {
	offset := timeutil.WrapMinute(trigger)
	if offset >= timeutil.MinutesPerDay-WindowSize {
		offset -= timeutil.MinutesPerDay
	}

	var windows []Window
	for i := 0; i < MaxWindowsPerTrigger; i++ {
		start := offset + i*WindowSize
		end := start + WindowSize

		overlapStart := max(start, workStart)
		overlapEnd := min(end, workEnd)
		if overlapEnd <= overlapStart {
			continue
		}

		windows = append(windows, Window{
			Start:            timeutil.WrapMinute(start),
			End:              timeutil.WrapMinute(start) + WindowSize,
			WorkOverlapStart: overlapStart,
			WorkOverlapEnd:   overlapEnd,
		})
	}
	return windows
}

// ExpectedWindowUsage estimates the usage a window will accrue during its
// work overlap: each hour's profile value weighted by the fraction of that
// hour inside the overlap. Additive across disjoint hour slices.
func ExpectedWindowUsage(profile HourlyProfile, w Window) float64 {
	var total float64
	for h := 0; h < 24; h++ {
		hourStart := h * 60
		hourEnd := hourStart + 60
		from := max(hourStart, w.WorkOverlapStart)
		to := min(hourEnd, w.WorkOverlapEnd)
		if to > from {
			total += profile[h] * float64(to-from) / 60.0
		}
	}
	return total
}
