package planner

import "github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"

// FindOptimalTrigger searches candidate trigger times for the one whose
// windows all stay within quota, preferring more usable windows and, on ties,
// a larger safety margin. Requires 0 <= workStart < workEnd < 1440; a
// violated precondition degrades to the fallback result instead of erroring.
//
// Candidates are every TimeGranularity minutes in [0, workStart], plus the
// previous-evening anchors [1440-WindowSize, 1440), evaluated in increasing
// minute-of-day order so ties resolve deterministically.
func FindOptimalTrigger(profile HourlyProfile, workStart, workEnd int) OptimizationResult {
	if workStart < 0 || workEnd <= workStart || workEnd >= timeutil.MinutesPerDay {
		return fallbackResult(profile, timeutil.WrapMinute(workStart), workEnd)
	}

	var best OptimizationResult
	found := false
	for _, t := range candidateTriggers(workStart) {
		candidate := evaluateTrigger(profile, t, workStart, workEnd)
		if !candidate.IsValid {
			continue
		}
		if !found ||
			candidate.BucketCount > best.BucketCount ||
			(candidate.BucketCount == best.BucketCount && candidate.MinSlack > best.MinSlack) {
			best = candidate
			found = true
		}
	}
	if !found {
		return fallbackResult(profile, workStart, workEnd)
	}
	return best
}

// candidateTriggers lists trigger candidates in increasing minute-of-day
// order: the day's own offsets first, then the previous-evening anchors.
func candidateTriggers(workStart int) []int {
	var candidates []int
	for t := 0; t <= workStart; t += TimeGranularity {
		candidates = append(candidates, t)
	}
	for t := timeutil.MinutesPerDay - WindowSize; t < timeutil.MinutesPerDay; t += TimeGranularity {
		candidates = append(candidates, t)
	}
	return candidates
}

func evaluateTrigger(profile HourlyProfile, trigger, workStart, workEnd int) OptimizationResult {
	windows := WindowsForTrigger(trigger, workStart, workEnd)
	result := OptimizationResult{
		TriggerTime: trigger,
		BucketCount: len(windows),
		Windows:     windows,
	}
	if len(windows) == 0 {
		return result
	}

	valid := true
	minSlack := Quota
	for _, w := range windows {
		slack := Quota - ExpectedWindowUsage(profile, w)
		if slack < 0 {
			valid = false
		}
		if slack < minSlack {
			minSlack = slack
		}
	}
	result.MinSlack = minSlack
	result.IsValid = valid
	return result
}

// fallbackResult is returned when no candidate keeps every window within
// quota: the trigger degrades to the start of work and IsValid reports the
// overrun. Never empty, never an error.
func fallbackResult(profile HourlyProfile, workStart, workEnd int) OptimizationResult {
	result := evaluateTrigger(profile, workStart, workStart, workEnd)
	result.IsValid = false
	return result
}
