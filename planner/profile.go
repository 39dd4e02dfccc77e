package planner

import "sort"

// BuildHourlyProfile reconstructs true per-hour usage from cumulative samples
// and the historical windows they were observed in.
//
// Samples count up within a window and reset at window boundaries, so the
// walk tracks which window (if any) each sample fell into and resets its
// running baseline whenever that identity changes, including transitions to
// and from "no window". Hours with no data stay at zero; empty input yields
// the all-zero profile.
func BuildHourlyProfile(samples []Sample, windows []Span) HourlyProfile {
	var profile HourlyProfile
	if len(samples) == 0 {
		return profile
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ObservedAt.Before(sorted[j].ObservedAt)
	})

	spans := make([]Span, len(windows))
	copy(spans, windows)
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start.Before(spans[j].Start)
	})

	sums := [24]float64{}
	counts := [24]int{}

	baseline := 0.0
	currentWindow := -1
	for _, s := range sorted {
		id := windowIdentity(spans, s)
		if id != currentWindow {
			baseline = 0
			currentWindow = id
		}

		usage := s.CumulativePct - baseline
		if usage < 0 {
			usage = 0
		}
		baseline = s.CumulativePct

		h := s.ObservedAt.Hour()
		sums[h] += usage
		counts[h]++
	}

	for h := 0; h < 24; h++ {
		if counts[h] > 0 {
			profile[h] = sums[h] / float64(counts[h])
		}
	}
	return profile
}

// windowIdentity returns the index of the first sorted span whose [Start,
// End) contains the sample's timestamp, or -1 when the sample falls outside
// every window.
func windowIdentity(spans []Span, s Sample) int {
	for i, span := range spans {
		if !s.ObservedAt.Before(span.Start) && s.ObservedAt.Before(span.End) {
			return i
		}
	}
	return -1
}
