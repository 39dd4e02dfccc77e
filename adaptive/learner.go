// Package adaptive periodically re-optimizes trigger times from recent usage
// history and blends the result into the persisted schedule.
package adaptive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
	"github.com/mm-zacharydavison/claude-code-maximizer/planner"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

const (
	// LookbackDays is how much history feeds each re-optimization.
	LookbackDays = 14

	// MinSamples is the minimum number of hourly samples in the lookback
	// window before an adjustment is attempted.
	MinSamples = 10

	// AdjustmentInterval is the minimum spacing between adjustments.
	AdjustmentInterval = 7 * 24 * time.Hour

	// TrendThresholdMinutes separates a real earlier/later drift from noise.
	TrendThresholdMinutes = 15
)

// Store is the persistence surface the learner needs.
type Store interface {
	GetWorkingHours(ctx context.Context) (*store.WorkingHours, error)
	GetOptimalStartTimes(ctx context.Context) (*store.OptimalStartTimes, error)
	SetOptimalStartTimes(ctx context.Context, times *store.OptimalStartTimes) error
	GetAdjustmentMeta(ctx context.Context) (*store.AdjustmentMeta, error)
	SetAdjustmentMeta(ctx context.Context, meta *store.AdjustmentMeta) error
	GetHourlyUsageSince(ctx context.Context, since time.Time) ([]*store.HourlyUsage, error)
	GetWindowsSince(ctx context.Context, since time.Time) ([]*store.UsageWindow, error)
}

// DayChange records one weekday's trigger adjustment.
type DayChange struct {
	Day     time.Weekday `json:"day"`
	Old     *string      `json:"old,omitempty"`
	New     string       `json:"new"`
	Blended string       `json:"blended"`
}

// Diagnostics carries informational detail about an adjustment run.
type Diagnostics struct {
	SampleCount     int     `json:"sampleCount"`
	WindowCount     int     `json:"windowCount"`
	LookbackDays    int     `json:"lookbackDays"`
	AvgShiftMinutes float64 `json:"avgShiftMinutes"`
	Trend           string  `json:"trend"`
}

// AdjustmentResult reports what an adjustment run did and why.
type AdjustmentResult struct {
	RunID       string      `json:"runId"`
	Adjusted    bool        `json:"adjusted"`
	Reason      string      `json:"reason"`
	Changes     []DayChange `json:"changes,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Learner owns the periodic adaptive adjustment.
type Learner struct {
	store  Store
	logger *slog.Logger
}

func NewLearner(st Store) *Learner {
	return &Learner{
		store:  st,
		logger: slog.With("component", "adaptive"),
	}
}

// ShouldRunAdjustment reports whether an adjustment is due: auto-adjust is
// enabled and at least AdjustmentInterval has passed since the last run (or
// one has never run). Store errors are logged and treated as "not due".
func (l *Learner) ShouldRunAdjustment(ctx context.Context, now time.Time) bool {
	wh, err := l.store.GetWorkingHours(ctx)
	if err != nil {
		l.logger.Error("failed to read working hours", "error", err)
		return false
	}
	if !wh.AutoAdjust {
		return false
	}
	meta, err := l.store.GetAdjustmentMeta(ctx)
	if err != nil {
		l.logger.Error("failed to read adjustment meta", "error", err)
		return false
	}
	if meta.LastAdjustment == nil {
		return true
	}
	return now.Sub(*meta.LastAdjustment) >= AdjustmentInterval
}

// RunAdjustment recomputes the optimal trigger for every configured workday
// from the last LookbackDays of history and blends each recommendation into
// the persisted schedule. Guard conditions produce a no-op result with an
// explanatory reason; the method never panics or returns an error.
func (l *Learner) RunAdjustment(ctx context.Context, now time.Time) *AdjustmentResult {
	result := &AdjustmentResult{
		RunID:       uuid.NewString(),
		Diagnostics: Diagnostics{LookbackDays: LookbackDays, Trend: "stable"},
	}

	wh, err := l.store.GetWorkingHours(ctx)
	if err != nil {
		l.logger.Error("failed to read working hours", "error", err)
		result.Reason = "failed to read working hours"
		return result
	}
	if !wh.AutoAdjust {
		result.Reason = "auto-adjust disabled"
		return result
	}
	if wh.Manual && !wh.BlendWithUsage {
		result.Reason = "manual working hours with usage blending disabled"
		return result
	}

	since := now.AddDate(0, 0, -LookbackDays)
	samples, err := l.store.GetHourlyUsageSince(ctx, since)
	if err != nil {
		l.logger.Error("failed to read hourly usage", "error", err)
		result.Reason = "failed to read usage history"
		return result
	}
	result.Diagnostics.SampleCount = len(samples)
	if len(samples) < MinSamples {
		result.Reason = "insufficient data"
		return result
	}

	windows, err := l.store.GetWindowsSince(ctx, since)
	if err != nil {
		l.logger.Error("failed to read usage windows", "error", err)
		result.Reason = "failed to read window history"
		return result
	}
	result.Diagnostics.WindowCount = len(windows)

	profile := planner.BuildHourlyProfile(toSamples(samples), toSpans(windows))

	times, err := l.store.GetOptimalStartTimes(ctx)
	if err != nil {
		l.logger.Error("failed to read optimal start times", "error", err)
		result.Reason = "failed to read schedule"
		return result
	}

	var shifts []float64
	changed := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		workStart, workEnd, ok := wh.HoursFor(day)
		if !ok {
			continue
		}

		opt := planner.FindOptimalTrigger(profile, workStart, workEnd)
		var proposed *int
		if len(opt.Windows) > 0 {
			start := opt.Windows[0].Start
			proposed = &start
		}

		current := times.MinutesFor(day)
		if current != nil && proposed != nil {
			shifts = append(shifts, float64(*proposed-*current))
		}

		blended := BlendMinutes(current, proposed)
		if blended == nil || (current != nil && *blended == *current) {
			continue
		}

		times.SetMinutes(day, *blended)
		changed++
		change := DayChange{
			Day:     day,
			Old:     clockOrNil(current),
			New:     formatMinutes(proposed),
			Blended: formatMinutes(blended),
		}
		result.Changes = append(result.Changes, change)
		l.logger.Info("trigger time adjusted",
			"day", day.String(),
			"old", change.Old,
			"new", change.New,
			"blended", change.Blended)
	}

	result.Diagnostics.AvgShiftMinutes, result.Diagnostics.Trend = classifyTrend(shifts)

	if changed == 0 {
		result.Reason = "no significant change"
		return result
	}

	if err := l.store.SetOptimalStartTimes(ctx, times); err != nil {
		l.logger.Error("failed to persist optimal start times", "error", err)
		result.Reason = "failed to persist schedule"
		result.Changes = nil
		return result
	}

	meta, err := l.store.GetAdjustmentMeta(ctx)
	if err != nil {
		l.logger.Error("failed to read adjustment meta", "error", err)
		meta = &store.AdjustmentMeta{}
	}
	meta.LastAdjustment = &now
	meta.AdjustmentCount++
	if err := l.store.SetAdjustmentMeta(ctx, meta); err != nil {
		l.logger.Error("failed to persist adjustment meta", "error", err)
	}

	result.Adjusted = true
	result.Reason = fmt.Sprintf("adjusted %d day(s)", changed)
	return result
}

// classifyTrend averages the signed minute shifts across days that have both
// an old and a new time, and labels drifts beyond the threshold.
func classifyTrend(shifts []float64) (avg float64, trend string) {
	if len(shifts) == 0 {
		return 0, "stable"
	}
	for _, s := range shifts {
		avg += s
	}
	avg /= float64(len(shifts))
	switch {
	case avg < -TrendThresholdMinutes:
		return avg, "earlier"
	case avg > TrendThresholdMinutes:
		return avg, "later"
	default:
		return avg, "stable"
	}
}

func toSamples(records []*store.HourlyUsage) []planner.Sample {
	samples := make([]planner.Sample, 0, len(records))
	for _, r := range records {
		samples = append(samples, planner.Sample{
			CumulativePct: r.CumulativePct,
			ObservedAt:    time.Unix(r.ObservedTs, 0),
		})
	}
	return samples
}

func toSpans(windows []*store.UsageWindow) []planner.Span {
	spans := make([]planner.Span, 0, len(windows))
	for _, w := range windows {
		spans = append(spans, planner.Span{
			Start: time.Unix(w.StartTs, 0),
			End:   time.Unix(w.EndTs, 0),
		})
	}
	return spans
}

func clockOrNil(minutes *int) *string {
	if minutes == nil {
		return nil
	}
	clock := formatMinutes(minutes)
	return &clock
}

func formatMinutes(minutes *int) string {
	if minutes == nil {
		return ""
	}
	return timeutil.FormatClock(*minutes)
}
