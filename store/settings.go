package store

import (
	"time"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
)

// SettingName identifies one persisted configuration blob.
type SettingName string

const (
	SettingWorkingHours      SettingName = "working-hours"
	SettingOptimalStartTimes SettingName = "optimal-start-times"
	SettingSchedulerState    SettingName = "scheduler-state"
	SettingAdjustmentMeta    SettingName = "adjustment-meta"
	SettingBaselineStats     SettingName = "baseline-stats"
)

// SystemSetting is one named JSON configuration value.
type SystemSetting struct {
	Name  SettingName
	Value string
}

// DayHours is one weekday's configured work interval, "HH:MM" clock strings.
type DayHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours is the user's schedule configuration.
type WorkingHours struct {
	// Enabled gates the scheduler's auto-start check entirely.
	Enabled bool `json:"enabled"`
	// AutoAdjust gates the periodic adaptive adjustment.
	AutoAdjust bool `json:"autoAdjust"`
	// BlendWithUsage allows the learner to blend recommendations into
	// manually configured hours.
	BlendWithUsage bool `json:"blendWithUsage"`
	// Manual marks the hours as user-entered rather than learned.
	Manual bool `json:"manual"`
	// Days maps time.Weekday (Sunday=0) to that day's hours; nil entries are
	// non-working days.
	Days [7]*DayHours `json:"days"`
}

// HoursFor parses the configured interval for day into minutes-of-day.
// Returns ok=false for non-working days and misconfigured entries
// (unparseable clocks or end <= start), which are skipped rather than fatal.
func (w *WorkingHours) HoursFor(day time.Weekday) (start, end int, ok bool) {
	hours := w.Days[int(day)]
	if hours == nil {
		return 0, 0, false
	}
	start, err := timeutil.ParseClock(hours.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = timeutil.ParseClock(hours.End)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// HasConfiguredDays reports whether any weekday has hours set.
func (w *WorkingHours) HasConfiguredDays() bool {
	for _, d := range w.Days {
		if d != nil {
			return true
		}
	}
	return false
}

// OptimalStartTimes holds one optional "HH:MM" trigger per weekday
// (Sunday=0). A nil entry means no scheduled trigger that day.
type OptimalStartTimes struct {
	Days [7]*string `json:"days"`
}

// MinutesFor returns the day's trigger as minutes-of-day, or nil when unset
// or unparseable.
func (o *OptimalStartTimes) MinutesFor(day time.Weekday) *int {
	clock := o.Days[int(day)]
	if clock == nil {
		return nil
	}
	minutes, err := timeutil.ParseClock(*clock)
	if err != nil {
		return nil
	}
	return &minutes
}

// SetMinutes records the day's trigger from minutes-of-day.
func (o *OptimalStartTimes) SetMinutes(day time.Weekday, minutes int) {
	clock := timeutil.FormatClock(minutes)
	o.Days[int(day)] = &clock
}

// SchedulerState is the scheduler's persisted live state. It is the single
// source of truth across restarts; the in-memory warning-dedup timestamp
// deliberately does not live here.
type SchedulerState struct {
	LastAutoStart      *time.Time `json:"lastAutoStart,omitempty"`
	CurrentWindowStart *time.Time `json:"currentWindowStart,omitempty"`
	CurrentWindowEnd   *time.Time `json:"currentWindowEnd,omitempty"`
}

// AdjustmentMeta records the adaptive learner's bookkeeping.
type AdjustmentMeta struct {
	LastAdjustment  *time.Time `json:"lastAdjustment,omitempty"`
	AdjustmentCount int64      `json:"adjustmentCount"`
}
