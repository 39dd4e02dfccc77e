// Package scheduler decides, once per tick, whether to start a new usage
// window and whether to warn that the active window is about to expire.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
	"github.com/mm-zacharydavison/claude-code-maximizer/metrics"
	"github.com/mm-zacharydavison/claude-code-maximizer/planner"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

const (
	// AutoStartCooldown is the minimum spacing between automatic session
	// starts.
	AutoStartCooldown = 60 * time.Minute

	// warnDedupeInterval suppresses repeat expiry warnings.
	warnDedupeInterval = 2 * time.Minute
)

// warnThresholds are the minutes-remaining marks that trigger an expiry
// warning, checked in descending order.
var warnThresholds = []int{30, 15, 5}

// Store is the persistence surface the scheduler reads fresh every tick.
type Store interface {
	GetWorkingHours(ctx context.Context) (*store.WorkingHours, error)
	GetOptimalStartTimes(ctx context.Context) (*store.OptimalStartTimes, error)
	GetSchedulerState(ctx context.Context) (*store.SchedulerState, error)
	SetSchedulerState(ctx context.Context, state *store.SchedulerState) error
}

// ActivityProbe answers "is a usage window currently active" in two stages:
// a cheap cached read and an expensive fresh fetch. A cached "active" is
// trusted outright because a window cannot spuriously end early; anything
// else falls through to the fresh fetch.
type ActivityProbe interface {
	// PeekCachedActive returns the cached answer and whether one exists.
	PeekCachedActive(now time.Time) (active bool, ok bool)
	// FetchFreshActive queries the authoritative source.
	FetchFreshActive(ctx context.Context, now time.Time) (bool, error)
}

// Actions are the outward calls the scheduler makes.
type Actions interface {
	// StartSession begins a new usage window externally. It is invoked
	// fire-and-forget; failures are logged, never raised into the tick.
	StartSession(ctx context.Context) error
	// WarnWindowEnding notifies that the active window expires soon.
	WarnWindowEnding(ctx context.Context, minutesLeft int) error
}

// Scheduler is the per-tick state machine. It holds no trusted cross-tick
// state except the in-memory warning-dedup timestamp, which dies with the
// process by design; everything else is re-read from the store each tick.
type Scheduler struct {
	store     Store
	probe     ActivityProbe
	actions   Actions
	collector *metrics.Collector
	logger    *slog.Logger

	lastWarningAt time.Time
}

// New creates a scheduler. collector may be nil.
func New(st Store, probe ActivityProbe, actions Actions, collector *metrics.Collector) *Scheduler {
	return &Scheduler{
		store:     st,
		probe:     probe,
		actions:   actions,
		collector: collector,
		logger:    slog.With("component", "scheduler"),
	}
}

// Tick runs both sub-checks. Each is individually guarded so a failure in
// one can never suppress the other, and nothing escapes past the tick.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	started := time.Now()
	s.runGuarded("auto_start", func() { s.checkAutoStart(ctx, now) })
	s.runGuarded("expiry_warning", func() { s.checkExpiryWarning(ctx, now) })
	if s.collector != nil {
		s.collector.ObserveTick(time.Since(started))
	}
}

func (s *Scheduler) runGuarded(check string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tick sub-check panicked", "check", check, "panic", r)
			if s.collector != nil {
				s.collector.CheckError(check)
			}
		}
	}()
	fn()
}

func (s *Scheduler) checkAutoStart(ctx context.Context, now time.Time) {
	wh, err := s.store.GetWorkingHours(ctx)
	if err != nil {
		s.fail("auto_start", "failed to read working hours", err)
		return
	}
	if !wh.Enabled {
		return
	}

	state, err := s.store.GetSchedulerState(ctx)
	if err != nil {
		s.fail("auto_start", "failed to read scheduler state", err)
		return
	}
	if state.CurrentWindowEnd != nil && state.CurrentWindowEnd.After(now) {
		s.skip("window_active")
		return
	}

	nowMinute := timeutil.MinuteOfDay(now)
	for _, trigger := range s.todayTriggers(ctx, now, wh) {
		if timeutil.RingDistance(trigger, nowMinute) >= planner.WindowSize {
			continue
		}

		// First matching trigger decides this tick.
		if state.LastAutoStart != nil && now.Sub(*state.LastAutoStart) < AutoStartCooldown {
			s.skip("cooldown")
			return
		}

		active, ok := s.probe.PeekCachedActive(now)
		if !ok || !active {
			active, err = s.probe.FetchFreshActive(ctx, now)
			if err != nil {
				// Never guess on a failed fetch: no auto-start this tick.
				s.fail("auto_start", "fresh activity check failed", err)
				return
			}
		}
		if active {
			s.skip("already_active")
			return
		}

		windowEnd := now.Add(planner.WindowSize * time.Minute)
		state.LastAutoStart = &now
		state.CurrentWindowStart = &now
		state.CurrentWindowEnd = &windowEnd
		if err := s.store.SetSchedulerState(ctx, state); err != nil {
			s.fail("auto_start", "failed to persist scheduler state", err)
			return
		}

		s.logger.Info("starting session", "trigger", timeutil.FormatClock(trigger))
		if s.collector != nil {
			s.collector.AutoStart()
		}
		go s.startSession()
		return
	}
}

// startSession fires the outward action without awaiting it from the tick.
// Re-triggering while it still runs is harmless: the cooldown and the
// active-window check make the next attempt a no-op.
func (s *Scheduler) startSession() {
	if err := s.actions.StartSession(context.Background()); err != nil {
		s.logger.Error("session start failed", "error", err)
		return
	}
	s.logger.Info("session started")
}

// todayTriggers returns today's ordered trigger times in minutes-of-day.
func (s *Scheduler) todayTriggers(ctx context.Context, now time.Time, wh *store.WorkingHours) []int {
	times, err := s.store.GetOptimalStartTimes(ctx)
	if err != nil {
		s.fail("auto_start", "failed to read optimal start times", err)
		return nil
	}
	return TriggersForDay(wh, times, now.Weekday())
}

// TriggersForDay returns the ordered trigger minutes for one weekday. With
// valid working hours the day's optimal start expands into one trigger per
// accounting window; without them the optimal start alone is used.
func TriggersForDay(wh *store.WorkingHours, times *store.OptimalStartTimes, day time.Weekday) []int {
	first := times.MinutesFor(day)
	if first == nil {
		return nil
	}

	workStart, workEnd, ok := wh.HoursFor(day)
	if !ok {
		return []int{*first}
	}

	// The configured start always triggers, even when its own window holds
	// no working time (a previous-evening anchor); later accounting windows
	// add one trigger each.
	triggers := []int{*first}
	for _, w := range planner.WindowsForTrigger(*first, workStart, workEnd) {
		if w.Start != *first {
			triggers = append(triggers, w.Start)
		}
	}
	return triggers
}

func (s *Scheduler) checkExpiryWarning(ctx context.Context, now time.Time) {
	state, err := s.store.GetSchedulerState(ctx)
	if err != nil {
		s.fail("expiry_warning", "failed to read scheduler state", err)
		return
	}
	if state.CurrentWindowEnd == nil || !state.CurrentWindowEnd.After(now) {
		return
	}

	remaining := state.CurrentWindowEnd.Sub(now).Minutes()
	for _, threshold := range warnThresholds {
		if remaining <= float64(threshold)-1 || remaining > float64(threshold) {
			continue
		}
		if !s.lastWarningAt.IsZero() && now.Sub(s.lastWarningAt) < warnDedupeInterval {
			return
		}
		if err := s.actions.WarnWindowEnding(ctx, threshold); err != nil {
			s.logger.Error("window-ending warning failed", "error", err, "minutes_left", threshold)
		}
		s.lastWarningAt = now
		if s.collector != nil {
			s.collector.Warning(threshold)
		}
		// One warning per tick.
		return
	}
}

func (s *Scheduler) fail(check, msg string, err error) {
	s.logger.Error(msg, "error", err)
	if s.collector != nil {
		s.collector.CheckError(check)
	}
}

func (s *Scheduler) skip(reason string) {
	if s.collector != nil {
		s.collector.AutoStartSkipped(reason)
	}
}
