package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/plugin/launcher"
	"github.com/mm-zacharydavison/claude-code-maximizer/plugin/notifier"
	"github.com/mm-zacharydavison/claude-code-maximizer/planner"
	"github.com/mm-zacharydavison/claude-code-maximizer/scheduler"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

// sessionActions connects the scheduler's outward calls to the launcher, the
// window history, and the notification channels.
type sessionActions struct {
	launcher *launcher.CommandLauncher
	notifier notifier.Notifier
	store    *store.Store
	probe    *scheduler.CachedProbe
}

// StartSession runs the launch command, records the new usage window, and
// primes the probe cache so the next tick sees it active immediately.
func (a *sessionActions) StartSession(ctx context.Context) error {
	if err := a.launcher.StartSession(ctx); err != nil {
		return errors.Wrap(err, "launch session")
	}

	now := time.Now()
	end := now.Add(planner.WindowSize * time.Minute)
	if _, err := a.store.CreateUsageWindow(ctx, &store.UsageWindow{
		StartTs: now.Unix(),
		EndTs:   end.Unix(),
	}); err != nil {
		// The session is already running; losing the record only degrades
		// future profile building.
		slog.Error("failed to record usage window", "error", err)
	}
	a.probe.RecordWindowEnd(end)
	a.bumpStartCounter(ctx)

	if err := a.notifier.Notify(ctx, notifier.Event{
		Kind:    notifier.KindSessionStarted,
		Title:   "Session started",
		Message: fmt.Sprintf("Usage window open until %s.", end.Format("15:04")),
	}); err != nil {
		slog.Error("failed to notify session start", "error", err)
	}
	return nil
}

// bumpStartCounter keeps a lifetime auto-start count in the baseline stats.
func (a *sessionActions) bumpStartCounter(ctx context.Context) {
	const key = "auto_start_count"
	count, err := a.store.GetBaselineStat(ctx, key)
	if err != nil {
		slog.Error("failed to read baseline stat", "key", key, "error", err)
		return
	}
	next := 1.0
	if count != nil {
		next = *count + 1
	}
	if err := a.store.SetBaselineStat(ctx, key, next); err != nil {
		slog.Error("failed to persist baseline stat", "key", key, "error", err)
	}
}

func (a *sessionActions) WarnWindowEnding(ctx context.Context, minutesLeft int) error {
	return a.notifier.Notify(ctx, notifier.Event{
		Kind:    notifier.KindWindowEnding,
		Title:   "Usage window ending",
		Message: fmt.Sprintf("About %d minutes left in the current window.", minutesLeft),
	})
}

var _ scheduler.Actions = (*sessionActions)(nil)
