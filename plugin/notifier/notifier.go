// Package notifier delivers scheduler events to the user over one or more
// channels.
package notifier

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// Kind classifies a notification.
type Kind string

const (
	KindSessionStarted   Kind = "session_started"
	KindWindowEnding     Kind = "window_ending"
	KindScheduleAdjusted Kind = "schedule_adjusted"
)

// Event is one user-facing notification.
type Event struct {
	Kind    Kind
	Title   string
	Message string
}

// Notifier delivers events to a single channel.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the structured log. It is always present so
// every event leaves a trace even with no external channel configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: slog.With("component", "notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.logger.Info(event.Title, "kind", string(event.Kind), "message", event.Message)
	return nil
}

// Multi fans an event out to every channel. Each channel gets a delivery
// attempt regardless of earlier failures; the first error is returned.
type Multi struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{
		notifiers: notifiers,
		logger:    slog.With("component", "notifier"),
	}
}

func (m *Multi) Notify(ctx context.Context, event Event) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			m.logger.Error("notification delivery failed",
				"kind", string(event.Kind), "error", err)
			if firstErr == nil {
				firstErr = errors.Wrap(err, "deliver notification")
			}
		}
	}
	return firstErr
}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*Multi)(nil)
)
