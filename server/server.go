// Package server wires the scheduler loop, the adaptive learner, and the
// local status API into one daemon.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mm-zacharydavison/claude-code-maximizer/adaptive"
	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
	"github.com/mm-zacharydavison/claude-code-maximizer/metrics"
	"github.com/mm-zacharydavison/claude-code-maximizer/plugin/launcher"
	"github.com/mm-zacharydavison/claude-code-maximizer/plugin/notifier"
	"github.com/mm-zacharydavison/claude-code-maximizer/scheduler"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

// adaptiveCheckInterval is how often the daemon asks the learner whether an
// adjustment is due. The learner itself enforces the 7-day spacing.
const adaptiveCheckInterval = time.Hour

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	collector  *metrics.Collector
	scheduler  *scheduler.Scheduler
	learner    *adaptive.Learner
	notifier   notifier.Notifier

	group      *errgroup.Group
	loopCancel context.CancelFunc
}

func NewServer(_ context.Context, instanceProfile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	channels := []notifier.Notifier{notifier.NewLogNotifier()}
	if instanceProfile.TelegramBotToken != "" && instanceProfile.TelegramChatID != 0 {
		tg, err := notifier.NewTelegramNotifier(instanceProfile.TelegramBotToken, instanceProfile.TelegramChatID)
		if err != nil {
			slog.Warn("telegram notifier disabled", "error", err)
		} else {
			channels = append(channels, tg)
			slog.Info("telegram notifier enabled", "chat_id", instanceProfile.TelegramChatID)
		}
	}
	multi := notifier.NewMulti(channels...)

	probe := scheduler.NewCachedProbe(storeInstance)
	collector := metrics.NewCollector()
	actions := &sessionActions{
		launcher: launcher.NewCommandLauncher(instanceProfile.LaunchCommand),
		notifier: multi,
		store:    storeInstance,
		probe:    probe,
	}

	s := &Server{
		Profile:   instanceProfile,
		Store:     storeInstance,
		collector: collector,
		scheduler: scheduler.New(storeInstance, probe, actions, collector),
		learner:   adaptive.NewLearner(storeInstance),
		notifier:  multi,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	s.registerRoutes(e)
	s.echoServer = e

	return s, nil
}

// Start launches the tick loop, the adaptive cadence check, and the HTTP
// server, then returns. Failures inside the group are logged; the loops stop
// on Shutdown or when the parent context is canceled.
func (s *Server) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	s.loopCancel = cancel

	group, groupCtx := errgroup.WithContext(loopCtx)
	s.group = group

	group.Go(func() error { return s.runTickLoop(groupCtx) })
	group.Go(func() error { return s.runAdaptiveLoop(groupCtx) })
	group.Go(func() error {
		address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "start http server")
		}
		return nil
	})

	return nil
}

// Shutdown stops the loops, drains the HTTP server, and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	if s.loopCancel != nil {
		s.loopCancel()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown http server", "error", err)
	}

	if s.group != nil {
		if err := s.group.Wait(); err != nil {
			slog.Error("daemon loop exited with error", "error", err)
		}
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("ccmax stopped properly")
}

func (s *Server) runTickLoop(ctx context.Context) error {
	interval := time.Duration(s.Profile.TickIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("scheduler tick loop started", "interval", interval.String())
	s.scheduler.Tick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.scheduler.Tick(ctx, time.Now())
		}
	}
}

func (s *Server) runAdaptiveLoop(ctx context.Context) error {
	ticker := time.NewTicker(adaptiveCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			if !s.learner.ShouldRunAdjustment(ctx, now) {
				continue
			}
			result := s.learner.RunAdjustment(ctx, now)
			if !result.Adjusted {
				slog.Info("adaptive adjustment skipped", "reason", result.Reason)
				continue
			}
			s.collector.Adjustment()
			message := fmt.Sprintf("%s (trend: %s)", result.Reason, result.Diagnostics.Trend)
			if err := s.notifier.Notify(ctx, notifier.Event{
				Kind:    notifier.KindScheduleAdjusted,
				Title:   "Schedule adjusted",
				Message: message,
			}); err != nil {
				slog.Error("failed to notify schedule adjustment", "error", err)
			}
		}
	}
}
