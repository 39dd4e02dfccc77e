// Package launcher starts a usage session by running an external command.
package launcher

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/pkg/errors"
)

const (
	// launchTimeout bounds a single launch attempt. The command is expected
	// to issue one request and exit, not to hold a session open.
	launchTimeout = 2 * time.Minute

	maxLoggedOutput = 512
)

// CommandLauncher runs a shell command to open a session. The command should
// make one inexpensive request so the provider opens a fresh usage window.
type CommandLauncher struct {
	command string
	logger  *slog.Logger
}

func NewCommandLauncher(command string) *CommandLauncher {
	return &CommandLauncher{
		command: command,
		logger:  slog.With("component", "launcher"),
	}
}

// StartSession runs the configured command, retrying transient failures.
func (l *CommandLauncher) StartSession(ctx context.Context) error {
	if l.command == "" {
		return errors.New("no launch command configured")
	}

	err := retry.Do(
		func() error { return l.runOnce(ctx) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(5*time.Second),
		retry.MaxDelay(time.Minute),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Warn("launch attempt failed", "attempt", n, "error", err)
		}),
	)
	return errors.Wrap(err, "run launch command")
}

func (l *CommandLauncher) runOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", l.command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "command output: %s", truncate(string(output)))
	}

	l.logger.Info("launch command completed", "output", truncate(string(output)))
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLoggedOutput {
		return s[:maxLoggedOutput] + "..."
	}
	return s
}
