package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

// WindowSource is the authoritative record of usage windows.
type WindowSource interface {
	GetCurrentWindow(ctx context.Context, at time.Time) (*store.UsageWindow, error)
}

const (
	// windowEndKey is the single cache slot holding the current window's
	// end timestamp.
	windowEndKey = "current-window-end"

	// probeCacheTTL bounds how long a cached answer is served. A cached
	// "active" can only turn stale in the safe direction (the window ended)
	// within the TTL, since windows never end early.
	probeCacheTTL = 5 * time.Minute

	// freshFetchInterval floors how often the authoritative source is hit.
	freshFetchInterval = 30 * time.Second
)

// CachedProbe is an ActivityProbe that fronts a WindowSource with a small
// expiring cache and a rate limit on fresh fetches.
type CachedProbe struct {
	source  WindowSource
	cache   *otter.Cache[string, int64]
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewCachedProbe(source WindowSource) *CachedProbe {
	cache := otter.Must(&otter.Options[string, int64]{
		MaximumSize:      8,
		InitialCapacity:  8,
		ExpiryCalculator: otter.ExpiryWriting[string, int64](probeCacheTTL),
	})
	return &CachedProbe{
		source:  source,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Every(freshFetchInterval), 1),
		logger:  slog.With("component", "activity_probe"),
	}
}

// PeekCachedActive reports whether the cached window end, if any, is still in
// the future.
func (p *CachedProbe) PeekCachedActive(now time.Time) (bool, bool) {
	endTs, ok := p.cache.GetIfPresent(windowEndKey)
	if !ok {
		return false, false
	}
	return endTs > now.Unix(), true
}

// FetchFreshActive queries the window source with retries and refreshes the
// cache from the answer. A rate-limited or failed fetch returns an error so
// the caller can decline to act rather than guess.
func (p *CachedProbe) FetchFreshActive(ctx context.Context, now time.Time) (bool, error) {
	if !p.limiter.Allow() {
		return false, errors.New("fresh activity check rate limited")
	}

	var window *store.UsageWindow
	err := retry.Do(
		func() error {
			var err error
			window, err = p.source.GetCurrentWindow(ctx, now)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("current window lookup retry", "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return false, errors.Wrap(err, "fetch current window")
	}

	if window == nil {
		p.cache.Invalidate(windowEndKey)
		return false, nil
	}
	p.cache.Set(windowEndKey, window.EndTs)
	return window.EndTs > now.Unix(), nil
}

// RecordWindowEnd primes the cache when the daemon itself starts a window, so
// the next tick sees it active without a fresh fetch.
func (p *CachedProbe) RecordWindowEnd(end time.Time) {
	p.cache.Set(windowEndKey, end.Unix())
}
