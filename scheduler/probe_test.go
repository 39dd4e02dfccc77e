package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

type fakeWindowSource struct {
	window *store.UsageWindow
	errs   []error

	calls int
}

func (f *fakeWindowSource) GetCurrentWindow(context.Context, time.Time) (*store.UsageWindow, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.window, nil
}

func TestCachedProbe_FreshFetchPrimesCache(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	source := &fakeWindowSource{window: &store.UsageWindow{
		StartTs: now.Add(-time.Hour).Unix(),
		EndTs:   now.Add(2 * time.Hour).Unix(),
	}}
	probe := NewCachedProbe(source)

	_, ok := probe.PeekCachedActive(now)
	assert.False(t, ok, "cache starts empty")

	active, err := probe.FetchFreshActive(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, active)

	active, ok = probe.PeekCachedActive(now)
	assert.True(t, ok)
	assert.True(t, active)

	// Past the cached end the peek turns inactive without a fetch.
	active, ok = probe.PeekCachedActive(now.Add(3 * time.Hour))
	assert.True(t, ok)
	assert.False(t, active)
	assert.Equal(t, 1, source.calls)
}

func TestCachedProbe_NoWindowClearsCache(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	probe := NewCachedProbe(&fakeWindowSource{})
	probe.RecordWindowEnd(now.Add(time.Hour))

	active, err := probe.FetchFreshActive(context.Background(), now)
	require.NoError(t, err)
	assert.False(t, active)

	_, ok := probe.PeekCachedActive(now)
	assert.False(t, ok)
}

func TestCachedProbe_RateLimitsFreshFetches(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	source := &fakeWindowSource{}
	probe := NewCachedProbe(source)

	_, err := probe.FetchFreshActive(context.Background(), now)
	require.NoError(t, err)

	_, err = probe.FetchFreshActive(context.Background(), now)
	require.Error(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestCachedProbe_RetriesTransientErrors(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	source := &fakeWindowSource{
		errs: []error{errors.New("connection reset")},
		window: &store.UsageWindow{
			StartTs: now.Add(-time.Hour).Unix(),
			EndTs:   now.Add(time.Hour).Unix(),
		},
	}
	probe := NewCachedProbe(source)

	active, err := probe.FetchFreshActive(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, 2, source.calls)
}

func TestCachedProbe_RecordWindowEnd(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	probe := NewCachedProbe(&fakeWindowSource{})

	probe.RecordWindowEnd(now.Add(30 * time.Minute))

	active, ok := probe.PeekCachedActive(now)
	assert.True(t, ok)
	assert.True(t, active)
}
