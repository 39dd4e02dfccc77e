package adaptive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

// fakeStore is an in-memory adaptive.Store.
type fakeStore struct {
	workingHours store.WorkingHours
	times        store.OptimalStartTimes
	meta         store.AdjustmentMeta
	samples      []*store.HourlyUsage
	windows      []*store.UsageWindow

	setTimesCalls int
}

func (f *fakeStore) GetWorkingHours(context.Context) (*store.WorkingHours, error) {
	wh := f.workingHours
	return &wh, nil
}

func (f *fakeStore) GetOptimalStartTimes(context.Context) (*store.OptimalStartTimes, error) {
	times := f.times
	return &times, nil
}

func (f *fakeStore) SetOptimalStartTimes(_ context.Context, times *store.OptimalStartTimes) error {
	f.times = *times
	f.setTimesCalls++
	return nil
}

func (f *fakeStore) GetAdjustmentMeta(context.Context) (*store.AdjustmentMeta, error) {
	meta := f.meta
	return &meta, nil
}

func (f *fakeStore) SetAdjustmentMeta(_ context.Context, meta *store.AdjustmentMeta) error {
	f.meta = *meta
	return nil
}

func (f *fakeStore) GetHourlyUsageSince(context.Context, time.Time) ([]*store.HourlyUsage, error) {
	return f.samples, nil
}

func (f *fakeStore) GetWindowsSince(context.Context, time.Time) ([]*store.UsageWindow, error) {
	return f.windows, nil
}

func lightSamples(base time.Time, count int) []*store.HourlyUsage {
	samples := make([]*store.HourlyUsage, 0, count)
	for i := 0; i < count; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		samples = append(samples, &store.HourlyUsage{
			DateHourKey:   at.Format("2006-01-02-15"),
			CumulativePct: 5 * float64(i+1),
			ObservedTs:    at.Unix(),
		})
	}
	return samples
}

func mondayHours(start, end string) store.WorkingHours {
	wh := store.WorkingHours{Enabled: true, AutoAdjust: true, BlendWithUsage: true}
	wh.Days[int(time.Monday)] = &store.DayHours{Start: start, End: end}
	return wh
}

func TestShouldRunAdjustment(t *testing.T) {
	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)

	t.Run("disabled", func(t *testing.T) {
		f := &fakeStore{workingHours: store.WorkingHours{AutoAdjust: false}}
		assert.False(t, NewLearner(f).ShouldRunAdjustment(context.Background(), now))
	})

	t.Run("never run", func(t *testing.T) {
		f := &fakeStore{workingHours: store.WorkingHours{AutoAdjust: true}}
		assert.True(t, NewLearner(f).ShouldRunAdjustment(context.Background(), now))
	})

	t.Run("recently run", func(t *testing.T) {
		last := now.AddDate(0, 0, -3)
		f := &fakeStore{
			workingHours: store.WorkingHours{AutoAdjust: true},
			meta:         store.AdjustmentMeta{LastAdjustment: &last},
		}
		assert.False(t, NewLearner(f).ShouldRunAdjustment(context.Background(), now))
	})

	t.Run("due again", func(t *testing.T) {
		last := now.AddDate(0, 0, -8)
		f := &fakeStore{
			workingHours: store.WorkingHours{AutoAdjust: true},
			meta:         store.AdjustmentMeta{LastAdjustment: &last},
		}
		assert.True(t, NewLearner(f).ShouldRunAdjustment(context.Background(), now))
	})
}

func TestRunAdjustment_Guards(t *testing.T) {
	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)

	t.Run("auto-adjust disabled", func(t *testing.T) {
		f := &fakeStore{workingHours: store.WorkingHours{AutoAdjust: false}}
		result := NewLearner(f).RunAdjustment(context.Background(), now)
		assert.False(t, result.Adjusted)
		assert.Equal(t, "auto-adjust disabled", result.Reason)
	})

	t.Run("manual hours without blending", func(t *testing.T) {
		wh := mondayHours("09:00", "17:00")
		wh.Manual = true
		wh.BlendWithUsage = false
		f := &fakeStore{workingHours: wh}
		result := NewLearner(f).RunAdjustment(context.Background(), now)
		assert.False(t, result.Adjusted)
		assert.Equal(t, "manual working hours with usage blending disabled", result.Reason)
	})

	t.Run("insufficient data", func(t *testing.T) {
		f := &fakeStore{
			workingHours: mondayHours("09:00", "17:00"),
			samples:      lightSamples(now.AddDate(0, 0, -2), 4),
		}
		result := NewLearner(f).RunAdjustment(context.Background(), now)
		assert.False(t, result.Adjusted)
		assert.Equal(t, "insufficient data", result.Reason)
		assert.Equal(t, 4, result.Diagnostics.SampleCount)
		assert.Zero(t, f.setTimesCalls)
	})
}

func TestRunAdjustment_BlendsAndPersists(t *testing.T) {
	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)
	current := "10:00"

	f := &fakeStore{
		workingHours: mondayHours("07:30", "16:00"),
		samples:      lightSamples(now.AddDate(0, 0, -2).Truncate(24*time.Hour).Add(8*time.Hour), 12),
	}
	f.times.Days[int(time.Monday)] = &current

	result := NewLearner(f).RunAdjustment(context.Background(), now)

	require.True(t, result.Adjusted)
	assert.Equal(t, "adjusted 1 day(s)", result.Reason)
	require.Len(t, result.Changes, 1)

	change := result.Changes[0]
	assert.Equal(t, time.Monday, change.Day)
	require.NotNil(t, change.Old)
	assert.Equal(t, "10:00", *change.Old)
	assert.NotEmpty(t, change.New)
	assert.NotEqual(t, "10:00", change.Blended)

	// Only Monday is written; other days stay unset.
	require.NotNil(t, f.times.Days[int(time.Monday)])
	assert.Equal(t, change.Blended, *f.times.Days[int(time.Monday)])
	for day := 0; day < 7; day++ {
		if day != int(time.Monday) {
			assert.Nil(t, f.times.Days[day])
		}
	}

	assert.Equal(t, 1, f.setTimesCalls)
	assert.Equal(t, int64(1), f.meta.AdjustmentCount)
	require.NotNil(t, f.meta.LastAdjustment)
	assert.True(t, f.meta.LastAdjustment.Equal(now))
}

// When the blend lands on the current time the run is a no-op and nothing
// is persisted.
func TestRunAdjustment_NoSignificantChange(t *testing.T) {
	now := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)

	f := &fakeStore{
		workingHours: mondayHours("07:30", "16:00"),
		samples:      lightSamples(now.AddDate(0, 0, -2).Truncate(24*time.Hour).Add(8*time.Hour), 12),
	}
	// Seed the current time with whatever the optimizer recommends so the
	// blend is a fixed point.
	probe := NewLearner(f).RunAdjustment(context.Background(), now)
	require.True(t, probe.Adjusted)
	seeded := probe.Changes[0].New
	f.times.Days[int(time.Monday)] = &seeded
	f.setTimesCalls = 0
	f.meta = store.AdjustmentMeta{}

	result := NewLearner(f).RunAdjustment(context.Background(), now)

	assert.False(t, result.Adjusted)
	assert.Equal(t, "no significant change", result.Reason)
	assert.Empty(t, result.Changes)
	assert.Zero(t, f.setTimesCalls)
	assert.Equal(t, int64(0), f.meta.AdjustmentCount)
}
