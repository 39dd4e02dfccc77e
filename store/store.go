package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateUsageWindow persists a new usage window, assigning a UID when the
// caller did not provide one.
func (s *Store) CreateUsageWindow(ctx context.Context, create *UsageWindow) (*UsageWindow, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateUsageWindow(ctx, create)
}

// GetWindowsSince returns windows ending at or after since, ordered by start.
func (s *Store) GetWindowsSince(ctx context.Context, since time.Time) ([]*UsageWindow, error) {
	sinceTs := since.Unix()
	return s.driver.ListUsageWindows(ctx, &FindUsageWindow{SinceTs: &sinceTs})
}

// GetCurrentWindow returns the window whose [start, end) contains at, or nil
// when no window is active.
func (s *Store) GetCurrentWindow(ctx context.Context, at time.Time) (*UsageWindow, error) {
	atTs := at.Unix()
	windows, err := s.driver.ListUsageWindows(ctx, &FindUsageWindow{ActiveAtTs: &atTs})
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}
	return windows[len(windows)-1], nil
}

func (s *Store) UpsertHourlyUsage(ctx context.Context, upsert *HourlyUsage) (*HourlyUsage, error) {
	return s.driver.UpsertHourlyUsage(ctx, upsert)
}

// GetHourlyUsageSince returns samples observed at or after since, ordered by
// observation time.
func (s *Store) GetHourlyUsageSince(ctx context.Context, since time.Time) ([]*HourlyUsage, error) {
	sinceTs := since.Unix()
	return s.driver.ListHourlyUsage(ctx, &FindHourlyUsage{SinceTs: &sinceTs})
}

func (s *Store) GetWorkingHours(ctx context.Context) (*WorkingHours, error) {
	wh := &WorkingHours{}
	if err := s.getSettingJSON(ctx, SettingWorkingHours, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

func (s *Store) SetWorkingHours(ctx context.Context, wh *WorkingHours) error {
	return s.setSettingJSON(ctx, SettingWorkingHours, wh)
}

func (s *Store) GetOptimalStartTimes(ctx context.Context) (*OptimalStartTimes, error) {
	times := &OptimalStartTimes{}
	if err := s.getSettingJSON(ctx, SettingOptimalStartTimes, times); err != nil {
		return nil, err
	}
	return times, nil
}

func (s *Store) SetOptimalStartTimes(ctx context.Context, times *OptimalStartTimes) error {
	return s.setSettingJSON(ctx, SettingOptimalStartTimes, times)
}

func (s *Store) GetSchedulerState(ctx context.Context) (*SchedulerState, error) {
	state := &SchedulerState{}
	if err := s.getSettingJSON(ctx, SettingSchedulerState, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) SetSchedulerState(ctx context.Context, state *SchedulerState) error {
	return s.setSettingJSON(ctx, SettingSchedulerState, state)
}

func (s *Store) GetAdjustmentMeta(ctx context.Context) (*AdjustmentMeta, error) {
	meta := &AdjustmentMeta{}
	if err := s.getSettingJSON(ctx, SettingAdjustmentMeta, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *Store) SetAdjustmentMeta(ctx context.Context, meta *AdjustmentMeta) error {
	return s.setSettingJSON(ctx, SettingAdjustmentMeta, meta)
}

// GetBaselineStat returns the named baseline counter, or nil when it has
// never been written.
func (s *Store) GetBaselineStat(ctx context.Context, key string) (*float64, error) {
	stats := map[string]float64{}
	if err := s.getSettingJSON(ctx, SettingBaselineStats, &stats); err != nil {
		return nil, err
	}
	value, ok := stats[key]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (s *Store) SetBaselineStat(ctx context.Context, key string, value float64) error {
	stats := map[string]float64{}
	if err := s.getSettingJSON(ctx, SettingBaselineStats, &stats); err != nil {
		return err
	}
	stats[key] = value
	return s.setSettingJSON(ctx, SettingBaselineStats, &stats)
}

// getSettingJSON decodes the named setting into out. A missing setting leaves
// out at its zero value.
func (s *Store) getSettingJSON(ctx context.Context, name SettingName, out any) error {
	setting, err := s.driver.GetSystemSetting(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to get system setting %s", name)
	}
	if setting == nil || setting.Value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(setting.Value), out); err != nil {
		return errors.Wrapf(err, "failed to unmarshal system setting %s", name)
	}
	return nil
}

func (s *Store) setSettingJSON(ctx context.Context, name SettingName, in any) error {
	value, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal system setting %s", name)
	}
	if _, err := s.driver.UpsertSystemSetting(ctx, &SystemSetting{Name: name, Value: string(value)}); err != nil {
		return errors.Wrapf(err, "failed to upsert system setting %s", name)
	}
	return nil
}
