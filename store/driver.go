package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// UsageWindow model related methods.
	CreateUsageWindow(ctx context.Context, create *UsageWindow) (*UsageWindow, error)
	ListUsageWindows(ctx context.Context, find *FindUsageWindow) ([]*UsageWindow, error)

	// HourlyUsage model related methods.
	UpsertHourlyUsage(ctx context.Context, upsert *HourlyUsage) (*HourlyUsage, error)
	ListHourlyUsage(ctx context.Context, find *FindHourlyUsage) ([]*HourlyUsage, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	GetSystemSetting(ctx context.Context, name SettingName) (*SystemSetting, error)
}
