package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile's DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// Connect with sane settings for a single-user local daemon:
	// - busy_timeout avoids transient SQLITE_BUSY on overlapping writes.
	// - WAL journal mode prevents locking issues.
	//
	// With the `modernc.org/sqlite` driver each pragma must be prefixed
	// with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// SQLite with WAL performs best over a single connection.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS usage_window (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	start_ts BIGINT NOT NULL,
	end_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_window_end_ts ON usage_window (end_ts);

CREATE TABLE IF NOT EXISTS hourly_usage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date_hour_key TEXT NOT NULL UNIQUE,
	cumulative_pct REAL NOT NULL,
	observed_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_hourly_usage_observed_ts ON hourly_usage (observed_ts);

CREATE TABLE IF NOT EXISTS system_setting (
	name TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Migrate applies the latest schema. All statements are idempotent, so the
// migration can run on every startup.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
