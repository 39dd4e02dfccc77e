package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the PostgreSQL database named by the profile's DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping db")
	}

	driver := DB{db: db, profile: profile}
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
	id BIGSERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	start_ts BIGINT NOT NULL,
	end_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_window_end_ts ON usage_window (end_ts);

CREATE TABLE IF NOT EXISTS hourly_usage (
	id BIGSERIAL PRIMARY KEY,
	date_hour_key TEXT NOT NULL UNIQUE,
	cumulative_pct DOUBLE PRECISION NOT NULL,
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
