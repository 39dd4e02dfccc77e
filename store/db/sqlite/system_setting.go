package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

func (d *DB) UpsertSystemSetting(ctx context.Context, upsert *store.SystemSetting) (*store.SystemSetting, error) {
	stmt := `
		INSERT INTO system_setting (name, value)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value = excluded.value
	`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.Name, upsert.Value); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert system setting %s", upsert.Name)
	}
	return upsert, nil
}

// GetSystemSetting returns the named setting, or nil when it does not exist.
func (d *DB) GetSystemSetting(ctx context.Context, name store.SettingName) (*store.SystemSetting, error) {
	stmt := `SELECT name, value FROM system_setting WHERE name = ?`
	var setting store.SystemSetting
	if err := d.db.QueryRowContext(ctx, stmt, name).Scan(&setting.Name, &setting.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get system setting %s", name)
	}
	return &setting, nil
}
