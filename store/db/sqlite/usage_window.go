package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

func (d *DB) CreateUsageWindow(ctx context.Context, create *store.UsageWindow) (*store.UsageWindow, error) {
	stmt := `
		INSERT INTO usage_window (uid, start_ts, end_ts)
		VALUES (?, ?, ?)
		RETURNING id, uid, start_ts, end_ts
	`
	var window store.UsageWindow
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.StartTs,
		create.EndTs,
	).Scan(
		&window.ID,
		&window.UID,
		&window.StartTs,
		&window.EndTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create usage window")
	}
	return &window, nil
}

func (d *DB) ListUsageWindows(ctx context.Context, find *store.FindUsageWindow) ([]*store.UsageWindow, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.SinceTs != nil {
		where, args = append(where, "end_ts >= ?"), append(args, *find.SinceTs)
	}
	if find.ActiveAtTs != nil {
		where, args = append(where, "start_ts <= ?", "end_ts > ?"), append(args, *find.ActiveAtTs, *find.ActiveAtTs)
	}

	query := `SELECT id, uid, start_ts, end_ts
		FROM usage_window
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY start_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list usage windows")
	}
	defer rows.Close()

	list := []*store.UsageWindow{}
	for rows.Next() {
		var window store.UsageWindow
		if err := rows.Scan(
			&window.ID,
			&window.UID,
			&window.StartTs,
			&window.EndTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan usage window")
		}
		list = append(list, &window)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate usage windows")
	}
	return list, nil
}
