package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

func (d *DB) UpsertHourlyUsage(ctx context.Context, upsert *store.HourlyUsage) (*store.HourlyUsage, error) {
	stmt := `
		INSERT INTO hourly_usage (date_hour_key, cumulative_pct, observed_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (date_hour_key) DO UPDATE SET
			cumulative_pct = excluded.cumulative_pct,
			observed_ts = excluded.observed_ts
		RETURNING id, date_hour_key, cumulative_pct, observed_ts
	`
	var sample store.HourlyUsage
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DateHourKey,
		upsert.CumulativePct,
		upsert.ObservedTs,
	).Scan(
		&sample.ID,
		&sample.DateHourKey,
		&sample.CumulativePct,
		&sample.ObservedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert hourly usage")
	}
	return &sample, nil
}

func (d *DB) ListHourlyUsage(ctx context.Context, find *store.FindHourlyUsage) ([]*store.HourlyUsage, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.SinceTs != nil {
		where, args = append(where, "observed_ts >= ?"), append(args, *find.SinceTs)
	}

	query := `SELECT id, date_hour_key, cumulative_pct, observed_ts
		FROM hourly_usage
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY observed_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hourly usage")
	}
	defer rows.Close()

	list := []*store.HourlyUsage{}
	for rows.Next() {
		var sample store.HourlyUsage
		if err := rows.Scan(
			&sample.ID,
			&sample.DateHourKey,
			&sample.CumulativePct,
			&sample.ObservedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan hourly usage")
		}
		list = append(list, &sample)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate hourly usage")
	}
	return list, nil
}
