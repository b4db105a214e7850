package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/metrics"
)

// ErrDegraded is returned when asked to persist a placeholder result.
var ErrDegraded = errors.New("store: degraded results are not persisted")

func (d *DB) SaveSnapshot(ctx context.Context, key string, res domain.FeedResult, fetchedAt time.Time) error {
	if res.Degraded {
		return ErrDegraded
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = d.Pool.ExecContext(ctx, `
INSERT INTO snapshots(key, body, fetched_at)
VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at;`,
		key, string(body), fetchedAt.UTC().Format(tsLayout))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reports ok=false when nothing is stored for key.
func (d *DB) LoadSnapshot(ctx context.Context, key string) (domain.FeedResult, time.Time, bool, error) {
	var body, at string
	err := d.Pool.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM snapshots WHERE key = ?;`, key).Scan(&body, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FeedResult{}, time.Time{}, false, nil
	}
	if err != nil {
		return domain.FeedResult{}, time.Time{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var res domain.FeedResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return domain.FeedResult{}, time.Time{}, false, fmt.Errorf("decode snapshot %q: %w", key, err)
	}
	fetchedAt, err := time.Parse(tsLayout, at)
	if err != nil {
		return domain.FeedResult{}, time.Time{}, false, fmt.Errorf("snapshot %q fetched_at: %w", key, err)
	}
	return res, fetchedAt, true, nil
}

// PruneSnapshots deletes snapshots fetched before cutoff.
func (d *DB) PruneSnapshots(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	res, err := d.Pool.ExecContext(ctx,
		`DELETE FROM snapshots WHERE fetched_at < ?;`, cutoff.UTC().Format(tsLayout))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	metrics.SnapshotsPrunedTotal.Add(float64(n))
	return n, nil
}

func (d *DB) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots;`).Scan(&n)
	return n, err
}
