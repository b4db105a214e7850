package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobfeed-engine/internal/domain"
)

func (d *DB) SaveQuery(ctx context.Context, q domain.FeedQuery) error {
	body, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = d.Pool.ExecContext(ctx, `
INSERT INTO session_query(id, body, updated_at)
VALUES(1, ?, ?)
ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at;`,
		string(body), time.Now().UTC().Format(tsLayout))
	if err != nil {
		return fmt.Errorf("save query: %w", err)
	}
	return nil
}

func (d *DB) LoadQuery(ctx context.Context) (domain.FeedQuery, bool, error) {
	var body string
	err := d.Pool.QueryRowContext(ctx, `SELECT body FROM session_query WHERE id = 1;`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FeedQuery{}, false, nil
	}
	if err != nil {
		return domain.FeedQuery{}, false, fmt.Errorf("load query: %w", err)
	}
	var q domain.FeedQuery
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		return domain.FeedQuery{}, false, fmt.Errorf("decode query: %w", err)
	}
	return q, true, nil
}
