package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteCache persists the committed window. Store replaces the full
// payload inside one transaction, so a reader either sees the previous
// complete window or the new one, never a mix.
type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache := &SQLiteCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return cache, nil
}

var _ activityout.Cache = (*SQLiteCache)(nil)

func (c *SQLiteCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activities (
  id INTEGER PRIMARY KEY,
  completed_unix INTEGER,
  document TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create cache tables: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Load(ctx context.Context) (domain.CachePayload, bool, error) {
	var updatedRaw string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM cache_meta WHERE key = 'updated_at'`).Scan(&updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CachePayload{}, false, nil
	}
	if err != nil {
		return domain.CachePayload{}, false, fmt.Errorf("load cache meta: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedRaw)
	if err != nil {
		return domain.CachePayload{}, false, fmt.Errorf("parse cache updated_at: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT document FROM activities ORDER BY completed_unix DESC, id`)
	if err != nil {
		return domain.CachePayload{}, false, fmt.Errorf("load cached activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payload := domain.CachePayload{UpdatedAt: updatedAt}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return domain.CachePayload{}, false, fmt.Errorf("scan cached activity: %w", err)
		}
		var item domain.Activity
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			return domain.CachePayload{}, false, fmt.Errorf("unmarshal cached activity: %w", err)
		}
		payload.Items = append(payload.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.CachePayload{}, false, fmt.Errorf("iterate cached activities: %w", err)
	}
	return payload, true, nil
}

func (c *SQLiteCache) Store(ctx context.Context, payload domain.CachePayload) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO activities (id, completed_unix, document) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range payload.Items {
		doc, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal activity %d: %w", item.ID, err)
		}
		var completedUnix any
		if completed, ok := item.CompletedAt(); ok {
			completedUnix = completed.UnixMilli()
		}
		if _, err := stmt.ExecContext(ctx, item.ID, completedUnix, string(doc)); err != nil {
			return fmt.Errorf("insert activity %d: %w", item.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_meta (key, value) VALUES ('updated_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		payload.UpdatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("write cache meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache write: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_meta`); err != nil {
		return fmt.Errorf("clear cache meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache clear: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
