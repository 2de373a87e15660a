package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
	statsout "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteStatsProjector keeps the latest course-stat rows queryable by the
// render plugin and the TUI without re-running the aggregation.
type SQLiteStatsProjector struct {
	db *sql.DB
}

func NewSQLiteStatsProjector(dbPath string) (statsout.StatsProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteStatsProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteStatsProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS course_stats (
  course TEXT PRIMARY KEY,
  activity_count INTEGER NOT NULL,
  p25 REAL NOT NULL,
  p50 REAL NOT NULL,
  p75 REAL NOT NULL,
  pct_at_least_1 REAL NOT NULL,
  computed_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create course_stats table: %w", err)
	}
	return nil
}

func (s *SQLiteStatsProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM course_stats`); err != nil {
		return fmt.Errorf("reset course_stats: %w", err)
	}
	return nil
}

func (s *SQLiteStatsProjector) UpsertCourseStats(ctx context.Context, stats domain.CourseStats, computedAt time.Time) error {
	const stmt = `
INSERT INTO course_stats (course, activity_count, p25, p50, p75, pct_at_least_1, computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(course) DO UPDATE SET
  activity_count=excluded.activity_count,
  p25=excluded.p25,
  p50=excluded.p50,
  p75=excluded.p75,
  pct_at_least_1=excluded.pct_at_least_1,
  computed_at=excluded.computed_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		stats.Course,
		stats.Count,
		stats.P25,
		stats.P50,
		stats.P75,
		stats.PctAtLeast1,
		computedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert course stats: %w", err)
	}
	return nil
}
