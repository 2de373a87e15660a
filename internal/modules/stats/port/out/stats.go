package out

import (
	"context"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
)

// ActivitySource hands the aggregation engine a decoupled snapshot of the
// cached activity set.
type ActivitySource interface {
	Snapshot(ctx context.Context) ([]activitydomain.Activity, time.Time, error)
}

// StatsProjector persists the latest derived course rows so view surfaces
// can read them without re-aggregating.
type StatsProjector interface {
	Reset(ctx context.Context) error
	UpsertCourseStats(ctx context.Context, stats domain.CourseStats, computedAt time.Time) error
}
