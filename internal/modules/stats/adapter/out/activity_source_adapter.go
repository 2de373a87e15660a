package out

import (
	"context"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityin "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/in"
	statsout "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/out"
)

// ActivitySourceAdapter feeds the aggregation engine from the activity
// module's in-port.
type ActivitySourceAdapter struct {
	activity activityin.Usecase
}

func NewActivitySourceAdapter(activity activityin.Usecase) statsout.ActivitySource {
	return ActivitySourceAdapter{activity: activity}
}

func (a ActivitySourceAdapter) Snapshot(ctx context.Context) ([]activitydomain.Activity, time.Time, error) {
	return a.activity.Snapshot(ctx)
}
