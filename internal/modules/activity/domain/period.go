package domain

import (
	"fmt"
	"time"

	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

// FilterPeriod keeps records completed within the trailing period ending at
// now. Records with no resolvable completed time are excluded from
// period-bounded views and retained only for "all".
func FilterPeriod(items []Activity, period string, now time.Time) ([]Activity, error) {
	var days int
	switch period {
	case "", "all":
		return items, nil
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	case "365d":
		days = 365
	default:
		return nil, fmt.Errorf("%w: unsupported period %q", apperrors.ErrInvalidInput, period)
	}
	start := now.AddDate(0, 0, -days)
	out := make([]Activity, 0, len(items))
	for _, item := range items {
		completed, ok := item.CompletedAt()
		if !ok {
			continue
		}
		if completed.Before(start) || completed.After(now) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
