package domain

import (
	"sort"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

// defaultPossible is the point budget assumed for an ordinary activity
// that does not carry one.
const defaultPossible = 10

// DayBucket accumulates one local calendar date.
type DayBucket struct {
	Date     string // YYYY-MM-DD, local calendar date
	XP       float64
	Count    int
	Earned   float64
	Possible float64
}

// AttainmentPct is earned/possible bounded to [0,100], 0 when possible
// is 0.
func (b DayBucket) AttainmentPct() float64 {
	return attainmentPct(b.Earned, b.Possible)
}

func attainmentPct(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	pct := 100 * earned / possible
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// DailyBuckets groups activities by the local calendar date of their
// completed time. Records with no resolvable completed time are skipped:
// they cannot be placed on a calendar. A diagnostic-like activity has no
// fixed point budget, so its awarded XP counts as both earned and
// possible (100% attainment by construction); ordinary activities
// contribute awarded as earned and their base points (default 10) as
// possible.
func DailyBuckets(items []activitydomain.Activity, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.Local
	}
	byDate := make(map[string]*DayBucket)
	for _, item := range items {
		completed, ok := item.CompletedAt()
		if !ok {
			continue
		}
		date := completed.In(loc).Format("2006-01-02")
		bucket, exists := byDate[date]
		if !exists {
			bucket = &DayBucket{Date: date}
			byDate[date] = bucket
		}
		bucket.XP += item.PointsAwarded
		bucket.Count++
		if IsDiagnosticLike(item) {
			bucket.Earned += item.PointsAwarded
			bucket.Possible += item.PointsAwarded
		} else {
			bucket.Earned += item.PointsAwarded
			possible := item.Points
			if possible <= 0 {
				possible = defaultPossible
			}
			bucket.Possible += possible
		}
	}

	out := make([]DayBucket, 0, len(byDate))
	for _, bucket := range byDate {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
