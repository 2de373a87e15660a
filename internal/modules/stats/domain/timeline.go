package domain

import (
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

const rollingWindowDays = 7

// TimelinePoint is one calendar day in the rolling series. Zero-activity
// days are present with zero daily values so the series is contiguous.
type TimelinePoint struct {
	Date             string
	DailyXP          float64
	CumulativeXP     float64
	CumulativeCount  int
	RollingAvgXP     float64
	RollingPctEarned float64
}

// Timeline builds the per-day series from the first activity's date
// through today inclusive. Rolling values cover the trailing 7 days
// including the day itself; rolling attainment is 0 whenever the trailing
// possible total is 0.
func Timeline(items []activitydomain.Activity, today time.Time, loc *time.Location) []TimelinePoint {
	if loc == nil {
		loc = time.Local
	}
	buckets := DailyBuckets(items, loc)
	if len(buckets) == 0 {
		return nil
	}
	byDate := make(map[string]DayBucket, len(buckets))
	for _, bucket := range buckets {
		byDate[bucket.Date] = bucket
	}

	first, err := time.ParseInLocation("2006-01-02", buckets[0].Date, loc)
	if err != nil {
		return nil
	}
	last := time.Date(today.In(loc).Year(), today.In(loc).Month(), today.In(loc).Day(), 0, 0, 0, 0, loc)

	var days []DayBucket
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if bucket, ok := byDate[date]; ok {
			days = append(days, bucket)
		} else {
			days = append(days, DayBucket{Date: date})
		}
	}

	out := make([]TimelinePoint, 0, len(days))
	cumulativeXP := 0.0
	cumulativeCount := 0
	for i, day := range days {
		cumulativeXP += day.XP
		cumulativeCount += day.Count

		windowStart := i - rollingWindowDays + 1
		if windowStart < 0 {
			windowStart = 0
		}
		windowXP := 0.0
		windowEarned := 0.0
		windowPossible := 0.0
		for _, w := range days[windowStart : i+1] {
			windowXP += w.XP
			windowEarned += w.Earned
			windowPossible += w.Possible
		}
		out = append(out, TimelinePoint{
			Date:             day.Date,
			DailyXP:          day.XP,
			CumulativeXP:     cumulativeXP,
			CumulativeCount:  cumulativeCount,
			RollingAvgXP:     windowXP / float64(i+1-windowStart),
			RollingPctEarned: attainmentPct(windowEarned, windowPossible),
		})
	}
	return out
}
