package domain

import (
	"sort"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

// XPMThresholds is the fixed XP/min threshold ladder reported per course.
var XPMThresholds = []float64{0.75, 1.0, 1.25, 1.5, 1.75, 2.0}

// maxDuration caps qualifying activity length. Anything longer means the
// student stepped away mid-activity, which would drag efficiency numbers
// down misleadingly.
const maxDuration = 2 * time.Hour

// CourseStats aggregates one course's qualifying activities.
type CourseStats struct {
	Course       string
	Count        int
	P25          float64
	P50          float64
	P75          float64
	PctAtLeast1  float64
	PctThreshold map[float64]float64
}

// CourseXPMStats computes per-course XP-per-minute statistics. An activity
// qualifies only when both timestamps resolve and the duration is in
// (0, 2h]. Courses with no qualifying activities are omitted entirely.
func CourseXPMStats(items []activitydomain.Activity) []CourseStats {
	perCourse := make(map[string][]float64)
	for _, item := range items {
		started, ok := item.StartedAt()
		if !ok {
			continue
		}
		completed, ok := item.CompletedAt()
		if !ok {
			continue
		}
		duration := completed.Sub(started)
		if duration <= 0 || duration > maxDuration {
			continue
		}
		xpm := item.PointsAwarded / duration.Minutes()
		course := item.AttributedCourse()
		perCourse[course] = append(perCourse[course], xpm)
	}

	out := make([]CourseStats, 0, len(perCourse))
	for course, values := range perCourse {
		stats := CourseStats{
			Course:       course,
			Count:        len(values),
			P25:          Percentile(values, 25),
			P50:          Percentile(values, 50),
			P75:          Percentile(values, 75),
			PctThreshold: make(map[float64]float64, len(XPMThresholds)),
		}
		for _, threshold := range XPMThresholds {
			stats.PctThreshold[threshold] = pctAtLeast(values, threshold)
		}
		stats.PctAtLeast1 = stats.PctThreshold[1.0]
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Course < out[j].Course })
	return out
}

func pctAtLeast(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v >= threshold {
			count++
		}
	}
	return 100 * float64(count) / float64(len(values))
}
