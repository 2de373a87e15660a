package domain_test

import (
	"testing"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
)

func TestTimelineZeroFillsGaps(t *testing.T) {
	t.Parallel()
	items := []activitydomain.Activity{
		completedAt(1, "Lesson", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), 10, 10),
		completedAt(2, "Lesson", time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC), 20, 20),
	}
	today := time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)

	points := domain.Timeline(items, today, time.UTC)
	if len(points) != 5 {
		t.Fatalf("got %d days, want contiguous June 1 through 5", len(points))
	}
	for i, want := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05"} {
		if points[i].Date != want {
			t.Fatalf("day %d is %q, want %q", i, points[i].Date, want)
		}
	}
	if points[1].DailyXP != 0 || points[1].CumulativeXP != 10 {
		t.Fatalf("gap day should carry zero daily and prior cumulative: %+v", points[1])
	}
	if points[4].CumulativeXP != 30 || points[4].CumulativeCount != 2 {
		t.Fatalf("final cumulative %v/%d, want 30/2", points[4].CumulativeXP, points[4].CumulativeCount)
	}
}

func TestTimelineRollingAverageDivisor(t *testing.T) {
	t.Parallel()
	// Ten consecutive days of 10 XP each.
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var items []activitydomain.Activity
	for i := 0; i < 10; i++ {
		items = append(items, completedAt(int64(i+1), "Lesson", start.AddDate(0, 0, i), 10, 10))
	}
	today := start.AddDate(0, 0, 9)

	points := domain.Timeline(items, today, time.UTC)
	if len(points) != 10 {
		t.Fatalf("got %d days, want 10", len(points))
	}
	// Early days divide by the days elapsed so far, not a fixed 7.
	if !closeTo(points[0].RollingAvgXP, 10) {
		t.Fatalf("day 1 rolling avg %v, want 10", points[0].RollingAvgXP)
	}
	if !closeTo(points[3].RollingAvgXP, 10) {
		t.Fatalf("day 4 rolling avg %v, want 10", points[3].RollingAvgXP)
	}
	if !closeTo(points[9].RollingAvgXP, 10) {
		t.Fatalf("day 10 rolling avg %v, want 10", points[9].RollingAvgXP)
	}
}

func TestTimelineRollingWindowSlides(t *testing.T) {
	t.Parallel()
	// One 70 XP day followed by quiet days; the rolling average must
	// drop the spike once it leaves the 7-day window.
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []activitydomain.Activity{completedAt(1, "Lesson", start, 70, 70)}
	today := start.AddDate(0, 0, 7)

	points := domain.Timeline(items, today, time.UTC)
	if len(points) != 8 {
		t.Fatalf("got %d days, want 8", len(points))
	}
	if !closeTo(points[6].RollingAvgXP, 10) {
		t.Fatalf("day 7 rolling avg %v, want 10 while spike in window", points[6].RollingAvgXP)
	}
	if !closeTo(points[7].RollingAvgXP, 0) {
		t.Fatalf("day 8 rolling avg %v, want 0 once spike ages out", points[7].RollingAvgXP)
	}
}

func TestTimelineEmpty(t *testing.T) {
	t.Parallel()
	if points := domain.Timeline(nil, time.Now(), time.UTC); points != nil {
		t.Fatalf("empty history should produce no series, got %+v", points)
	}
}
