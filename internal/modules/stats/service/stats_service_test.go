package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/service"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

var statsNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSource struct {
	items     []activitydomain.Activity
	updatedAt time.Time
	err       error
}

func (s fakeSource) Snapshot(context.Context) ([]activitydomain.Activity, time.Time, error) {
	return s.items, s.updatedAt, s.err
}

type recordingProjector struct {
	resets  int
	upserts []domain.CourseStats
}

func (p *recordingProjector) Reset(context.Context) error {
	p.resets++
	p.upserts = nil
	return nil
}

func (p *recordingProjector) UpsertCourseStats(_ context.Context, stats domain.CourseStats, _ time.Time) error {
	p.upserts = append(p.upserts, stats)
	return nil
}

func record(id int64, typ, course string, ageDays int, awarded float64) activitydomain.Activity {
	completed := statsNow.AddDate(0, 0, -ageDays)
	return activitydomain.Activity{
		ID:            id,
		Type:          typ,
		Points:        10,
		PointsAwarded: awarded,
		Started:       activitydomain.NewTimeValue(completed.Add(-10 * time.Minute)),
		Completed:     activitydomain.NewTimeValue(completed),
		Test:          activitydomain.TestRef{ID: 1, Course: activitydomain.Course{ID: 1, Name: course}},
	}
}

func newService(source fakeSource, projector *recordingProjector) *service.StatsService {
	return service.NewStatsService(fixedClock{now: statsNow}, source, projector, time.UTC)
}

func TestCoursesProjectsRows(t *testing.T) {
	t.Parallel()
	source := fakeSource{items: []activitydomain.Activity{
		record(1, "Lesson", "Prealgebra", 1, 15),
		record(2, "Lesson", "Algebra I", 2, 12),
	}, updatedAt: statsNow}
	projector := &recordingProjector{}

	stats, err := newService(source, projector).Courses(context.Background(), "", "")
	if err != nil {
		t.Fatalf("courses: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d courses, want 2", len(stats))
	}
	if projector.resets != 1 {
		t.Fatalf("projection reset %d times, want 1", projector.resets)
	}
	if len(projector.upserts) != 2 {
		t.Fatalf("projected %d rows, want 2", len(projector.upserts))
	}
	if projector.upserts[0].Course != stats[0].Course {
		t.Fatalf("projection order diverged from result order")
	}
}

func TestFilteringByTypeAndPeriod(t *testing.T) {
	t.Parallel()
	source := fakeSource{items: []activitydomain.Activity{
		record(1, "Lesson", "Prealgebra", 1, 15),
		record(2, "Review", "Prealgebra", 1, 8),
		record(3, "Lesson", "Prealgebra", 40, 20),
	}, updatedAt: statsNow}

	svc := newService(source, nil)
	daily, err := svc.Daily(context.Background(), "lesson", "30d")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(daily) != 1 || daily[0].Count != 1 || daily[0].XP != 15 {
		t.Fatalf("expected only the recent lesson, got %+v", daily)
	}

	if _, err := svc.Daily(context.Background(), "", "14d"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown period error = %v, want ErrInvalidInput", err)
	}
}

func TestSnapshotErrorPropagates(t *testing.T) {
	t.Parallel()
	source := fakeSource{err: apperrors.ErrNoCachedData}
	svc := newService(source, nil)

	if _, err := svc.Courses(context.Background(), "", ""); !errors.Is(err, apperrors.ErrNoCachedData) {
		t.Fatalf("courses error = %v, want ErrNoCachedData", err)
	}
	if _, err := svc.Overview(context.Background()); !errors.Is(err, apperrors.ErrNoCachedData) {
		t.Fatalf("overview error = %v, want ErrNoCachedData", err)
	}
}

func TestOverview(t *testing.T) {
	t.Parallel()
	updatedAt := statsNow.Add(-time.Hour)
	source := fakeSource{items: []activitydomain.Activity{
		record(1, "Lesson", "Prealgebra", 3, 10),
		record(2, "Lesson", "Algebra I", 1, 12),
	}, updatedAt: updatedAt}

	overview, err := newService(source, nil).Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.CurrentCourse != "Algebra I" {
		t.Fatalf("current course %q, want the most recent", overview.CurrentCourse)
	}
	if overview.TotalXP != 22 || overview.Activities != 2 {
		t.Fatalf("totals %v/%d, want 22/2", overview.TotalXP, overview.Activities)
	}
	if !overview.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("updated at %v, want %v", overview.UpdatedAt, updatedAt)
	}
}

func TestTypeCountsAndTransitions(t *testing.T) {
	t.Parallel()
	source := fakeSource{items: []activitydomain.Activity{
		record(1, "Lesson", "Prealgebra", 5, 10),
		record(2, "Review", "Prealgebra", 4, 8),
		record(3, "Lesson", "Algebra I", 1, 10),
	}, updatedAt: statsNow}
	svc := newService(source, nil)

	counts, err := svc.TypeCounts(context.Background(), "", "")
	if err != nil {
		t.Fatalf("type counts: %v", err)
	}
	if counts[domain.KindLesson] != 2 || counts[domain.KindReview] != 1 {
		t.Fatalf("counts %v", counts)
	}

	transitions, err := svc.Transitions(context.Background())
	if err != nil {
		t.Fatalf("transitions: %v", err)
	}
	if len(transitions) != 1 || transitions[0].Label != "Prealgebra → Algebra I" {
		t.Fatalf("transitions %+v", transitions)
	}
}
