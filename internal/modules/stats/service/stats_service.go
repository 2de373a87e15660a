package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
	statsout "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/clock"
)

// StatsService derives view structures from the cached snapshot. Nothing
// here touches the network; a missing cache surfaces as
// apperrors.ErrNoCachedData from the source.
type StatsService struct {
	clock     clock.Clock
	source    statsout.ActivitySource
	projector statsout.StatsProjector
	loc       *time.Location
}

func NewStatsService(clk clock.Clock, source statsout.ActivitySource, projector statsout.StatsProjector, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{clock: clk, source: source, projector: projector, loc: loc}
}

func (s *StatsService) filtered(ctx context.Context, activityType, period string) ([]activitydomain.Activity, error) {
	items, _, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	items, err = activitydomain.FilterPeriod(items, period, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if activityType != "" {
		filtered := items[:0]
		for _, item := range items {
			if strings.EqualFold(item.Type, activityType) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return items, nil
}

func (s *StatsService) Courses(ctx context.Context, activityType, period string) ([]domain.CourseStats, error) {
	items, err := s.filtered(ctx, activityType, period)
	if err != nil {
		return nil, err
	}
	stats := domain.CourseXPMStats(items)
	if s.projector != nil {
		computedAt := s.clock.Now()
		if err := s.projector.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset stats projection: %w", err)
		}
		for _, row := range stats {
			if err := s.projector.UpsertCourseStats(ctx, row, computedAt); err != nil {
				return nil, fmt.Errorf("project course stats: %w", err)
			}
		}
	}
	return stats, nil
}

func (s *StatsService) Daily(ctx context.Context, activityType, period string) ([]domain.DayBucket, error) {
	items, err := s.filtered(ctx, activityType, period)
	if err != nil {
		return nil, err
	}
	return domain.DailyBuckets(items, s.loc), nil
}

func (s *StatsService) Timeline(ctx context.Context, activityType, period string) ([]domain.TimelinePoint, error) {
	items, err := s.filtered(ctx, activityType, period)
	if err != nil {
		return nil, err
	}
	return domain.Timeline(items, s.clock.Now(), s.loc), nil
}

func (s *StatsService) TypeCounts(ctx context.Context, activityType, period string) (map[domain.Kind]int, error) {
	items, err := s.filtered(ctx, activityType, period)
	if err != nil {
		return nil, err
	}
	return domain.CountByKind(items), nil
}

func (s *StatsService) Transitions(ctx context.Context) ([]domain.Transition, error) {
	items, _, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CourseTransitions(items), nil
}

type Overview struct {
	CurrentCourse string
	TotalXP       float64
	Activities    int
	UpdatedAt     time.Time
}

func (s *StatsService) Overview(ctx context.Context) (Overview, error) {
	items, updatedAt, err := s.source.Snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}
	totalXP := 0.0
	for _, item := range items {
		totalXP += item.PointsAwarded
	}
	return Overview{
		CurrentCourse: domain.CurrentCourse(items),
		TotalXP:       totalXP,
		Activities:    len(items),
		UpdatedAt:     updatedAt,
	}, nil
}
