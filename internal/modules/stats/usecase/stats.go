package usecase

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	statsin "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/in"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Courses(ctx context.Context, filter dto.Filter) ([]dto.CourseStatsOutput, error) {
	stats, err := i.svc.Courses(ctx, filter.Type, filter.Period)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseStatsOutput, 0, len(stats))
	for _, row := range stats {
		out = append(out, dto.CourseStatsOutput{
			Course:       row.Course,
			Count:        row.Count,
			P25:          row.P25,
			P50:          row.P50,
			P75:          row.P75,
			PctAtLeast1:  row.PctAtLeast1,
			PctThreshold: row.PctThreshold,
		})
	}
	return out, nil
}

func (i *Interactor) Daily(ctx context.Context, filter dto.Filter) ([]dto.DayOutput, error) {
	buckets, err := i.svc.Daily(ctx, filter.Type, filter.Period)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DayOutput, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, dto.DayOutput{
			Date:          bucket.Date,
			XP:            bucket.XP,
			Count:         bucket.Count,
			Earned:        bucket.Earned,
			Possible:      bucket.Possible,
			AttainmentPct: bucket.AttainmentPct(),
		})
	}
	return out, nil
}

func (i *Interactor) Timeline(ctx context.Context, filter dto.Filter) ([]dto.TimelinePointOutput, error) {
	points, err := i.svc.Timeline(ctx, filter.Type, filter.Period)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TimelinePointOutput, 0, len(points))
	for _, point := range points {
		out = append(out, dto.TimelinePointOutput{
			Date:             point.Date,
			DailyXP:          point.DailyXP,
			CumulativeXP:     point.CumulativeXP,
			CumulativeCount:  point.CumulativeCount,
			RollingAvgXP:     point.RollingAvgXP,
			RollingPctEarned: point.RollingPctEarned,
		})
	}
	return out, nil
}

func (i *Interactor) TypeCounts(ctx context.Context, filter dto.Filter) (dto.TypeCountsOutput, error) {
	counts, err := i.svc.TypeCounts(ctx, filter.Type, filter.Period)
	if err != nil {
		return dto.TypeCountsOutput{}, err
	}
	return dto.TypeCountsOutput{
		Quiz:       counts[domain.KindQuiz],
		Diagnostic: counts[domain.KindDiagnostic],
		Lesson:     counts[domain.KindLesson],
		Review:     counts[domain.KindReview],
		Multistep:  counts[domain.KindMultistep],
	}, nil
}

func (i *Interactor) Transitions(ctx context.Context) ([]dto.TransitionOutput, error) {
	transitions, err := i.svc.Transitions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransitionOutput, 0, len(transitions))
	for _, transition := range transitions {
		out = append(out, dto.TransitionOutput{At: transition.At, Label: transition.Label})
	}
	return out, nil
}

func (i *Interactor) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	overview, err := i.svc.Overview(ctx)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	return dto.OverviewOutput{
		CurrentCourse: overview.CurrentCourse,
		TotalXP:       overview.TotalXP,
		Activities:    overview.Activities,
		UpdatedAt:     overview.UpdatedAt,
	}, nil
}
