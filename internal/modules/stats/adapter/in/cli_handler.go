package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	statsin "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Courses(ctx context.Context, activityType, period string) ([]dto.CourseStatsOutput, error) {
	return h.usecase.Courses(ctx, dto.Filter{Type: activityType, Period: period})
}

func (h CLIHandler) Daily(ctx context.Context, activityType, period string) ([]dto.DayOutput, error) {
	return h.usecase.Daily(ctx, dto.Filter{Type: activityType, Period: period})
}

func (h CLIHandler) Timeline(ctx context.Context, activityType, period string) ([]dto.TimelinePointOutput, error) {
	return h.usecase.Timeline(ctx, dto.Filter{Type: activityType, Period: period})
}

func (h CLIHandler) TypeCounts(ctx context.Context, activityType, period string) (dto.TypeCountsOutput, error) {
	return h.usecase.TypeCounts(ctx, dto.Filter{Type: activityType, Period: period})
}

func (h CLIHandler) Transitions(ctx context.Context) ([]dto.TransitionOutput, error) {
	return h.usecase.Transitions(ctx)
}

func (h CLIHandler) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	return h.usecase.Overview(ctx)
}
