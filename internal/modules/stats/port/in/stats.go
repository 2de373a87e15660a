package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
)

type Usecase interface {
	Courses(ctx context.Context, filter dto.Filter) ([]dto.CourseStatsOutput, error)
	Daily(ctx context.Context, filter dto.Filter) ([]dto.DayOutput, error)
	Timeline(ctx context.Context, filter dto.Filter) ([]dto.TimelinePointOutput, error)
	TypeCounts(ctx context.Context, filter dto.Filter) (dto.TypeCountsOutput, error)
	Transitions(ctx context.Context) ([]dto.TransitionOutput, error)
	Overview(ctx context.Context) (dto.OverviewOutput, error)
}
