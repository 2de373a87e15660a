package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.RendererInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error)
}
