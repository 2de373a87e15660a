package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/dto"
	renderin "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/in"
)

type CLIHandler struct {
	usecase renderin.Usecase
}

func NewCLIHandler(usecase renderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.RendererInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Render(ctx context.Context, renderer, kind, outputDir string) (dto.RenderOutput, error) {
	return h.usecase.Render(ctx, dto.RenderInput{Renderer: renderer, Kind: kind, OutputDir: outputDir})
}
