package usecase

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/dto"
	renderin "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/in"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/service"
)

type Interactor struct {
	svc *service.RenderService
}

func NewInteractor(svc *service.RenderService) renderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.RendererInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error) {
	return i.svc.Render(ctx, input)
}
