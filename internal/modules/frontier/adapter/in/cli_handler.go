package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
	frontierin "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/in"
)

type CLIHandler struct {
	usecase frontierin.Usecase
}

func NewCLIHandler(usecase frontierin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Rank(ctx context.Context, limit int) ([]dto.RankedTopicOutput, error) {
	return h.usecase.Rank(ctx, dto.RankInput{Limit: limit})
}
