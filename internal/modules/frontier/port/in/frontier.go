package in

import (
	"context"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
)

type Usecase interface {
	Rank(ctx context.Context, input dto.RankInput) ([]dto.RankedTopicOutput, error)
}
