package usecase

import (
	"context"
	"math"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
	frontierin "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/in"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/service"
)

type Interactor struct {
	svc *service.RankerService
}

func NewInteractor(svc *service.RankerService) frontierin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Rank(ctx context.Context, input dto.RankInput) ([]dto.RankedTopicOutput, error) {
	ranked, err := i.svc.Rank(ctx)
	if err != nil {
		return nil, err
	}
	if input.Limit > 0 && len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}
	out := make([]dto.RankedTopicOutput, 0, len(ranked))
	for _, topic := range ranked {
		out = append(out, toOutput(topic))
	}
	return out, nil
}

func toOutput(topic domain.RankedTopic) dto.RankedTopicOutput {
	out := dto.RankedTopicOutput{
		ID:        topic.Topic.ID,
		Name:      topic.Topic.Name,
		SortKey:   topic.SortKey,
		HasKey:    !math.IsInf(topic.SortKey, -1),
		RepMin:    topic.RepStats.Min,
		RepMax:    topic.RepStats.Max,
		RepMedian: topic.RepStats.Median,
		RepMean:   topic.RepStats.Mean,
		HLMin:     topic.HalfLifeStats.Min,
		HLMax:     topic.HalfLifeStats.Max,
		HLMedian:  topic.HalfLifeStats.Median,
		HLMean:    topic.HalfLifeStats.Mean,
	}
	for _, prereq := range topic.Prereqs {
		if prereq == nil {
			out.Prereqs = append(out.Prereqs, dto.PrereqOutput{Missing: true})
			continue
		}
		out.Prereqs = append(out.Prereqs, dto.PrereqOutput{
			ID:       prereq.ID,
			Name:     prereq.Name,
			Reps:     prereq.Repetitions,
			HalfLife: prereq.HalfLife,
		})
	}
	return out
}
