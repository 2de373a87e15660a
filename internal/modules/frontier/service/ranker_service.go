package service

import (
	"context"
	"fmt"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/domain"
	frontierout "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/out"
)

// RankerService fetches the knowledge graph and produces the ranked
// frontier list: topics whose prerequisites are well retained rank above
// topics with shaky or unknown prerequisite retention.
type RankerService struct {
	identity frontierout.IdentityResolver
	graph    frontierout.GraphClient
}

func NewRankerService(identity frontierout.IdentityResolver, graph frontierout.GraphClient) *RankerService {
	return &RankerService{identity: identity, graph: graph}
}

func (s *RankerService) Rank(ctx context.Context) ([]domain.RankedTopic, error) {
	identity, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	table, err := s.graph.FetchGraph(ctx, identity.CourseID, identity.StudentID)
	if err != nil {
		return nil, fmt.Errorf("fetch knowledge graph: %w", err)
	}
	return domain.RankFrontier(table), nil
}
