package out

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	frontierdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
	frontierin "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/in"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
	renderout "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/port/out"
	statsdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	statsin "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/in"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/clock"
)

// StatsDocumentSource builds renderer documents from the stats and
// frontier usecases. The wire format is versioned so renderers can
// reject documents they were not built for.
type StatsDocumentSource struct {
	clock    clock.Clock
	stats    statsin.Usecase
	frontier frontierin.Usecase
}

func NewStatsDocumentSource(clk clock.Clock, stats statsin.Usecase, frontier frontierin.Usecase) renderout.DocumentSource {
	return &StatsDocumentSource{clock: clk, stats: stats, frontier: frontier}
}

type documentEnvelope struct {
	Schema      string `json:"schema"`
	Kind        string `json:"kind"`
	GeneratedAt string `json:"generated_at"`
	Body        any    `json:"body"`
}

type thresholdShare struct {
	Threshold float64 `json:"threshold"`
	Pct       float64 `json:"pct"`
}

type courseDocument struct {
	Course      string           `json:"course"`
	Count       int              `json:"count"`
	P25         float64          `json:"p25"`
	P50         float64          `json:"p50"`
	P75         float64          `json:"p75"`
	PctAtLeast1 float64          `json:"pct_at_least_1"`
	Thresholds  []thresholdShare `json:"thresholds"`
}

type dayDocument struct {
	Date          string  `json:"date"`
	XP            float64 `json:"xp"`
	Count         int     `json:"count"`
	Earned        float64 `json:"earned"`
	Possible      float64 `json:"possible"`
	AttainmentPct float64 `json:"attainment_pct"`
}

type timelineDocument struct {
	Date             string  `json:"date"`
	DailyXP          float64 `json:"daily_xp"`
	CumulativeXP     float64 `json:"cumulative_xp"`
	CumulativeCount  int     `json:"cumulative_count"`
	RollingAvgXP     float64 `json:"rolling_avg_xp"`
	RollingPctEarned float64 `json:"rolling_pct_earned"`
}

type frontierDocument struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	SortKey   *float64 `json:"sort_key"`
	RepMin    float64  `json:"rep_min"`
	RepMax    float64  `json:"rep_max"`
	RepMedian float64  `json:"rep_median"`
	RepMean   float64  `json:"rep_mean"`
}

func (s *StatsDocumentSource) Document(ctx context.Context, kind domain.DocumentKind) (string, error) {
	var body any
	var err error
	switch kind {
	case domain.DocumentCourses:
		body, err = s.coursesBody(ctx)
	case domain.DocumentDaily:
		body, err = s.dailyBody(ctx)
	case domain.DocumentTimeline:
		body, err = s.timelineBody(ctx)
	case domain.DocumentFrontier:
		body, err = s.frontierBody(ctx)
	default:
		return "", fmt.Errorf("unknown document kind: %s", kind)
	}
	if err != nil {
		return "", err
	}
	envelope := documentEnvelope{
		Schema:      "mastats.document.v1",
		Kind:        string(kind),
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
		Body:        body,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", kind, err)
	}
	return string(payload), nil
}

func (s *StatsDocumentSource) coursesBody(ctx context.Context) (any, error) {
	rows, err := s.stats.Courses(ctx, statsdto.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]courseDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, courseDocument{
			Course:      row.Course,
			Count:       row.Count,
			P25:         row.P25,
			P50:         row.P50,
			P75:         row.P75,
			PctAtLeast1: row.PctAtLeast1,
			Thresholds:  thresholdShares(row.PctThreshold),
		})
	}
	return out, nil
}

func (s *StatsDocumentSource) dailyBody(ctx context.Context) (any, error) {
	rows, err := s.stats.Daily(ctx, statsdto.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]dayDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, dayDocument{
			Date:          row.Date,
			XP:            row.XP,
			Count:         row.Count,
			Earned:        row.Earned,
			Possible:      row.Possible,
			AttainmentPct: row.AttainmentPct,
		})
	}
	return out, nil
}

func (s *StatsDocumentSource) timelineBody(ctx context.Context) (any, error) {
	rows, err := s.stats.Timeline(ctx, statsdto.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]timelineDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, timelineDocument{
			Date:             row.Date,
			DailyXP:          row.DailyXP,
			CumulativeXP:     row.CumulativeXP,
			CumulativeCount:  row.CumulativeCount,
			RollingAvgXP:     row.RollingAvgXP,
			RollingPctEarned: row.RollingPctEarned,
		})
	}
	return out, nil
}

func (s *StatsDocumentSource) frontierBody(ctx context.Context) (any, error) {
	rows, err := s.frontier.Rank(ctx, frontierdto.RankInput{})
	if err != nil {
		return nil, err
	}
	out := make([]frontierDocument, 0, len(rows))
	for _, row := range rows {
		doc := frontierDocument{
			ID:        row.ID,
			Name:      row.Name,
			RepMin:    row.RepMin,
			RepMax:    row.RepMax,
			RepMedian: row.RepMedian,
			RepMean:   row.RepMean,
		}
		if row.HasKey {
			key := row.SortKey
			doc.SortKey = &key
		}
		out = append(out, doc)
	}
	return out, nil
}

func thresholdShares(shares map[float64]float64) []thresholdShare {
	out := make([]thresholdShare, 0, len(shares))
	for threshold, pct := range shares {
		out = append(out, thresholdShare{Threshold: threshold, Pct: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return out
}
