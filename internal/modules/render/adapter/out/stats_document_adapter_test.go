package out_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	frontierdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/render/domain"
	statsdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
)

var documentNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeStatsUsecase struct {
	courses []statsdto.CourseStatsOutput
	daily   []statsdto.DayOutput
}

func (f fakeStatsUsecase) Courses(context.Context, statsdto.Filter) ([]statsdto.CourseStatsOutput, error) {
	return f.courses, nil
}

func (f fakeStatsUsecase) Daily(context.Context, statsdto.Filter) ([]statsdto.DayOutput, error) {
	return f.daily, nil
}

func (f fakeStatsUsecase) Timeline(context.Context, statsdto.Filter) ([]statsdto.TimelinePointOutput, error) {
	return nil, nil
}

func (f fakeStatsUsecase) TypeCounts(context.Context, statsdto.Filter) (statsdto.TypeCountsOutput, error) {
	return statsdto.TypeCountsOutput{}, nil
}

func (f fakeStatsUsecase) Transitions(context.Context) ([]statsdto.TransitionOutput, error) {
	return nil, nil
}

func (f fakeStatsUsecase) Overview(context.Context) (statsdto.OverviewOutput, error) {
	return statsdto.OverviewOutput{}, nil
}

type fakeFrontierUsecase struct {
	topics []frontierdto.RankedTopicOutput
}

func (f fakeFrontierUsecase) Rank(context.Context, frontierdto.RankInput) ([]frontierdto.RankedTopicOutput, error) {
	return f.topics, nil
}

func TestCoursesDocument(t *testing.T) {
	t.Parallel()
	stats := fakeStatsUsecase{courses: []statsdto.CourseStatsOutput{{
		Course:      "Prealgebra",
		Count:       3,
		P50:         1.2,
		PctAtLeast1: 66.7,
		PctThreshold: map[float64]float64{
			1.5:  33.3,
			0.75: 100,
			1.0:  66.7,
		},
	}}}
	source := out.NewStatsDocumentSource(fixedClock{now: documentNow}, stats, fakeFrontierUsecase{})

	payload, err := source.Document(context.Background(), domain.DocumentCourses)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	var envelope struct {
		Schema      string `json:"schema"`
		Kind        string `json:"kind"`
		GeneratedAt string `json:"generated_at"`
		Body        []struct {
			Course     string `json:"course"`
			Thresholds []struct {
				Threshold float64 `json:"threshold"`
				Pct       float64 `json:"pct"`
			} `json:"thresholds"`
		} `json:"body"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Schema != "mastats.document.v1" || envelope.Kind != "courses" {
		t.Fatalf("envelope %s/%s", envelope.Schema, envelope.Kind)
	}
	if envelope.GeneratedAt != "2024-06-01T12:00:00Z" {
		t.Fatalf("generated at %q", envelope.GeneratedAt)
	}
	if len(envelope.Body) != 1 || envelope.Body[0].Course != "Prealgebra" {
		t.Fatalf("body %+v", envelope.Body)
	}
	thresholds := envelope.Body[0].Thresholds
	if len(thresholds) != 3 {
		t.Fatalf("got %d thresholds, want 3", len(thresholds))
	}
	// Ladder must serialize in ascending threshold order.
	if thresholds[0].Threshold != 0.75 || thresholds[1].Threshold != 1.0 || thresholds[2].Threshold != 1.5 {
		t.Fatalf("threshold order %+v", thresholds)
	}
}

func TestFrontierDocumentNullsMissingKey(t *testing.T) {
	t.Parallel()
	frontier := fakeFrontierUsecase{topics: []frontierdto.RankedTopicOutput{
		{ID: 10, Name: "Fractions", SortKey: 3.5, HasKey: true},
		{ID: 12, Name: "Percents", HasKey: false},
	}}
	source := out.NewStatsDocumentSource(fixedClock{now: documentNow}, fakeStatsUsecase{}, frontier)

	payload, err := source.Document(context.Background(), domain.DocumentFrontier)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	var envelope struct {
		Body []struct {
			ID      int64    `json:"id"`
			SortKey *float64 `json:"sort_key"`
		} `json:"body"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Body) != 2 {
		t.Fatalf("body %+v", envelope.Body)
	}
	if envelope.Body[0].SortKey == nil || *envelope.Body[0].SortKey != 3.5 {
		t.Fatalf("ranked topic key lost: %+v", envelope.Body[0])
	}
	if envelope.Body[1].SortKey != nil {
		t.Fatalf("keyless topic must serialize a null key")
	}
}

func TestDocumentUnknownKind(t *testing.T) {
	t.Parallel()
	source := out.NewStatsDocumentSource(fixedClock{now: documentNow}, fakeStatsUsecase{}, fakeFrontierUsecase{})
	if _, err := source.Document(context.Background(), domain.DocumentKind("histogram")); err == nil {
		t.Fatalf("unknown kind must error")
	}
}
