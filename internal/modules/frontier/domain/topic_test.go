package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/domain"
)

func fp(v float64) *float64 { return &v }

func TestFrontierFlagDecoding(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want bool
	}{
		{`1`, true},
		{`true`, true},
		{`"1"`, true},
		{`0`, false},
		{`false`, false},
		{`"true"`, false},
		{`"yes"`, false},
		{`null`, false},
		{`2`, false},
	}
	for _, tc := range cases {
		var flag domain.FrontierFlag
		if err := json.Unmarshal([]byte(tc.raw), &flag); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if bool(flag) != tc.want {
			t.Fatalf("decode %s = %t, want %t", tc.raw, bool(flag), tc.want)
		}
	}
}

func TestNewValueStats(t *testing.T) {
	t.Parallel()
	stats := domain.NewValueStats([]float64{4, 1, 3, 2})
	if stats.Count != 4 || stats.Min != 1 || stats.Max != 4 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.Median != 2.5 {
		t.Fatalf("even-count median %v, want 2.5", stats.Median)
	}
	if stats.Mean != 2.5 {
		t.Fatalf("mean %v, want 2.5", stats.Mean)
	}

	odd := domain.NewValueStats([]float64{9, 1, 5})
	if odd.Median != 5 {
		t.Fatalf("odd-count median %v, want 5", odd.Median)
	}
	if empty := domain.NewValueStats(nil); empty.Count != 0 {
		t.Fatalf("empty stats %+v", empty)
	}
}

func graphTable() map[int64]domain.TopicNode {
	return map[int64]domain.TopicNode{
		1: {ID: 1, Name: "Add", Repetitions: fp(3), HalfLife: fp(30)},
		2: {ID: 2, Name: "Subtract", Repetitions: fp(5), HalfLife: fp(40)},
		3: {ID: 3, Name: "Multiply", Repetitions: fp(1), HalfLife: fp(10)},
		4: {ID: 4, Name: "Divide", Repetitions: fp(2), HalfLife: fp(20)},
		// Frontier nodes.
		10: {ID: 10, Name: "Fractions", Frontier: true, PrereqIDs: []int64{1, 2}},
		11: {ID: 11, Name: "Decimals", Frontier: true, PrereqIDs: []int64{3, 4}},
		12: {ID: 12, Name: "Percents", Frontier: true, PrereqIDs: []int64{99}},
	}
}

func TestEnrich(t *testing.T) {
	t.Parallel()
	table := graphTable()

	ranked := domain.Enrich(table[10], table)
	// reps {3,5}: median 4, min 3, key 3.5
	if ranked.SortKey != 3.5 {
		t.Fatalf("sort key %v, want 3.5", ranked.SortKey)
	}
	if ranked.RepStats.Count != 2 || ranked.HalfLifeStats.Median != 35 {
		t.Fatalf("prereq stats %+v / %+v", ranked.RepStats, ranked.HalfLifeStats)
	}
	if len(ranked.Prereqs) != 2 || ranked.Prereqs[0].Name != "Add" {
		t.Fatalf("prereqs %+v", ranked.Prereqs)
	}
}

func TestEnrichMissingPrereq(t *testing.T) {
	t.Parallel()
	table := graphTable()

	ranked := domain.Enrich(table[12], table)
	if len(ranked.Prereqs) != 1 || ranked.Prereqs[0] != nil {
		t.Fatalf("missing prerequisite must resolve to nil: %+v", ranked.Prereqs)
	}
	if !math.IsInf(ranked.SortKey, -1) {
		t.Fatalf("no repetition data must key to -Inf, got %v", ranked.SortKey)
	}
}

func TestRankFrontier(t *testing.T) {
	t.Parallel()
	ranked := domain.RankFrontier(graphTable())
	if len(ranked) != 3 {
		t.Fatalf("got %d frontier topics, want 3", len(ranked))
	}
	// 10 keys 3.5 ({3,5}), 11 keys 1.25 ({1,2}), 12 keys -Inf.
	if ranked[0].Topic.ID != 10 || ranked[1].Topic.ID != 11 || ranked[2].Topic.ID != 12 {
		t.Fatalf("order %d, %d, %d", ranked[0].Topic.ID, ranked[1].Topic.ID, ranked[2].Topic.ID)
	}
	if !math.IsInf(ranked[2].SortKey, -1) {
		t.Fatalf("incomplete data must rank last")
	}
}

func TestRankFrontierTieBreaksByID(t *testing.T) {
	t.Parallel()
	table := map[int64]domain.TopicNode{
		1:  {ID: 1, Repetitions: fp(4)},
		20: {ID: 20, Name: "B", Frontier: true, PrereqIDs: []int64{1}},
		10: {ID: 10, Name: "A", Frontier: true, PrereqIDs: []int64{1}},
	}
	ranked := domain.RankFrontier(table)
	if len(ranked) != 2 || ranked[0].Topic.ID != 10 || ranked[1].Topic.ID != 20 {
		t.Fatalf("equal keys must order by id: %+v", ranked)
	}
}
