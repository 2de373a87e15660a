package domain

import (
	"bytes"
	"math"
	"sort"
)

// FrontierFlag decodes the graph endpoint's ad-hoc truthy encoding: only
// the literal values 1, true, or "1" count as frontier. The raw encoding
// is decoded once here and never re-checked downstream.
type FrontierFlag bool

func (f *FrontierFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "1", "true", `"1"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f FrontierFlag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// TopicNode is one node of the prerequisite graph. Prerequisites are
// references into the same graph response, resolved by id, never owned.
type TopicNode struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	PrereqIDs   []int64      `json:"prerequisites"`
	Frontier    FrontierFlag `json:"frontier"`
	Repetitions *float64     `json:"repetitions"`
	HalfLife    *float64     `json:"halfLife"`
}

// ValueStats summarizes one numeric attribute across resolved
// prerequisites.
type ValueStats struct {
	Min    float64
	Max    float64
	Median float64
	Mean   float64
	Count  int
}

func NewValueStats(values []float64) ValueStats {
	if len(values) == 0 {
		return ValueStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return ValueStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median,
		Mean:   sum / float64(len(sorted)),
		Count:  len(sorted),
	}
}

// RankedTopic is a frontier topic enriched with its resolved
// prerequisites and their statistics. A missing prerequisite id resolves
// to nil, not an error.
type RankedTopic struct {
	Topic         TopicNode
	Prereqs       []*TopicNode
	RepStats      ValueStats
	HalfLifeStats ValueStats
	SortKey       float64
}

// Enrich resolves one frontier topic against the full node table and
// computes its prerequisite statistics. The sort key is the average of
// the median and minimum repetition values; a topic with no resolvable
// repetition stats keys to -Inf so incomplete data ranks last. Half-life
// stats are carried for display only and never influence the key.
func Enrich(topic TopicNode, table map[int64]TopicNode) RankedTopic {
	ranked := RankedTopic{Topic: topic, SortKey: math.Inf(-1)}

	var reps, halfLives []float64
	for _, prereqID := range topic.PrereqIDs {
		node, ok := table[prereqID]
		if !ok {
			ranked.Prereqs = append(ranked.Prereqs, nil)
			continue
		}
		resolved := node
		ranked.Prereqs = append(ranked.Prereqs, &resolved)
		if node.Repetitions != nil {
			reps = append(reps, *node.Repetitions)
		}
		if node.HalfLife != nil {
			halfLives = append(halfLives, *node.HalfLife)
		}
	}
	ranked.RepStats = NewValueStats(reps)
	ranked.HalfLifeStats = NewValueStats(halfLives)
	if ranked.RepStats.Count > 0 {
		ranked.SortKey = (ranked.RepStats.Median + ranked.RepStats.Min) / 2
	}
	return ranked
}

// RankFrontier filters the graph to frontier nodes and orders them by
// descending sort key; -Inf keys land at the bottom.
func RankFrontier(table map[int64]TopicNode) []RankedTopic {
	var out []RankedTopic
	for _, node := range table {
		if !bool(node.Frontier) {
			continue
		}
		out = append(out, Enrich(node, table))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey > out[j].SortKey
		}
		return out[i].Topic.ID < out[j].Topic.ID
	})
	return out
}
