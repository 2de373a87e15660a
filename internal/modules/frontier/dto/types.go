package dto

type RankInput struct {
	Limit int
}

type PrereqOutput struct {
	ID       int64
	Name     string
	Missing  bool
	Reps     *float64
	HalfLife *float64
}

type RankedTopicOutput struct {
	ID        int64
	Name      string
	SortKey   float64
	HasKey    bool
	RepMin    float64
	RepMax    float64
	RepMedian float64
	RepMean   float64
	HLMin     float64
	HLMax     float64
	HLMedian  float64
	HLMean    float64
	Prereqs   []PrereqOutput
}
