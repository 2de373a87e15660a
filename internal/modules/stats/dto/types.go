package dto

import "time"

type Filter struct {
	Type   string
	Period string
}

type CourseStatsOutput struct {
	Course       string
	Count        int
	P25          float64
	P50          float64
	P75          float64
	PctAtLeast1  float64
	PctThreshold map[float64]float64
}

type DayOutput struct {
	Date          string
	XP            float64
	Count         int
	Earned        float64
	Possible      float64
	AttainmentPct float64
}

type TimelinePointOutput struct {
	Date             string
	DailyXP          float64
	CumulativeXP     float64
	CumulativeCount  int
	RollingAvgXP     float64
	RollingPctEarned float64
}

type TypeCountsOutput struct {
	Quiz       int
	Diagnostic int
	Lesson     int
	Review     int
	Multistep  int
}

type TransitionOutput struct {
	At    time.Time
	Label string
}

type OverviewOutput struct {
	CurrentCourse string
	TotalXP       float64
	Activities    int
	UpdatedAt     time.Time
}
