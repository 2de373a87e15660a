package dto

import "time"

type SyncInput struct {
	WindowDays int
}

type SyncOutput struct {
	TotalCached int
	NewRecords  int
	Pages       int
	StopReason  string
	UpdatedAt   time.Time
}

type ListInput struct {
	Type   string
	Period string
	Limit  int
}

type ActivityOutput struct {
	ID            int64
	Type          string
	Course        string
	Topic         string
	Test          string
	Points        float64
	PointsAwarded float64
	CompletedAt   time.Time
	HasCompleted  bool
}

type SnapshotOutput struct {
	Count     int
	UpdatedAt time.Time
}

type ExportInput struct {
	Format string // "json" or "csv"
}
