package domain

import (
	"sort"
	"strings"
	"time"
)

const UnknownCourse = "Unknown"

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TopicRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Course Course `json:"course"`
}

type TestRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Course Course `json:"course"`
}

// Activity is one completed unit of work on the platform. Records are
// immutable facts; ID is the sole dedup key across the whole history.
type Activity struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Multistep     string    `json:"multistepType,omitempty"`
	Points        float64   `json:"points"`
	PointsAwarded float64   `json:"pointsAwarded"`
	Started       TimeValue `json:"started"`
	Completed     TimeValue `json:"completed"`
	Topic         TopicRef  `json:"topic"`
	Test          TestRef   `json:"test"`
}

// CompletedAt resolves the canonical ordering key. ok is false when the
// platform encoding could not be parsed; such records are retained but
// excluded from time-windowed views.
func (a Activity) CompletedAt() (time.Time, bool) {
	return a.Completed.Resolve()
}

func (a Activity) StartedAt() (time.Time, bool) {
	return a.Started.Resolve()
}

// AttributedCourse returns the course the activity counts toward.
// test.course is authoritative; topic.course is deliberately ignored.
func (a Activity) AttributedCourse() string {
	name := strings.TrimSpace(a.Test.Course.Name)
	if name == "" {
		return UnknownCourse
	}
	return name
}

// DedupByID keeps the first occurrence of every id, preserving order.
func DedupByID(items []Activity) []Activity {
	seen := make(map[int64]struct{}, len(items))
	out := make([]Activity, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// SortByCompletedDesc orders newest first. Records with an unresolvable
// completed time are treated as -infinity and sort last.
func SortByCompletedDesc(items []Activity) {
	sort.SliceStable(items, func(i, j int) bool {
		return completedKey(items[i]) > completedKey(items[j])
	})
}

// FilterWindow keeps records whose completed time lies inside
// [start, end]. Records with no resolvable time always pass: an
// unknown-dated record is assumed in-window rather than dropped.
func FilterWindow(items []Activity, start, end time.Time) []Activity {
	out := make([]Activity, 0, len(items))
	for _, item := range items {
		completed, ok := item.CompletedAt()
		if !ok {
			out = append(out, item)
			continue
		}
		if completed.Before(start) || completed.After(end) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func completedKey(a Activity) int64 {
	completed, ok := a.CompletedAt()
	if !ok {
		return int64(minInt64)
	}
	return completed.UnixMilli()
}

const minInt64 = -1 << 63

// CachePayload wraps one complete fetched window. It is overwritten
// wholesale on every successful fetch cycle.
type CachePayload struct {
	Items     []Activity `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
