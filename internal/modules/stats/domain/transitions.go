package domain

import (
	"sort"
	"time"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

// Transition is one course switch observed while walking the history in
// ascending time order.
type Transition struct {
	At    time.Time
	From  string
	To    string
	Label string // "<from> → <to>"
}

// CourseTransitions records an event each time the attributed course
// changes between two non-"Unknown" values. Records with no resolvable
// completed time cannot be ordered and are skipped.
func CourseTransitions(items []activitydomain.Activity) []Transition {
	type dated struct {
		at     time.Time
		course string
	}
	ordered := make([]dated, 0, len(items))
	for _, item := range items {
		completed, ok := item.CompletedAt()
		if !ok {
			continue
		}
		ordered = append(ordered, dated{at: completed, course: item.AttributedCourse()})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].at.Before(ordered[j].at) })

	var out []Transition
	previous := ""
	for _, entry := range ordered {
		if entry.course == activitydomain.UnknownCourse {
			continue
		}
		if previous != "" && entry.course != previous {
			out = append(out, Transition{
				At:    entry.at,
				From:  previous,
				To:    entry.course,
				Label: previous + " → " + entry.course,
			})
		}
		previous = entry.course
	}
	return out
}

// CurrentCourse is the attributed course of the most recently completed
// activity, or "Unknown" when the set is empty.
func CurrentCourse(items []activitydomain.Activity) string {
	var best time.Time
	course := activitydomain.UnknownCourse
	found := false
	for _, item := range items {
		completed, ok := item.CompletedAt()
		if !ok {
			continue
		}
		if !found || completed.After(best) {
			best = completed
			course = item.AttributedCourse()
			found = true
		}
	}
	return course
}
