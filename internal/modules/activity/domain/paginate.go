package domain

import "time"

// StopReason records why a fetch cycle terminated.
type StopReason string

const (
	StopWindowExhausted StopReason = "window_exhausted"
	StopPageCap         StopReason = "page_cap_reached"
	StopStalled         StopReason = "stalled"
)

// OldestCompleted returns the minimum parsable completed time in a page.
// ok is false when no item carries a parsable timestamp, which forces the
// paginator onto the backoff path.
func OldestCompleted(items []Activity) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, item := range items {
		completed, parsed := item.CompletedAt()
		if !parsed {
			continue
		}
		if !found || completed.Before(oldest) {
			oldest = completed
			found = true
		}
	}
	return oldest, found
}
