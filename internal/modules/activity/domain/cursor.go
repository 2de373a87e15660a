package domain

import (
	"fmt"
	"time"
)

// cursorZone is the fixed UTC-8 label the history endpoint expects in its
// cursor parameter, independent of the student's actual timezone.
var cursorZone = time.FixedZone("UTC-8", -8*3600)

// Cursor is the timestamp parameter that drives backward pagination: the
// endpoint returns every activity completed at or before it.
type Cursor struct {
	At time.Time
}

func NewCursor(t time.Time) Cursor {
	return Cursor{At: t}
}

// String renders the endpoint's fixed locale-like format, e.g.
// "Tue Mar 5 2024 14:30 UTC-8".
func (c Cursor) String() string {
	t := c.At.In(cursorZone)
	return fmt.Sprintf("%s %s %d %d %02d:%02d UTC-8",
		t.Weekday().String()[:3],
		t.Month().String()[:3],
		t.Day(),
		t.Year(),
		t.Hour(),
		t.Minute(),
	)
}

func (c Cursor) Before(other Cursor) bool {
	return c.At.Before(other.At)
}

// Sub moves the cursor back by d.
func (c Cursor) Sub(d time.Duration) Cursor {
	return Cursor{At: c.At.Add(-d)}
}
