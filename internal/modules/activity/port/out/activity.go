package out

import (
	"context"
	"io"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

// HistoryClient fetches one page of activity history. The server controls
// page size; the only input is the cursor.
type HistoryClient interface {
	FetchPage(ctx context.Context, cursor domain.Cursor) ([]domain.Activity, error)
}

// Cache persists the most recently committed window. Store replaces the
// prior payload atomically: readers never observe a partial write.
type Cache interface {
	Load(ctx context.Context) (domain.CachePayload, bool, error)
	Store(ctx context.Context, payload domain.CachePayload) error
	Clear(ctx context.Context) error
}

// ProgressObserver receives pagination progress in step order. One observer
// instance belongs to one fetch cycle.
type ProgressObserver interface {
	PageFetched(page, fetched, kept int, cursor time.Time)
	Backoff(page int, cursor time.Time)
	CycleFinished(reason domain.StopReason, total int)
}

// Exporter writes a snapshot in one of the contract-bearing export formats.
type Exporter interface {
	WriteJSON(w io.Writer, items []domain.Activity) error
	WriteCSV(w io.Writer, items []domain.Activity) error
}
