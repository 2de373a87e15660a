package in

import (
	"context"
	"io"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/dto"
)

type Usecase interface {
	Sync(ctx context.Context, input dto.SyncInput, observer SyncObserver) (dto.SyncOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.ActivityOutput, error)
	Snapshot(ctx context.Context) ([]domain.Activity, time.Time, error)
	Export(ctx context.Context, input dto.ExportInput, w io.Writer) error
	ClearCache(ctx context.Context) error
}

// SyncObserver mirrors the out-port observer at the in-port boundary so
// CLI and TUI surfaces can report progress without importing the service.
type SyncObserver interface {
	PageFetched(page, fetched, kept int, cursor time.Time)
	Backoff(page int, cursor time.Time)
	CycleFinished(reason domain.StopReason, total int)
}
