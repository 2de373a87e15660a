package in

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/dto"
	activityin "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/in"
)

type CLIHandler struct {
	usecase activityin.Usecase
}

func NewCLIHandler(usecase activityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sync(ctx context.Context, progressOut io.Writer) (dto.SyncOutput, error) {
	return h.usecase.Sync(ctx, dto.SyncInput{}, writerObserver{w: progressOut})
}

func (h CLIHandler) List(ctx context.Context, activityType, period string, limit int) ([]dto.ActivityOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Type: activityType, Period: period, Limit: limit})
}

func (h CLIHandler) Export(ctx context.Context, format string, w io.Writer) error {
	return h.usecase.Export(ctx, dto.ExportInput{Format: format}, w)
}

func (h CLIHandler) ClearCache(ctx context.Context) error {
	return h.usecase.ClearCache(ctx)
}

// writerObserver prints one line per pagination step, in step order.
type writerObserver struct {
	w io.Writer
}

func (o writerObserver) PageFetched(page, fetched, kept int, cursor time.Time) {
	_, _ = fmt.Fprintf(o.w, "page %d: fetched=%d new=%d cursor=%s\n", page, fetched, kept, cursor.Format(time.RFC3339))
}

func (o writerObserver) Backoff(page int, cursor time.Time) {
	_, _ = fmt.Fprintf(o.w, "page %d: no progress, jumping cursor to %s\n", page, cursor.Format(time.RFC3339))
}

func (o writerObserver) CycleFinished(reason domain.StopReason, total int) {
	_, _ = fmt.Fprintf(o.w, "done (%s): %d activities cached\n", reason, total)
}
