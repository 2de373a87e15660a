package usecase

import (
	"context"
	"io"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/dto"
	activityin "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/in"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/service"
)

type Interactor struct {
	sync     *service.SyncService
	activity *service.ActivityService
	exporter activityout.Exporter
}

func NewInteractor(sync *service.SyncService, activity *service.ActivityService, exporter activityout.Exporter) activityin.Usecase {
	return &Interactor{sync: sync, activity: activity, exporter: exporter}
}

func (i *Interactor) Sync(ctx context.Context, _ dto.SyncInput, observer activityin.SyncObserver) (dto.SyncOutput, error) {
	result, err := i.sync.Sync(ctx, adaptObserver(observer))
	if err != nil {
		return dto.SyncOutput{}, err
	}
	return dto.SyncOutput{
		TotalCached: result.TotalCached,
		NewRecords:  result.NewRecords,
		Pages:       result.Pages,
		StopReason:  string(result.StopReason),
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.ActivityOutput, error) {
	items, err := i.activity.List(ctx, input.Type, input.Period, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityOutput, 0, len(items))
	for _, item := range items {
		completed, ok := item.CompletedAt()
		out = append(out, dto.ActivityOutput{
			ID:            item.ID,
			Type:          item.Type,
			Course:        item.AttributedCourse(),
			Topic:         item.Topic.Name,
			Test:          item.Test.Name,
			Points:        item.Points,
			PointsAwarded: item.PointsAwarded,
			CompletedAt:   completed,
			HasCompleted:  ok,
		})
	}
	return out, nil
}

func (i *Interactor) Snapshot(ctx context.Context) ([]domain.Activity, time.Time, error) {
	return i.activity.Snapshot(ctx)
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput, w io.Writer) error {
	return i.activity.Export(ctx, i.exporter, input.Format, w)
}

func (i *Interactor) ClearCache(ctx context.Context) error {
	return i.activity.ClearCache(ctx)
}

// adaptObserver bridges the in-port observer onto the out-port the sync
// service expects. Nil stays nil so the service installs its no-op.
func adaptObserver(observer activityin.SyncObserver) activityout.ProgressObserver {
	if observer == nil {
		return nil
	}
	return observerBridge{observer}
}

type observerBridge struct {
	inner activityin.SyncObserver
}

func (b observerBridge) PageFetched(page, fetched, kept int, cursor time.Time) {
	b.inner.PageFetched(page, fetched, kept, cursor)
}

func (b observerBridge) Backoff(page int, cursor time.Time) {
	b.inner.Backoff(page, cursor)
}

func (b observerBridge) CycleFinished(reason domain.StopReason, total int) {
	b.inner.CycleFinished(reason, total)
}
