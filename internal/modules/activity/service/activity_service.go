package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/clock"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

// ActivityService serves reads over the cached snapshot. Callers always get
// a decoupled copy: the cache is only ever replaced wholesale by a sync
// cycle, never mutated through a reader.
type ActivityService struct {
	clock clock.Clock
	cache activityout.Cache
}

func NewActivityService(clk clock.Clock, cache activityout.Cache) *ActivityService {
	return &ActivityService{clock: clk, cache: cache}
}

func (s *ActivityService) Snapshot(ctx context.Context) ([]domain.Activity, time.Time, error) {
	payload, found, err := s.cache.Load(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load cache: %w", err)
	}
	if !found {
		return nil, time.Time{}, apperrors.ErrNoCachedData
	}
	items := make([]domain.Activity, len(payload.Items))
	copy(items, payload.Items)
	return items, payload.UpdatedAt, nil
}

// List returns the snapshot filtered by activity type and trailing period.
func (s *ActivityService) List(ctx context.Context, activityType, period string, limit int) ([]domain.Activity, error) {
	items, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	items, err = domain.FilterPeriod(items, period, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if activityType != "" {
		filtered := items[:0]
		for _, item := range items {
			if strings.EqualFold(item.Type, activityType) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *ActivityService) Export(ctx context.Context, exporter activityout.Exporter, format string, w io.Writer) error {
	items, _, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "json":
		return exporter.WriteJSON(w, items)
	case "csv":
		return exporter.WriteCSV(w, items)
	default:
		return fmt.Errorf("%w: unsupported export format %q", apperrors.ErrInvalidInput, format)
	}
}

func (s *ActivityService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
