package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/clock"
)

const (
	// backoffJump is the fixed cursor jump used when a page yields no
	// usable progress signal.
	backoffJump = 1000 * 24 * time.Hour
	// cursorLead is subtracted from the oldest page timestamp before the
	// next request so the boundary item is not fetched twice.
	cursorLead = time.Minute
	// maxStalls bounds consecutive no-progress steps before giving up.
	maxStalls = 2
)

// SyncService runs one fetch cycle: paginate the history endpoint
// backwards from now to the window start, merge with the cached set, and
// commit the result in a single cache write. The cycle is all-or-nothing:
// a transport or format failure discards everything accumulated in memory.
type SyncService struct {
	clock   clock.Clock
	sleeper clock.Sleeper
	client  activityout.HistoryClient
	cache   activityout.Cache
	log     *slog.Logger

	window  time.Duration
	pageCap int
	pacing  time.Duration
}

func NewSyncService(clk clock.Clock, sleeper clock.Sleeper, client activityout.HistoryClient, cache activityout.Cache, log *slog.Logger, window time.Duration, pageCap int, pacing time.Duration) *SyncService {
	return &SyncService{
		clock:   clk,
		sleeper: sleeper,
		client:  client,
		cache:   cache,
		log:     log,
		window:  window,
		pageCap: pageCap,
		pacing:  pacing,
	}
}

type SyncResult struct {
	TotalCached int
	NewRecords  int
	Pages       int
	StopReason  domain.StopReason
	UpdatedAt   time.Time
}

func (s *SyncService) Sync(ctx context.Context, observer activityout.ProgressObserver) (SyncResult, error) {
	if observer == nil {
		observer = noopObserver{}
	}

	cached, _, err := s.cache.Load(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load cache: %w", err)
	}
	// Seen-id tracking is local to this cycle; cached ids seed it so a
	// repeat record is skipped for accumulation without stopping the walk.
	seen := make(map[int64]struct{}, len(cached.Items))
	for _, item := range cached.Items {
		seen[item.ID] = struct{}{}
	}

	now := s.clock.Now()
	windowStart := now.Add(-s.window)
	cursor := domain.NewCursor(now)

	var fresh []domain.Activity
	stop := domain.StopReason("")
	stalls := 0
	pages := 0

	for page := 1; page <= s.pageCap; page++ {
		items, err := s.client.FetchPage(ctx, cursor)
		if err != nil {
			return SyncResult{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
		pages = page

		kept := 0
		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			fresh = append(fresh, item)
			kept++
		}
		observer.PageFetched(page, len(items), kept, cursor.At)
		s.log.Debug("page fetched", "page", page, "fetched", len(items), "kept", kept, "cursor", cursor.At)

		progressed := false
		if len(items) > 0 {
			if oldest, ok := domain.OldestCompleted(items); ok {
				candidate := domain.NewCursor(oldest.Add(-cursorLead))
				if candidate.Before(cursor) {
					cursor = candidate
					progressed = true
				}
			}
		}

		if progressed {
			stalls = 0
		} else {
			stalls++
			if stalls >= maxStalls {
				stop = domain.StopStalled
				break
			}
			cursor = cursor.Sub(backoffJump)
			observer.Backoff(page, cursor.At)
			s.log.Debug("cursor backoff", "page", page, "cursor", cursor.At)
		}

		if cursor.At.Before(windowStart) {
			stop = domain.StopWindowExhausted
			break
		}
		if page < s.pageCap {
			s.sleeper.Sleep(s.pacing)
		}
	}
	if stop == "" {
		stop = domain.StopPageCap
	}

	merged := append(append([]domain.Activity{}, cached.Items...), fresh...)
	merged = domain.DedupByID(merged)
	merged = domain.FilterWindow(merged, windowStart, now)
	domain.SortByCompletedDesc(merged)

	payload := domain.CachePayload{Items: merged, UpdatedAt: now}
	if err := s.cache.Store(ctx, payload); err != nil {
		return SyncResult{}, fmt.Errorf("store cache: %w", err)
	}
	observer.CycleFinished(stop, len(merged))
	s.log.Info("sync cycle finished", "reason", string(stop), "pages", pages, "new", len(fresh), "total", len(merged))

	return SyncResult{
		TotalCached: len(merged),
		NewRecords:  len(fresh),
		Pages:       pages,
		StopReason:  stop,
		UpdatedAt:   now,
	}, nil
}

type noopObserver struct{}

func (noopObserver) PageFetched(int, int, int, time.Time) {}
func (noopObserver) Backoff(int, time.Time)               {}
func (noopObserver) CycleFinished(domain.StopReason, int) {}
