package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/service"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/logging"
)

var syncNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Sleep(d time.Duration) { c.sleeps = append(c.sleeps, d) }

// scriptedClient returns one scripted page per call and the last page
// forever after.
type scriptedClient struct {
	pages   [][]domain.Activity
	cursors []domain.Cursor
	err     error
}

func (c *scriptedClient) FetchPage(_ context.Context, cursor domain.Cursor) ([]domain.Activity, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.cursors = append(c.cursors, cursor)
	idx := len(c.cursors) - 1
	if idx >= len(c.pages) {
		if len(c.pages) == 0 {
			return nil, nil
		}
		idx = len(c.pages) - 1
	}
	return c.pages[idx], nil
}

type memoryCache struct {
	payload domain.CachePayload
	found   bool
	stores  int
	loadErr error
}

func (m *memoryCache) Load(context.Context) (domain.CachePayload, bool, error) {
	return m.payload, m.found, m.loadErr
}

func (m *memoryCache) Store(_ context.Context, payload domain.CachePayload) error {
	m.payload = payload
	m.found = true
	m.stores++
	return nil
}

func (m *memoryCache) Clear(context.Context) error {
	m.payload = domain.CachePayload{}
	m.found = false
	return nil
}

type recordedEvent struct {
	kind   string
	page   int
	reason domain.StopReason
}

type recordingObserver struct {
	events []recordedEvent
}

func (o *recordingObserver) PageFetched(page, _, _ int, _ time.Time) {
	o.events = append(o.events, recordedEvent{kind: "page", page: page})
}

func (o *recordingObserver) Backoff(page int, _ time.Time) {
	o.events = append(o.events, recordedEvent{kind: "backoff", page: page})
}

func (o *recordingObserver) CycleFinished(reason domain.StopReason, _ int) {
	o.events = append(o.events, recordedEvent{kind: "done", reason: reason})
}

func newSyncService(clk *fixedClock, client *scriptedClient, cache *memoryCache, window time.Duration, pageCap int) *service.SyncService {
	return service.NewSyncService(clk, clk, client, cache, logging.Discard(), window, pageCap, 50*time.Millisecond)
}

func dated(id int64, completed time.Time) domain.Activity {
	return domain.Activity{ID: id, PointsAwarded: 10, Completed: domain.NewTimeValue(completed)}
}

func TestSyncStopsWhenWindowExhausted(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	client := &scriptedClient{pages: [][]domain.Activity{
		{dated(1, syncNow.AddDate(0, 0, -1)), dated(2, syncNow.AddDate(0, 0, -15))},
	}}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 10*24*time.Hour, 200)

	result, err := svc.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.StopReason != domain.StopWindowExhausted {
		t.Fatalf("stop reason %q, want %q", result.StopReason, domain.StopWindowExhausted)
	}
	if result.Pages != 1 {
		t.Fatalf("pages %d, want 1", result.Pages)
	}
	// The 15-day-old record is outside the 10-day window and is trimmed
	// from the committed payload.
	if result.TotalCached != 1 {
		t.Fatalf("cached %d, want 1", result.TotalCached)
	}
	if cache.stores != 1 {
		t.Fatalf("stores %d, want 1", cache.stores)
	}
}

func TestSyncIsIdempotentAcrossCycles(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	page := []domain.Activity{
		dated(1, syncNow.Add(-time.Hour)),
		dated(2, syncNow.Add(-2*time.Hour)),
	}
	cache := &memoryCache{}

	first := newSyncService(clk, &scriptedClient{pages: [][]domain.Activity{page}}, cache, 365*24*time.Hour, 5)
	if _, err := first.Sync(context.Background(), nil); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	second := newSyncService(clk, &scriptedClient{pages: [][]domain.Activity{page}}, cache, 365*24*time.Hour, 5)
	result, err := second.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.NewRecords != 0 {
		t.Fatalf("new records %d, want 0", result.NewRecords)
	}
	if result.TotalCached != 2 {
		t.Fatalf("cached %d, want 2", result.TotalCached)
	}
}

func TestSyncStallsAfterTwoNoProgressPages(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	client := &scriptedClient{pages: [][]domain.Activity{{}}}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 200)

	observer := &recordingObserver{}
	result, err := svc.Sync(context.Background(), observer)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.StopReason != domain.StopStalled {
		t.Fatalf("stop reason %q, want %q", result.StopReason, domain.StopStalled)
	}
	if result.Pages != 2 {
		t.Fatalf("pages %d, want 2", result.Pages)
	}

	// First empty page backs the cursor off by the fixed jump; the second
	// gives up. The second fetch must use the jumped cursor.
	if len(client.cursors) != 2 {
		t.Fatalf("fetches %d, want 2", len(client.cursors))
	}
	jump := client.cursors[0].At.Sub(client.cursors[1].At)
	if jump != 1000*24*time.Hour {
		t.Fatalf("cursor jump %v, want 1000 days", jump)
	}

	kinds := make([]string, 0, len(observer.events))
	for _, e := range observer.events {
		kinds = append(kinds, e.kind)
	}
	want := []string{"page", "backoff", "page", "done"}
	if len(kinds) != len(want) {
		t.Fatalf("events %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events %v, want %v", kinds, want)
		}
	}
}

func TestSyncUnparsableTimestampsTakeBackoffPath(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	undated := domain.Activity{ID: 7, Completed: domain.NewRawTimeValue("not a date")}
	client := &scriptedClient{pages: [][]domain.Activity{{undated}}}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 200)

	result, err := svc.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.StopReason != domain.StopStalled {
		t.Fatalf("stop reason %q, want %q", result.StopReason, domain.StopStalled)
	}
	// The undated record is still committed.
	if result.TotalCached != 1 {
		t.Fatalf("cached %d, want 1", result.TotalCached)
	}
}

func TestSyncRespectsPageCapAndPacing(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	pages := [][]domain.Activity{
		{dated(1, syncNow.Add(-1*time.Hour))},
		{dated(2, syncNow.Add(-2*time.Hour))},
		{dated(3, syncNow.Add(-3*time.Hour))},
	}
	client := &scriptedClient{pages: pages}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 3)

	result, err := svc.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.StopReason != domain.StopPageCap {
		t.Fatalf("stop reason %q, want %q", result.StopReason, domain.StopPageCap)
	}
	if result.Pages != 3 || result.TotalCached != 3 {
		t.Fatalf("pages=%d cached=%d, want 3 and 3", result.Pages, result.TotalCached)
	}
	// Pacing sleeps happen between pages, not after the last one.
	if len(clk.sleeps) != 2 {
		t.Fatalf("sleeps %d, want 2", len(clk.sleeps))
	}
}

func TestSyncCursorLeadsOldestTimestamp(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	oldest := syncNow.Add(-3 * time.Hour)
	client := &scriptedClient{pages: [][]domain.Activity{
		{dated(1, syncNow.Add(-time.Hour)), dated(2, oldest)},
		{},
		{},
	}}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 200)

	if _, err := svc.Sync(context.Background(), nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(client.cursors) < 2 {
		t.Fatalf("fetches %d, want at least 2", len(client.cursors))
	}
	want := oldest.Add(-time.Minute)
	if !client.cursors[1].At.Equal(want) {
		t.Fatalf("second cursor %v, want %v", client.cursors[1].At, want)
	}
}

func TestSyncFetchFailureLeavesCacheUntouched(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	prior := domain.CachePayload{
		Items:     []domain.Activity{dated(1, syncNow.Add(-time.Hour))},
		UpdatedAt: syncNow.Add(-24 * time.Hour),
	}
	cache := &memoryCache{payload: prior, found: true}
	client := &scriptedClient{err: errors.New("connection reset")}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 200)

	if _, err := svc.Sync(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}
	if cache.stores != 0 {
		t.Fatalf("cache written on failed cycle")
	}
	if len(cache.payload.Items) != 1 {
		t.Fatalf("prior payload lost")
	}
}

func TestSyncCommitsNewestFirst(t *testing.T) {
	t.Parallel()
	clk := &fixedClock{now: syncNow}
	client := &scriptedClient{pages: [][]domain.Activity{{
		dated(1, syncNow.Add(-3*time.Hour)),
		dated(2, syncNow.Add(-time.Hour)),
		dated(3, syncNow.Add(-2*time.Hour)),
	}}}
	cache := &memoryCache{}
	svc := newSyncService(clk, client, cache, 3*365*24*time.Hour, 1)

	if _, err := svc.Sync(context.Background(), nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	got := cache.payload.Items
	if len(got) != 3 || got[0].ID != 2 || got[1].ID != 3 || got[2].ID != 1 {
		t.Fatalf("unexpected committed order: %+v", got)
	}
	if !cache.payload.UpdatedAt.Equal(syncNow) {
		t.Fatalf("updated at %v, want %v", cache.payload.UpdatedAt, syncNow)
	}
}
