package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-test/deep"
	"github.com/the-event-map/event-map-api/models"
)

// fakeSource serves canned pages and can be made to fail or block.
type fakeSource struct {
	mu      sync.Mutex
	pages   [][]models.RawEvent
	failOn  int // page index that errors, -1 for never
	calls   int
	entered chan struct{} // closed-ish signal, one send per FetchPage entry
	release chan struct{} // when non-nil, FetchPage blocks on it
}

func newFakeSource(pages ...[]models.RawEvent) *fakeSource {
	return &fakeSource{pages: pages, failOn: -1}
}

func (s *fakeSource) FetchPage(ctx context.Context, rect models.Rect, page, size int) ([]models.RawEvent, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	if page == s.failOn {
		return nil, errors.New("backend unavailable")
	}
	if page >= len(s.pages) {
		return nil, nil
	}
	return s.pages[page], nil
}

func (s *fakeSource) pageCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func rawRows(n int, prefix string) []models.RawEvent {
	rows := make([]models.RawEvent, n)
	for i := range rows {
		rows[i] = models.RawEvent{ID: fmt.Sprintf("%s-%d", prefix, i), Title: "t", Lat: 47.0, Lng: 8.0}
	}
	return rows
}

func newTestFetcher(source EventSource) (*Fetcher, *EventCache) {
	c := NewEventCache()
	v := NewViewportState()
	v.Update(zurich, models.Viewport{})
	f := NewFetcher(source, c, v)
	f.pageSize = 3
	return f, c
}

func TestFetchPaginatesUntilShortPage(t *testing.T) {
	source := newFakeSource(rawRows(3, "p0"), rawRows(2, "p1"))
	f, c := newTestFetcher(source)

	merged := f.FetchInBounds(context.Background(), zurich, "test")
	if merged != 5 {
		t.Errorf("expected 5 merged events, got %d", merged)
	}
	if c.Len() != 5 {
		t.Errorf("expected 5 cached events, got %d", c.Len())
	}
	// page 1 was short, so page 2 must never be requested
	if source.pageCalls() != 2 {
		t.Errorf("expected 2 page requests, got %d", source.pageCalls())
	}
	if _, lastErr := f.LastRun(); lastErr != "" {
		t.Errorf("unexpected fetch error: %s", lastErr)
	}
}

func TestFetchSkipsAlreadyLoadedEvents(t *testing.T) {
	// two overlapping viewports serve an intersecting set of rows
	first := append(rawRows(2, "shared"), models.RawEvent{ID: "only-first", Lat: 47.0, Lng: 8.0})
	second := append(rawRows(2, "shared"), models.RawEvent{ID: "only-second", Lat: 47.1, Lng: 8.1})

	source := newFakeSource(first)
	f, c := newTestFetcher(source)

	if merged := f.FetchInBounds(context.Background(), zurich, "test"); merged != 3 {
		t.Fatalf("first fetch merged %d, want 3", merged)
	}

	source.mu.Lock()
	source.pages = [][]models.RawEvent{second}
	source.mu.Unlock()

	if merged := f.FetchInBounds(context.Background(), zurich, "test"); merged != 1 {
		t.Errorf("second fetch merged %d, want 1 (only the unseen event)", merged)
	}
	if c.Len() != 4 {
		t.Errorf("expected 4 cached events, got %d", c.Len())
	}
}

func TestFetchSkipsRowsWithoutID(t *testing.T) {
	source := newFakeSource([]models.RawEvent{
		{ID: "ok", Lat: 47.0, Lng: 8.0},
		{Title: "no id"},
		{ID: "ok"}, // repeated within the same run
	})
	f, c := newTestFetcher(source)

	if merged := f.FetchInBounds(context.Background(), zurich, "test"); merged != 1 {
		t.Errorf("expected 1 merged event, got %d", merged)
	}
	expected := []string{"ok"}
	got := []string{}
	for _, ev := range c.Snapshot() {
		got = append(got, ev.ID)
	}
	if diff := deep.Equal(expected, got); diff != nil {
		t.Errorf("%v and %v are not equal. diff: %v", got, expected, diff)
	}
}

func TestFetchKeepsPartialProgressOnError(t *testing.T) {
	source := newFakeSource(rawRows(3, "p0"))
	source.failOn = 1
	f, c := newTestFetcher(source)

	merged := f.FetchInBounds(context.Background(), zurich, "test")
	if merged != 3 {
		t.Errorf("expected the 3 events of page 0 to survive the error, got %d", merged)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 cached events, got %d", c.Len())
	}
	if _, lastErr := f.LastRun(); lastErr == "" {
		t.Error("expected the failed run to be recorded")
	}
}

func TestFetchDropsConcurrentTriggers(t *testing.T) {
	source := newFakeSource(rawRows(2, "p0"))
	source.entered = make(chan struct{}, 1)
	source.release = make(chan struct{})
	f, c := newTestFetcher(source)

	done := make(chan int)
	go func() {
		done <- f.FetchInBounds(context.Background(), zurich, "first")
	}()

	<-source.entered // the first fetch is now inside the backend call
	if !f.InFlight() {
		t.Error("InFlight must report true during a fetch")
	}
	if merged := f.FetchInBounds(context.Background(), zurich, "second"); merged != 0 {
		t.Errorf("concurrent trigger must be dropped, merged %d", merged)
	}

	close(source.release)
	if merged := <-done; merged != 2 {
		t.Errorf("first fetch merged %d, want 2", merged)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 cached events, got %d", c.Len())
	}
	if f.InFlight() {
		t.Error("InFlight must report false after the fetch finished")
	}
}

func TestFetchCurrentWithoutBounds(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	c := NewEventCache()
	v := NewViewportState()
	v.Timeout = 0 // never reported, give up immediately
	f := NewFetcher(source, c, v)

	if merged := f.FetchCurrent(context.Background(), "test"); merged != 0 {
		t.Errorf("expected 0 without bounds, got %d", merged)
	}
	if source.pageCalls() != 0 {
		t.Error("backend must not be hit before the map reported bounds")
	}
}
