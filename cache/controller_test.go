package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/the-event-map/event-map-api/models"
)

// fakeFavorites keeps favorites per user in memory, mirroring the store's
// toggle-then-read-back contract.
type fakeFavorites struct {
	mu   sync.Mutex
	sets map[string][]string
	err  error
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{sets: make(map[string][]string)}
}

func (s *fakeFavorites) Favorites(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]string{}, s.sets[userID]...), nil
}

func (s *fakeFavorites) ToggleFavorite(ctx context.Context, userID, eventID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	current := s.sets[userID]
	next := []string{}
	removed := false
	for _, id := range current {
		if id == eventID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, eventID)
	}
	s.sets[userID] = next
	return append([]string{}, next...), nil
}

type fakePinger struct {
	mu    sync.Mutex
	pings int
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pings++
	return nil
}

func (p *fakePinger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pings
}

func newTestController(source EventSource, favorites FavoritesStore, pinger SessionPinger) (*Controller, *EventCache) {
	c := NewEventCache()
	v := NewViewportState()
	v.Update(zurich, models.Viewport{})
	f := NewFetcher(source, c, v)
	f.pageSize = 3
	return NewController(c, f, v, favorites, pinger), c
}

func TestSignInLoadsFavoritesAndRefetches(t *testing.T) {
	source := newFakeSource(rawRows(2, "anon"))
	favorites := newFakeFavorites()
	favorites.sets["u1"] = []string{"ev-1", "ev-2"}
	ctrl, cache := newTestController(source, favorites, nil)

	// anonymous fetch fills the cache first
	ctrl.Apply(context.Background(), Trigger{Kind: TriggerIdle})
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached events after the anonymous fetch, got %d", cache.Len())
	}

	source.mu.Lock()
	source.pages = [][]models.RawEvent{rawRows(3, "authed")}
	source.mu.Unlock()
	callsBefore := source.pageCalls()

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerSignedIn, UserID: "u1"})

	if got := ctrl.UserID(); got != "u1" {
		t.Errorf("expected session user u1, got %q", got)
	}
	expected := []string{"ev-1", "ev-2"}
	if diff := deep.Equal(expected, ctrl.Favorites()); diff != nil {
		t.Errorf("favorites diff: %v", diff)
	}
	// the reset discards the anonymous view, then exactly one fetch refills
	if cache.Len() != 3 {
		t.Errorf("expected 3 cached events after the signed-in refetch, got %d", cache.Len())
	}
	if cache.Contains("anon-0") {
		t.Error("anonymous events must not survive a sign-in")
	}
	if calls := source.pageCalls() - callsBefore; calls != 2 {
		// 3 rows fill page 0 exactly, so the fetch requests a second page
		t.Errorf("expected one fetch run (2 page requests), got %d requests", calls)
	}
}

func TestSignOutClearsSessionAndCache(t *testing.T) {
	source := newFakeSource(rawRows(2, "authed"))
	favorites := newFakeFavorites()
	favorites.sets["u1"] = []string{"ev-1"}
	ctrl, cache := newTestController(source, favorites, nil)

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerSignedIn, UserID: "u1"})
	if cache.Len() != 2 || len(ctrl.Favorites()) != 1 {
		t.Fatalf("sign-in setup failed: %d events, %v favorites", cache.Len(), ctrl.Favorites())
	}

	source.mu.Lock()
	source.pages = [][]models.RawEvent{rawRows(1, "anon")}
	source.mu.Unlock()

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerSignedOut})

	if got := ctrl.UserID(); got != "" {
		t.Errorf("expected anonymous session, got %q", got)
	}
	if favs := ctrl.Favorites(); len(favs) != 0 {
		t.Errorf("expected empty favorites, got %v", favs)
	}
	if cache.Len() != 1 || !cache.Contains("anon-0") {
		t.Errorf("expected only the anonymous refetch in the cache, got %d events", cache.Len())
	}
}

func TestTokenRefreshKeepsSession(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	favorites := newFakeFavorites()
	favorites.sets["u1"] = []string{"ev-9"}
	ctrl, _ := newTestController(source, favorites, nil)

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerTokenRefreshed, UserID: "u1"})

	if got := ctrl.UserID(); got != "u1" {
		t.Errorf("expected session user u1, got %q", got)
	}
	if diff := deep.Equal([]string{"ev-9"}, ctrl.Favorites()); diff != nil {
		t.Errorf("favorites diff: %v", diff)
	}
}

func TestVisibilityPingsSessionThenFetches(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	pinger := &fakePinger{}
	ctrl, cache := newTestController(source, newFakeFavorites(), pinger)

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerVisibility})

	if pinger.count() != 1 {
		t.Errorf("expected 1 session ping, got %d", pinger.count())
	}
	if cache.Len() != 1 {
		t.Errorf("expected the visibility trigger to fetch, cache holds %d", cache.Len())
	}
}

func TestCacheClearResetsAndRefetches(t *testing.T) {
	source := newFakeSource(rawRows(2, "old"))
	ctrl, cache := newTestController(source, newFakeFavorites(), nil)

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerIdle})
	source.mu.Lock()
	source.pages = [][]models.RawEvent{rawRows(1, "new")}
	source.mu.Unlock()

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerCacheClear})

	if cache.Len() != 1 || !cache.Contains("new-0") {
		t.Errorf("expected only the refetched event, got %d events", cache.Len())
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	favorites := newFakeFavorites()
	ctrl, _ := newTestController(source, favorites, nil)

	ctrl.Apply(context.Background(), Trigger{Kind: TriggerSignedIn, UserID: "u1"})

	favs, err := ctrl.ToggleFavorite(context.Background(), "u1", "ev-1")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if diff := deep.Equal([]string{"ev-1"}, favs); diff != nil {
		t.Errorf("toggle on diff: %v", diff)
	}
	if diff := deep.Equal([]string{"ev-1"}, ctrl.Favorites()); diff != nil {
		t.Errorf("session favorites not updated: %v", diff)
	}

	favs, err = ctrl.ToggleFavorite(context.Background(), "u1", "ev-1")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("expected the second toggle to remove the favorite, got %v", favs)
	}
}

func TestToggleFavoriteRequiresUser(t *testing.T) {
	ctrl, _ := newTestController(newFakeSource(), newFakeFavorites(), nil)

	if _, err := ctrl.ToggleFavorite(context.Background(), "", "ev-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := ctrl.StoreFavorites(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRunDebouncesIdleTriggers(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	ctrl, cache := newTestController(source, newFakeFavorites(), nil)
	ctrl.IdleDebounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	// a pan gesture reports several intermediate idles in quick succession
	for i := 0; i < 5; i++ {
		ctrl.Notify(Trigger{Kind: TriggerIdle, Bounds: &zurich})
		time.Sleep(2 * time.Millisecond)
	}

	deadline := time.Now().Add(time.Second)
	for cache.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if cache.Len() != 1 {
		t.Fatalf("expected the debounced fetch to run, cache holds %d", cache.Len())
	}
	// all five idles must have collapsed into a single fetch run
	if calls := source.pageCalls(); calls != 1 {
		t.Errorf("expected 1 page request, got %d", calls)
	}
}

func TestConsumeNotifications(t *testing.T) {
	source := newFakeSource(rawRows(1, "p0"))
	ctrl, cache := newTestController(source, newFakeFavorites(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	ch := make(chan struct{}, 1)
	go ctrl.ConsumeNotifications(ch)
	ch <- struct{}{}
	close(ch)

	deadline := time.Now().Add(time.Second)
	for cache.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if cache.Len() != 1 {
		t.Errorf("expected the realtime notification to trigger a fetch, cache holds %d", cache.Len())
	}
}
