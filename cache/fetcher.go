package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/the-event-map/event-map-api/metrics"
	"github.com/the-event-map/event-map-api/models"
)

// DefaultPageSize is how many rows one backend page request asks for.
const DefaultPageSize = 100

// EventSource is the slice of the data service the fetcher needs.
type EventSource interface {
	FetchPage(ctx context.Context, rect models.Rect, page, size int) ([]models.RawEvent, error)
}

// Fetcher loads the events inside a bounds rectangle into the cache. Pages
// are requested strictly sequentially, every row is normalized and checked
// against the loaded-id set, and all new events of one run are merged in a
// single append. At most one fetch is in flight at any time; triggers
// arriving while one runs are dropped, not queued — the next viewport idle
// will catch up on whatever they would have fetched.
type Fetcher struct {
	source   EventSource
	cache    *EventCache
	viewport *ViewportState
	pageSize int

	inFlight atomic.Bool

	mu        sync.RWMutex
	lastFetch time.Time
	lastErr   string
}

func NewFetcher(source EventSource, cache *EventCache, viewport *ViewportState) *Fetcher {
	return &Fetcher{
		source:   source,
		cache:    cache,
		viewport: viewport,
		pageSize: DefaultPageSize,
	}
}

// FetchCurrent waits for the map to be ready and fetches the events in the
// currently visible bounds. The trigger name is only used for logging and
// metrics.
func (f *Fetcher) FetchCurrent(ctx context.Context, trigger string) int {
	bounds := f.viewport.AwaitBounds(ctx)
	if bounds == nil {
		log.Warnf("map bounds not ready, skipping %s fetch", trigger)
		return 0
	}
	return f.FetchInBounds(ctx, *bounds, trigger)
}

// FetchInBounds pages through the backend inside bounds and merges all
// previously unseen events into the cache. Returns the number of events
// merged. A backend error mid-pagination stops the run but keeps what was
// accumulated before it; the next trigger retries naturally.
func (f *Fetcher) FetchInBounds(ctx context.Context, bounds models.Bounds, trigger string) int {
	if !f.inFlight.CompareAndSwap(false, true) {
		metrics.DroppedTriggers.WithLabelValues(trigger).Inc()
		log.Debugf("fetch already in flight, dropping %s trigger", trigger)
		return 0
	}
	defer f.inFlight.Store(false)

	rect := bounds.Rect()
	var newly []models.Event
	seen := make(map[string]struct{})

	for page := 0; ; page++ {
		rows, err := f.source.FetchPage(ctx, rect, page, f.pageSize)
		if err != nil {
			metrics.FetchErrors.Inc()
			log.Errorf("page %d fetch failed, keeping %d events fetched so far: %v", page, len(newly), err)
			f.recordRun(err)
			break
		}
		metrics.FetchPages.Inc()

		for _, row := range rows {
			ev := models.Normalize(row)
			if ev.ID == "" {
				continue
			}
			if f.cache.Contains(ev.ID) {
				continue
			}
			// the backend may hand out the same row on two pages when rows
			// shift underneath the pagination
			if _, dup := seen[ev.ID]; dup {
				continue
			}
			seen[ev.ID] = struct{}{}
			newly = append(newly, ev)
		}

		if len(rows) < f.pageSize {
			f.recordRun(nil)
			break
		}
	}

	if len(newly) > 0 {
		f.cache.Append(newly)
		log.Infof("merged %d new events for %s trigger, cache now holds %d", len(newly), trigger, f.cache.Len())
	}
	return len(newly)
}

// InFlight reports whether a fetch is currently running.
func (f *Fetcher) InFlight() bool {
	return f.inFlight.Load()
}

// LastRun returns the time of the last completed fetch and its error, if
// any.
func (f *Fetcher) LastRun() (time.Time, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastFetch, f.lastErr
}

func (f *Fetcher) recordRun(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFetch = time.Now()
	if err != nil {
		f.lastErr = err.Error()
	} else {
		f.lastErr = ""
	}
}
