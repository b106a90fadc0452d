package cache

import (
	"sync"

	"github.com/the-event-map/event-map-api/metrics"
	"github.com/the-event-map/event-map-api/models"
)

// EventCache holds every event seen since the last reset, in arrival order,
// next to the set of loaded ids the fetcher dedupes against. It is
// append-only between resets. Only the fetcher and the controller's reset
// write to it, everything else reads.
type EventCache struct {
	mu        sync.RWMutex
	events    []models.Event
	loadedIDs map[string]struct{}
}

func NewEventCache() *EventCache {
	return &EventCache{
		loadedIDs: make(map[string]struct{}),
	}
}

// Reset drops the collection and the id set. Used on sign-in/sign-out
// transitions (the database may expose a different row set to an
// authenticated user) and on an explicit cache clear.
func (c *EventCache) Reset() {
	c.mu.Lock()
	c.events = nil
	c.loadedIDs = make(map[string]struct{})
	c.mu.Unlock()
	metrics.CacheResets.Inc()
	metrics.CachedEvents.Set(0)
}

// Append merges a batch of newly fetched events in one step, so readers
// never observe events without their ids or vice versa. The fetcher
// guarantees the batch contains no id that is already loaded.
func (c *EventCache) Append(newEvents []models.Event) {
	c.mu.Lock()
	for _, ev := range newEvents {
		c.events = append(c.events, ev)
		c.loadedIDs[ev.ID] = struct{}{}
	}
	size := len(c.events)
	c.mu.Unlock()
	metrics.CachedEvents.Set(float64(size))
}

// MergeOne adds a single event unless its id is already loaded. Used by the
// point lookup when a shared link references an event outside the viewport.
// Reports whether the event was added.
func (c *EventCache) MergeOne(ev models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.loadedIDs[ev.ID]; ok {
		return false
	}
	c.events = append(c.events, ev)
	c.loadedIDs[ev.ID] = struct{}{}
	metrics.CachedEvents.Set(float64(len(c.events)))
	return true
}

func (c *EventCache) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loadedIDs[id]
	return ok
}

func (c *EventCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Snapshot returns a copy of the cached events in insertion order.
func (c *EventCache) Snapshot() []models.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Get returns the cached event with the given id, if present.
func (c *EventCache) Get(id string) (models.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.loadedIDs[id]; !ok {
		return models.Event{}, false
	}
	for _, ev := range c.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return models.Event{}, false
}

// SetCoordinates updates the coordinates of a cached event in place after a
// successful geocode. Reports whether the event was found.
func (c *EventCache) SetCoordinates(id string, lat, lng float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.events {
		if c.events[i].ID == id {
			c.events[i].Lat = &lat
			c.events[i].Lng = &lng
			return true
		}
	}
	return false
}

// Unpositioned returns the cached events that still lack coordinates and
// have an address the geocoder could try.
func (c *EventCache) Unpositioned() []models.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Event
	for _, ev := range c.events {
		if !ev.Positioned() && ev.Address != "" {
			out = append(out, ev)
		}
	}
	return out
}
