package cache

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/the-event-map/event-map-api/models"
)

func coord(v float64) *float64 {
	return &v
}

func TestCacheAppendAndReset(t *testing.T) {
	c := NewEventCache()
	c.Append([]models.Event{{ID: "a"}, {ID: "b"}})

	if c.Len() != 2 || !c.Contains("a") || !c.Contains("b") {
		t.Fatalf("append failed, len %d", c.Len())
	}

	c.Reset()
	if c.Len() != 0 || c.Contains("a") {
		t.Error("reset must drop both the events and the id set")
	}

	// ids dropped by the reset are loadable again
	if !c.MergeOne(models.Event{ID: "a"}) {
		t.Error("expected a previously reset id to merge again")
	}
}

func TestCacheMergeOne(t *testing.T) {
	c := NewEventCache()
	if !c.MergeOne(models.Event{ID: "a", Title: "first"}) {
		t.Fatal("first merge must succeed")
	}
	if c.MergeOne(models.Event{ID: "a", Title: "second"}) {
		t.Error("duplicate merge must be a no-op")
	}

	ev, ok := c.Get("a")
	if !ok || ev.Title != "first" {
		t.Errorf("expected the original event to survive, got %+v", ev)
	}
}

func TestCacheSnapshotIsACopy(t *testing.T) {
	c := NewEventCache()
	c.Append([]models.Event{{ID: "a"}, {ID: "b"}})

	snap := c.Snapshot()
	snap[0].ID = "mutated"

	if _, ok := c.Get("a"); !ok {
		t.Error("mutating a snapshot must not affect the cache")
	}
	if diff := deep.Equal([]models.Event{{ID: "a"}, {ID: "b"}}, c.Snapshot()); diff != nil {
		t.Errorf("cache content diff: %v", diff)
	}
}

func TestCacheSetCoordinates(t *testing.T) {
	c := NewEventCache()
	c.Append([]models.Event{
		{ID: "a", Address: "somewhere"},
		{ID: "b", Lat: coord(47), Lng: coord(8)},
		{ID: "c"}, // no address, geocoder cannot help
	})

	unpositioned := c.Unpositioned()
	if len(unpositioned) != 1 || unpositioned[0].ID != "a" {
		t.Fatalf("expected only event a to be geocodable, got %v", unpositioned)
	}

	if !c.SetCoordinates("a", 46.9, 7.4) {
		t.Fatal("SetCoordinates must find the cached event")
	}
	ev, _ := c.Get("a")
	if !ev.Positioned() || *ev.Lat != 46.9 || *ev.Lng != 7.4 {
		t.Errorf("coordinates not patched: %+v", ev)
	}
	if len(c.Unpositioned()) != 0 {
		t.Error("a patched event must leave the unpositioned set")
	}

	if c.SetCoordinates("missing", 1, 2) {
		t.Error("SetCoordinates on an unknown id must report false")
	}
}
