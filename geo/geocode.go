package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	gocache "github.com/patrickmn/go-cache"
	"github.com/the-event-map/event-map-api/metrics"
	"github.com/the-event-map/event-map-api/models"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

// Coordinates is a resolved lat/lng pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Geocoder resolves event addresses to coordinates via Nominatim. Lookups
// happen opportunistically for events that arrived without valid
// coordinates; a failed lookup leaves the event unpositioned and is cached
// negatively so we don't flood the external service with the same bad
// address over and over.
type Geocoder struct {
	client   *http.Client
	baseURL  string
	negCache *gocache.Cache
}

func NewGeocoder() *Geocoder {
	return &Geocoder{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  nominatimURL,
		negCache: gocache.New(10*time.Minute, 15*time.Minute),
	}
}

// Lookup resolves a free-form address. Returns nil without error when the
// address is empty or known (from the negative cache) to be unresolvable.
func (g *Geocoder) Lookup(ctx context.Context, address string) (*Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}
	key := strings.ToLower(address)
	if _, found := g.negCache.Get(key); found {
		return nil, nil
	}

	coords, err := g.fetchFromNominatim(ctx, address)
	if err != nil {
		g.negCache.Set(key, err, gocache.DefaultExpiration)
		metrics.GeocodeResults.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.GeocodeResults.WithLabelValues("ok").Inc()
	return coords, nil
}

func (g *Geocoder) fetchFromNominatim(ctx context.Context, address string) (*Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept-language", "en-US")
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var places []models.NominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("no coordinates found for %q", address)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, err
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, err
	}
	return &Coordinates{Lat: lat, Lng: lng}, nil
}

// CoordinateWriter persists resolved coordinates back to the database.
type CoordinateWriter interface {
	SetCoordinates(ctx context.Context, id string, lat, lng float64) error
}

// EventPatcher updates the in-memory cache entry.
type EventPatcher interface {
	SetCoordinates(id string, lat, lng float64) bool
}

// Backfill tries to geocode every unpositioned event and patches both the
// cache and the database on success. All failures are swallowed: an event
// that cannot be geocoded simply stays off the map.
func (g *Geocoder) Backfill(ctx context.Context, events []models.Event, patcher EventPatcher, writer CoordinateWriter) {
	for _, ev := range events {
		coords, err := g.Lookup(ctx, ev.Address)
		if err != nil {
			log.Debugf("geocoding %q for event %s failed: %v", ev.Address, ev.ID, err)
			continue
		}
		if coords == nil {
			continue
		}
		patcher.SetCoordinates(ev.ID, coords.Lat, coords.Lng)
		if writer != nil {
			if err := writer.SetCoordinates(ctx, ev.ID, coords.Lat, coords.Lng); err != nil {
				log.Warnf("persisting geocoded coordinates for event %s: %v", ev.ID, err)
			}
		}
	}
}
