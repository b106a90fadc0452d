package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/the-event-map/event-map-api/models"
)

// ErrUnauthorized signals that a favorites operation needs a signed-in user.
// Callers turn it into a sign-in prompt, it is not an application error.
var ErrUnauthorized = errors.New("sign-in required")

// DefaultIdleDebounce is how long the controller lets viewport-idle reports
// settle before fetching, so a continuous pan gesture does not fire a fetch
// per intermediate idle.
const DefaultIdleDebounce = 200 * time.Millisecond

// TriggerKind enumerates everything that can make the controller act. The
// set is closed on purpose: every state transition is a function of exactly
// one of these.
type TriggerKind string

const (
	TriggerIdle           TriggerKind = "viewport_idle"
	TriggerRealtime       TriggerKind = "realtime_change"
	TriggerVisibility     TriggerKind = "visibility_regained"
	TriggerSignedIn       TriggerKind = "signed_in"
	TriggerTokenRefreshed TriggerKind = "token_refreshed"
	TriggerSignedOut      TriggerKind = "signed_out"
	TriggerCacheClear     TriggerKind = "cache_clear"
)

// Trigger is one input to the controller's reducer.
type Trigger struct {
	Kind     TriggerKind
	UserID   string          // signed_in / token_refreshed
	Bounds   *models.Bounds  // viewport_idle
	Viewport models.Viewport // viewport_idle
}

// FavoritesStore persists the per-user favorites set.
type FavoritesStore interface {
	Favorites(ctx context.Context, userID string) ([]string, error)
	ToggleFavorite(ctx context.Context, userID, eventID string) ([]string, error)
}

// SessionPinger revalidates the session against the identity provider. Used
// when the tab becomes visible again after the device slept.
type SessionPinger interface {
	Ping(ctx context.Context) error
}

// Controller owns the cache lifecycle. It consumes the closed trigger set
// (map idle, realtime change, visibility, auth transitions) and drives
// resets and re-fetches, so that all mutation of the cache funnels through
// one deterministic place instead of a pile of independent listeners.
type Controller struct {
	IdleDebounce time.Duration

	cache     *EventCache
	fetcher   *Fetcher
	viewport  *ViewportState
	favorites FavoritesStore
	session   SessionPinger

	mu     sync.RWMutex
	userID string
	favs   []string

	triggers chan Trigger
}

func NewController(cache *EventCache, fetcher *Fetcher, viewport *ViewportState, favorites FavoritesStore, session SessionPinger) *Controller {
	return &Controller{
		IdleDebounce: DefaultIdleDebounce,
		cache:        cache,
		fetcher:      fetcher,
		viewport:     viewport,
		favorites:    favorites,
		session:      session,
		triggers:     make(chan Trigger, 16),
	}
}

// Notify enqueues a trigger without blocking. When the queue is full the
// trigger is dropped; a dropped re-fetch trigger is harmless because the
// next idle covers it.
func (c *Controller) Notify(t Trigger) {
	select {
	case c.triggers <- t:
	default:
		log.Warnf("trigger queue full, dropping %s", t.Kind)
	}
}

// Run consumes triggers until the context ends. Idle triggers are debounced;
// everything else applies immediately.
func (c *Controller) Run(ctx context.Context) {
	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-c.triggers:
			if t.Kind == TriggerIdle {
				// record the viewport right away, debounce only the fetch
				if t.Bounds != nil {
					c.viewport.Update(*t.Bounds, t.Viewport)
				}
				if debounce == nil {
					debounce = time.NewTimer(c.IdleDebounce)
					debounceC = debounce.C
				} else {
					if !debounce.Stop() {
						<-debounceC
					}
					debounce.Reset(c.IdleDebounce)
				}
				continue
			}
			c.Apply(ctx, t)
		case <-debounceC:
			debounce = nil
			debounceC = nil
			c.Apply(ctx, Trigger{Kind: TriggerIdle})
		}
	}
}

// Apply executes one state transition synchronously.
func (c *Controller) Apply(ctx context.Context, t Trigger) {
	switch t.Kind {
	case TriggerIdle, TriggerRealtime:
		if t.Bounds != nil {
			c.viewport.Update(*t.Bounds, t.Viewport)
		}
		c.fetcher.FetchCurrent(ctx, string(t.Kind))

	case TriggerVisibility:
		// revalidate the session so a stale token gets refreshed, then catch
		// up on whatever changed while the tab was hidden
		if c.session != nil {
			if err := c.session.Ping(ctx); err != nil {
				log.Debugf("session ping failed: %v", err)
			}
		}
		c.fetcher.FetchCurrent(ctx, string(t.Kind))

	case TriggerSignedIn, TriggerTokenRefreshed:
		c.mu.Lock()
		c.userID = t.UserID
		c.mu.Unlock()
		if c.favorites != nil && t.UserID != "" {
			favs, err := c.favorites.Favorites(ctx, t.UserID)
			if err != nil {
				log.Errorf("loading favorites for %s: %v", t.UserID, err)
			} else {
				c.mu.Lock()
				c.favs = favs
				c.mu.Unlock()
			}
		}
		// the authenticated view may contain rows the anonymous one did not,
		// so everything already loaded is suspect
		c.cache.Reset()
		c.fetcher.FetchCurrent(ctx, string(t.Kind))

	case TriggerSignedOut:
		c.mu.Lock()
		c.userID = ""
		c.favs = nil
		c.mu.Unlock()
		c.cache.Reset()
		c.fetcher.FetchCurrent(ctx, string(t.Kind))

	case TriggerCacheClear:
		c.cache.Reset()
		c.fetcher.FetchCurrent(ctx, string(t.Kind))

	default:
		log.Warnf("unknown trigger %q ignored", t.Kind)
	}
}

// ConsumeNotifications forwards realtime change notifications into the
// trigger queue until the channel closes.
func (c *Controller) ConsumeNotifications(ch <-chan struct{}) {
	for range ch {
		c.Notify(Trigger{Kind: TriggerRealtime})
	}
}

// ToggleFavorite flips eventID in the user's favorites set and returns the
// set as the database persisted it. An empty userID yields ErrUnauthorized.
func (c *Controller) ToggleFavorite(ctx context.Context, userID, eventID string) ([]string, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	favs, err := c.favorites.ToggleFavorite(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.userID == userID {
		c.favs = favs
	}
	c.mu.Unlock()
	return favs, nil
}

// StoreFavorites reads the persisted favorites set of a user straight from
// the store, bypassing the controller's session copy.
func (c *Controller) StoreFavorites(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return c.favorites.Favorites(ctx, userID)
}

// Favorites returns the favorites of the controller's current session user.
func (c *Controller) Favorites() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.favs))
	copy(out, c.favs)
	return out
}

// UserID returns the current session user, empty for anonymous.
func (c *Controller) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}
