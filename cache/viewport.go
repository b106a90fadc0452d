package cache

import (
	"context"
	"sync"
	"time"

	"github.com/the-event-map/event-map-api/models"
)

// DefaultBoundsTimeout bounds how long AwaitBounds blocks. The map widget
// initializes asynchronously on the client and reports its first bounds a
// moment after the first render pass.
const DefaultBoundsTimeout = 10 * time.Second

// ViewportState tracks what the map widget last reported: the visible
// bounds rectangle plus center/zoom for soft-reload restore. AwaitBounds is
// the synchronization point every fetch goes through; it resolves once the
// first bounds report arrives instead of polling on an interval.
type ViewportState struct {
	Timeout time.Duration

	mu        sync.RWMutex
	bounds    *models.Bounds
	viewport  models.Viewport
	readyOnce sync.Once
	ready     chan struct{}
}

func NewViewportState() *ViewportState {
	return &ViewportState{
		Timeout: DefaultBoundsTimeout,
		ready:   make(chan struct{}),
	}
}

// Update records a bounds report from the map widget and resolves the
// readiness signal on the first one.
func (v *ViewportState) Update(b models.Bounds, vp models.Viewport) {
	v.mu.Lock()
	bCopy := b
	v.bounds = &bCopy
	v.viewport = vp
	v.mu.Unlock()
	v.readyOnce.Do(func() { close(v.ready) })
}

// Bounds returns the last reported bounds, or nil before the first report.
func (v *ViewportState) Bounds() *models.Bounds {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.bounds == nil {
		return nil
	}
	b := *v.bounds
	return &b
}

// Viewport returns the soft-reload state (center and zoom).
func (v *ViewportState) Viewport() models.Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.viewport
}

// AwaitBounds blocks until the map has reported bounds at least once and
// returns them. It gives up after the configured timeout and returns nil;
// callers must treat that as "skip this fetch attempt", not as an error.
func (v *ViewportState) AwaitBounds(ctx context.Context) *models.Bounds {
	select {
	case <-v.ready:
		return v.Bounds()
	case <-time.After(v.Timeout):
		return nil
	case <-ctx.Done():
		return nil
	}
}
