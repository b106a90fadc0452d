package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/cache"
)

// StatusController reports the state of the cache and fetcher.
type StatusController struct {
	Cache   *cache.EventCache
	Fetcher *cache.Fetcher
	Ctrl    *cache.Controller
}

// GetStatus func gets the cache status.
// @Description Returns the number of cached events, whether a fetch is in flight, and the outcome of the last fetch.
// @Summary Get cache status.
// @Tags status
// @Produce json
// @Router /api/status [get]
func (sc *StatusController) GetStatus(c *fiber.Ctx) error {
	lastFetch, lastErr := sc.Fetcher.LastRun()

	status := fiber.Map{
		"events":        sc.Cache.Len(),
		"fetching":      sc.Fetcher.InFlight(),
		"authenticated": sc.Ctrl.UserID() != "",
	}
	if !lastFetch.IsZero() {
		status["last_fetch"] = lastFetch
	}
	if lastErr != "" {
		status["last_fetch_error"] = lastErr
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    status,
		"success": true,
	})
}
