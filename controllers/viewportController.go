package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/cache"
	"github.com/the-event-map/event-map-api/models"
	validator "gopkg.in/go-playground/validator.v9"
)

// ViewportController receives map widget signals (idle, visibility) and
// serves the soft-reload state.
type ViewportController struct {
	Ctrl     *cache.Controller
	Viewport *cache.ViewportState
}

type idleReport struct {
	Bounds   models.Bounds   `json:"bounds" validate:"required"`
	Viewport models.Viewport `json:"viewport"`
}

// ReportIdle func ingests a viewport-idle signal.
// @Description The map widget calls this when panning/zooming settles. The reported bounds drive the next incremental event fetch; rapid successive reports are debounced.
// @Summary Report viewport idle.
// @Tags viewport
// @Accept json
// @Produce json
// @Param message body idleReport true "current bounds and viewport"
// @Failure 400 {object} string "Failed to parse body"
// @Router /api/viewport/idle [post]
func (vc *ViewportController) ReportIdle(c *fiber.Ctx) error {
	report := new(idleReport)
	if err := c.BodyParser(report); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   err.Error(),
		})
	}
	validate := validator.New()
	if err := validate.Struct(report); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   fmt.Sprint(err),
		})
	}

	vc.Ctrl.Notify(cache.Trigger{
		Kind:     cache.TriggerIdle,
		Bounds:   &report.Bounds,
		Viewport: report.Viewport,
	})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
	})
}

// ReportVisible func ingests a visibility-regained signal.
// @Description The client calls this when its tab becomes visible or its window regains focus, so the service revalidates the session and catches up on changes missed while hidden.
// @Summary Report visibility regained.
// @Tags viewport
// @Produce json
// @Router /api/viewport/visible [post]
func (vc *ViewportController) ReportVisible(c *fiber.Ctx) error {
	vc.Ctrl.Notify(cache.Trigger{Kind: cache.TriggerVisibility})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
	})
}

// GetViewport func returns the soft-reload state.
// @Description Returns the last reported center and zoom so a reloading client can restore its map position.
// @Summary Get saved viewport.
// @Tags viewport
// @Produce json
// @Router /api/viewport [get]
func (vc *ViewportController) GetViewport(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    vc.Viewport.Viewport(),
	})
}

// ClearCache func resets the event cache.
// @Description Drops all cached events and re-fetches the current viewport from scratch.
// @Summary Clear the event cache.
// @Tags viewport
// @Produce json
// @Router /api/cache/clear [post]
func (vc *ViewportController) ClearCache(c *fiber.Ctx) error {
	vc.Ctrl.Notify(cache.Trigger{Kind: cache.TriggerCacheClear})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "cache clear scheduled",
	})
}
