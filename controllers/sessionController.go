package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/cache"
)

// SessionController ingests auth state transitions from the identity
// provider (sign-in, token refresh, sign-out webhooks).
type SessionController struct {
	Ctrl *cache.Controller
}

type authEvent struct {
	Event  string `json:"event"`
	UserID string `json:"user_id"`
}

var authTriggers = map[string]cache.TriggerKind{
	"signed_in":       cache.TriggerSignedIn,
	"token_refreshed": cache.TriggerTokenRefreshed,
	"signed_out":      cache.TriggerSignedOut,
}

// AuthEvent func ingests an identity provider event.
// @Description Notifies the service of a session transition. Sign-in and sign-out reset the event cache, since the database may expose different rows to authenticated users.
// @Summary Ingest an auth event.
// @Tags session
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param message body authEvent true "auth event"
// @Failure 400 {object} string "Unknown event"
// @Router /api/session/event [post]
func (sc *SessionController) AuthEvent(c *fiber.Ctx) error {
	ev := new(authEvent)
	if err := c.BodyParser(ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   err.Error(),
		})
	}

	kind, ok := authTriggers[ev.Event]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "unknown auth event",
			"error":   ev.Event,
		})
	}
	if (kind == cache.TriggerSignedIn || kind == cache.TriggerTokenRefreshed) && ev.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "user_id is required for " + ev.Event,
			"error":   "missing user_id",
		})
	}

	sc.Ctrl.Notify(cache.Trigger{Kind: kind, UserID: ev.UserID})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
	})
}
