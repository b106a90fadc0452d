package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/cache"
	"github.com/the-event-map/event-map-api/middleware"
)

// FavoritesController serves the per-user favorites set. All endpoints
// require a signed-in user; anonymous calls get a 401 which the client
// interprets as "prompt to sign in".
type FavoritesController struct {
	Ctrl *cache.Controller
}

type toggleRequest struct {
	EventID string `json:"event_id"`
}

// ToggleFavorite func flips one event in the user's favorites.
// @Description Adds the event to the user's favorites if absent, removes it if present. Returns the persisted set, so concurrent toggles from another tab are reflected.
// @Summary Toggle a favorite.
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body toggleRequest true "event id"
// @Failure 400 {object} string "Failed to parse body"
// @Failure 401 {object} string "Not authorized"
// @Router /api/favorites/toggle [post]
func (fc *FavoritesController) ToggleFavorite(c *fiber.Ctx) error {
	req := new(toggleRequest)
	if err := c.BodyParser(req); err != nil || req.EventID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   "event_id is required",
		})
	}

	favorites, err := fc.Ctrl.ToggleFavorite(c.Context(), middleware.UserID(c), req.EventID)
	if err != nil {
		if errors.Is(err, cache.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update favorites",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"favorites": favorites,
	})
}

// GetFavorites func returns the user's favorites set.
// @Description Returns the favorites of the signed-in user.
// @Summary Get favorites.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Failure 401 {object} string "Not authorized"
// @Router /api/favorites [get]
func (fc *FavoritesController) GetFavorites(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized",
			"error":   cache.ErrUnauthorized.Error(),
		})
	}

	// read through the store so the answer is authoritative even if this
	// user signed in from another client
	favorites, err := fc.Ctrl.StoreFavorites(c.Context(), uid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch favorites",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"favorites": favorites,
	})
}
