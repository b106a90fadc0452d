package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/controllers"
)

func FavoritesRoute(route fiber.Router, fc *controllers.FavoritesController) {
	route.Get("/", fc.GetFavorites)
	route.Post("/toggle", fc.ToggleFavorite)
}
