package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/controllers"
)

func StatusRoute(route fiber.Router, sc *controllers.StatusController) {
	route.Get("/", sc.GetStatus)
}
