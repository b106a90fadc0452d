package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/controllers"
)

func EventsRoute(route fiber.Router, ec *controllers.EventController) {
	route.Get("/", ec.GetEvents)
	route.Post("/", ec.AddEvent)
	route.Get("/:id", ec.GetEvent)
}
