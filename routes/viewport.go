package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/controllers"
)

func ViewportRoute(route fiber.Router, vc *controllers.ViewportController) {
	route.Get("/", vc.GetViewport)
	route.Post("/idle", vc.ReportIdle)
	route.Post("/visible", vc.ReportVisible)
}

func CacheRoute(route fiber.Router, vc *controllers.ViewportController) {
	route.Post("/clear", vc.ClearCache)
}
