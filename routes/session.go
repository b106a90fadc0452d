package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/the-event-map/event-map-api/controllers"
)

// SessionRoute wires the identity provider webhook. Basic auth keeps random
// clients from injecting auth transitions.
func SessionRoute(route fiber.Router, sc *controllers.SessionController) {
	auth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			os.Getenv("HOOK_USER"): os.Getenv("HOOK_PASSWORD"),
		},
	})
	route.Post("/event", auth, sc.AuthEvent)
}
