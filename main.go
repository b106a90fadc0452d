package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/the-event-map/event-map-api/cache"
	"github.com/the-event-map/event-map-api/config"
	"github.com/the-event-map/event-map-api/controllers"
	_ "github.com/the-event-map/event-map-api/docs"
	"github.com/the-event-map/event-map-api/geo"
	"github.com/the-event-map/event-map-api/middleware"
	"github.com/the-event-map/event-map-api/routes"
	"github.com/the-event-map/event-map-api/session"
	"github.com/the-event-map/event-map-api/store"
)

const geocodeInterval = time.Minute

func setupRoutes(app *fiber.App, ec *controllers.EventController, fc *controllers.FavoritesController,
	vc *controllers.ViewportController, sc *controllers.SessionController, stc *controllers.StatusController) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "You are at the root endpoint 😉",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	routes.EventsRoute(api.Group("/events"), ec)
	routes.FavoritesRoute(api.Group("/favorites"), fc)
	routes.ViewportRoute(api.Group("/viewport"), vc)
	routes.CacheRoute(api.Group("/cache"), vc)
	routes.SessionRoute(api.Group("/session"), sc)
	routes.StatusRoute(api.Group("/status"), stc)
	routes.SwaggerRoute(api.Group("/swagger"))
}

// @title Event Map API
// @version 1.0
// @description The API that keeps the event map's cache warm.
func main() {
	config.LoadEnv()
	config.ConnectDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoStore := store.NewMongo()
	eventCache := cache.NewEventCache()
	viewport := cache.NewViewportState()
	fetcher := cache.NewFetcher(mongoStore, eventCache, viewport)
	ctrl := cache.NewController(eventCache, fetcher, viewport, mongoStore, session.NewProvider())
	geocoder := geo.NewGeocoder()

	go ctrl.Run(ctx)

	changes, err := mongoStore.Watch(ctx)
	if err != nil {
		log.Warnf("change stream unavailable, realtime merges disabled: %v", err)
	} else {
		go ctrl.ConsumeNotifications(changes)
	}

	go func() {
		ticker := time.NewTicker(geocodeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				geocoder.Backfill(ctx, eventCache.Unpositioned(), eventCache, mongoStore)
			}
		}
	}()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(middleware.Auth())

	setupRoutes(app,
		&controllers.EventController{Cache: eventCache, Store: mongoStore},
		&controllers.FavoritesController{Ctrl: ctrl},
		&controllers.ViewportController{Ctrl: ctrl, Viewport: viewport},
		&controllers.SessionController{Ctrl: ctrl},
		&controllers.StatusController{Cache: eventCache, Fetcher: fetcher, Ctrl: ctrl},
	)

	port := os.Getenv("PORT")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Error app failed to start")
	}
}
