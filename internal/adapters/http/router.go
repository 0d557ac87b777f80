package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/waypath/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = 120
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness run without a timeout.
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	reqTimeout := deps.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = 15 * time.Second
	}
	t := func(h fiber.Handler) fiber.Handler { return timeout.NewWithContext(h, reqTimeout) }

	v1 := app.Group("/v1")
	v1.Post("/trips", t(CreateTripHandler(deps)))
	v1.Get("/trips", t(ListTripsHandler(deps)))
	v1.Get("/trips/:id", t(GetTripHandler(deps)))
	v1.Get("/trips/:id/versions/:version", t(GetVersionHandler(deps)))
	v1.Post("/trips/:id/edits", t(ApplyEditHandler(deps)))
	v1.Post("/trips/:id/evaluations", t(EvaluateTripHandler(deps)))
	v1.Get("/trips/:id/evaluations", t(ListEvaluationsHandler(deps)))
	v1.Get("/trips/:id/calendar.ics", t(CalendarHandler(deps)))
	v1.Get("/trips/:id/days/:day/route.geojson", t(DayRouteHandler(deps)))

	// Stateless engine checks over client-supplied itineraries.
	v1.Post("/feasibility", t(FeasibilityHandler(deps)))
	v1.Post("/diff", t(DiffHandler(deps)))

	v1.Get("/pois/nearby", t(NearbyPOIsHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	specPath := deps.OpenAPIPath
	if specPath == "" {
		specPath = "api/openapi.yaml"
	}
	SetupDocs(app, specPath)

	if deps.NATS != nil {
		app.Use("/v1/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/v1/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
