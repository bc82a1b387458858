package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tlemoine/gridfeed/internal/rte"
	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// NewApp assembles the Fiber application: middleware, a health probe and the
// versioned API routes.
func NewApp(services Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "gridfeed",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Handlers fan out to upstream APIs; responses need room to finish.
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "gridfeed",
		})
	})

	RegisterRoutes(app, services)

	return app
}

// errorHandler is the centralized error response. Every failure leaves as
// {"error": true, "message": ...} with the status derived from the cause.
func errorHandler(c *fiber.Ctx, err error) error {
	code := statusFromError(err)
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// statusFromError maps domain failures onto HTTP statuses: caller mistakes
// become 400, upstream refusals 502 and network failures 504.
func statusFromError(err error) int {
	var invariant *timeseries.InvariantError
	var grid *timeseries.GridConstructionError
	var auth *rte.AuthError
	var upstream *rte.UpstreamStatusError
	var transport *rte.TransportError

	switch {
	case errors.As(err, &invariant), errors.As(err, &grid):
		return fiber.StatusBadRequest
	case errors.As(err, &auth), errors.As(err, &upstream):
		return fiber.StatusBadGateway
	case errors.As(err, &transport):
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}
