package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/repository"
	"contentapi/internal/service"
)

const healthTimeout = 2 * time.Second

// RegisterRoutes attaches HTTP routes to the provided Fiber app. store may
// be nil, in which case /health only reports the process as up.
func RegisterRoutes(app *fiber.App, store repository.Pinger, svc service.ContentRepository, logger *slog.Logger) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	contents := app.Group("/contents")
	contents.Get("/", ListContents(svc))
	contents.Post("/", CreateContent(svc, logger))
	contents.Get("/:id", GetContent(svc))
	contents.Patch("/:id", UpdateContent(svc, logger))
	contents.Delete("/:id", DeleteContent(svc, logger))
}

// HealthCheck godoc
// @Summary      Readiness check
// @Description  Pings the content store backend.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(store repository.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary  Liveness probe
// @Tags     health
// @Success  200
// @Router   /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
