// Package api is the thin HTTP surface over configurator sessions, for quote and checkout
// collaborators that need the authoritative price and captured images.
package api

import (
	"time"

	"vehicle-configurator/internal/configurator"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds server settings.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog enables the request log middleware.
	AccessLog bool
}

// Server routes requests to the session manager.
type Server struct {
	sessions *configurator.Manager
	log      *zap.Logger
}

// New builds the fiber app.
func New(m *configurator.Manager, log *zap.Logger, cfg Config) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{sessions: m, log: log.Named("api")}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      "Vehicle Configurator",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE"},
	}))
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready", "sessions": m.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ============================================================
	// Configurator Routes
	// ============================================================

	v1 := app.Group("/api/v1")
	v1.Get("/catalog", s.Catalog)
	v1.Post("/quote", s.QuoteSelection)

	sessions := v1.Group("/sessions")
	sessions.Post("/", s.CreateSession)
	sessions.Get("/:id", s.GetSession)
	sessions.Patch("/:id", s.UpdateSession)
	sessions.Post("/:id/reset", s.ResetSession)
	sessions.Get("/:id/capture.png", s.CaptureSession)
	sessions.Delete("/:id", s.DeleteSession)

	return app
}
