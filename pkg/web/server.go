// Package web exposes the podcast pipeline over HTTP.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"podforge/pkg/podcast"
)

// Server is the podforge HTTP server.
type Server struct {
	app     *fiber.App
	port    string
	orch    *podcast.Orchestrator
	gateway *podcast.Gateway
	auth    Authorizer
	logger  *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(port string, orch *podcast.Orchestrator, gateway *podcast.Gateway, auth Authorizer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:    port,
		orch:    orch,
		gateway: gateway,
		auth:    auth,
		logger:  logger.With("component", "web.server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "podforge",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/podcast")
	api.Post("/generate", s.requireAuth(s.handleGenerate))
	api.Get("/status/:job_id", s.handleStatus)
	api.Get("/jobs", s.requireAuth(s.handleListJobs))
	api.Post("/cancel/:job_id", s.requireAuth(s.handleCancel))
	api.Get("/audio/:job_id/:index", s.requireAuth(s.handleAudio))

	s.app = app
	return s
}

// Start starts the server. Blocks until shutdown.
func (s *Server) Start() error {
	s.logger.Info("server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// requireAuth wraps a handler with bearer credential verification.
// The resolved principal is stored in the request locals.
func (s *Server) requireAuth(next func(*fiber.Ctx, string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer credential",
			})
		}

		principal, err := s.auth.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credential",
			})
		}

		return next(c, principal)
	}
}
