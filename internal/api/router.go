package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/vigia/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/vigia/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/vigia/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/vigia/internal/monitor"
	"github.com/saturnino-fabrica-de-software/vigia/internal/ws"
)

type Dependencies struct {
	Manager *monitor.Manager
	Hub     *ws.Hub
	APIKey  string

	// DB is nil when the archive layer is disabled
	DB *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Vigia API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required). Readiness pings the
	// archive database when one is configured.
	var pinger handler.DBPinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group with authentication
	v1 := r.app.Group("/v1")

	// Only configure authenticated routes if dependencies were provided
	if r.deps != nil {
		v1.Use(middleware.Auth(r.deps.APIKey))

		if r.deps.Hub != nil {
			go r.deps.Hub.Run()
		}

		sessionHandler := handler.NewSessionHandler(r.deps.Manager, r.logger)

		// Session routes
		v1.Post("/sessions", sessionHandler.Create)
		v1.Delete("/sessions/:id", sessionHandler.Stop)
		v1.Post("/sessions/:id/reference", sessionHandler.CaptureReference)
		v1.Post("/sessions/:id/frames", sessionHandler.IngestFrame)
		v1.Post("/sessions/:id/audio", sessionHandler.IngestAudio)
		v1.Get("/sessions/:id/status", sessionHandler.Status)
		v1.Get("/sessions/:id/events", sessionHandler.Events)

		// WebSocket endpoint
		if r.deps.Hub != nil {
			v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop live sessions so their records get archived
	if r.deps != nil && r.deps.Manager != nil {
		r.deps.Manager.StopAll(context.Background())
	}

	return r.app.Shutdown()
}
