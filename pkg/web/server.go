// Package web exposes the sentry control plane as a REST API with a
// websocket status feed.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
	"github.com/e-yang6/stop-dont-go-on/pkg/controller"
	"github.com/e-yang6/stop-dont-go-on/pkg/hub"
)

// Server is the HTTP control-plane server.
type Server struct {
	app  *fiber.App
	port string
	ctrl *controller.Controller

	statusHub *hub.Hub
}

// NewServer creates the API server over the given controller.
// Mode transitions are pushed to websocket clients through the status hub.
func NewServer(port string, ctrl *controller.Controller) *Server {
	s := &Server{
		port:      port,
		ctrl:      ctrl,
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Sentry Control API",
		DisableStartupMessage: true,
	})

	// CORS for local dashboard development
	app.Use(cors.New())

	app.Get("/", s.handleHome)

	api := app.Group("/api")
	api.Get("/test", s.handleTest)
	api.Get("/status", s.handleStatus)
	api.Post("/start_tracking", s.handleStartTracking)
	api.Post("/stop_tracking", s.handleStopTracking)
	api.Post("/start_alert", s.handleStartAlert)
	api.Post("/stop_alert", s.handleStopAlert)
	api.Post("/spin_once", s.handleSpinOnce)
	api.Post("/settings", s.handleSettings)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	ctrl.OnModeChange = func(st controller.Status) {
		s.statusHub.BroadcastJSON(st)
	}

	s.app = app
	return s
}

// Start runs the status hub and listens for requests. Blocks.
func (s *Server) Start() error {
	log.Info("control API listening", "port", s.port)
	go s.statusHub.Run()
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleStatusWS pushes the current status and then live updates.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	conn.WriteJSON(s.ctrl.Status())

	client := hub.NewClient(s.statusHub, conn)
	client.Run()
}
