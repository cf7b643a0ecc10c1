package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var endpoints = []string{
	"/api/status",
	"/api/start_tracking",
	"/api/stop_tracking",
	"/api/start_alert",
	"/api/stop_alert",
	"/api/spin_once",
	"/api/settings",
}

// handleHome returns the service descriptor.
func (s *Server) handleHome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Face Centering API Server",
		"status":    "running",
		"endpoints": endpoints,
	})
}

// handleTest is a liveness check.
func (s *Server) handleTest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "API is working!",
		"timestamp": time.Now().Unix(),
	})
}

// handleStatus returns the current system status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Status())
}

// handleStartTracking starts the face tracking loop.
// success=false means the loop was already running.
func (s *Server) handleStartTracking(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": s.ctrl.StartTracking()})
}

// handleStopTracking stops the tracking loop. Alert state is untouched.
func (s *Server) handleStopTracking(c *fiber.Ctx) error {
	s.ctrl.StopTracking()
	return c.JSON(fiber.Map{"success": true})
}

// handleStartAlert enters alert mode.
func (s *Server) handleStartAlert(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": s.ctrl.StartAlert()})
}

// handleStopAlert exits alert mode and resumes tracking if it was active.
func (s *Server) handleStopAlert(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": s.ctrl.StopAlert()})
}

// handleSpinOnce triggers a single spin sequence, no state change.
func (s *Server) handleSpinOnce(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": s.ctrl.SpinOnce()})
}

type settingsRequest struct {
	SmoothingFactor *float64 `json:"smoothing_factor"`
}

// handleSettings updates tracking settings. Out-of-range values are a
// 400; a malformed body surfaces as a 500 with the parse error text.
func (s *Server) handleSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.SmoothingFactor != nil {
		if err := s.ctrl.SetSmoothingFactor(*req.SmoothingFactor); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"smoothing_factor": s.ctrl.Status().SmoothingFactor,
	})
}
