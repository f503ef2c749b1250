package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/database"
	"github.com/oacc1974/Golmarcadmion/internal/global"
)

// SystemHandler serves the unauthenticated health check.
type SystemHandler struct {
	startedAt time.Time
	version   string
}

// NewSystemHandler records the start time reported by the health check.
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{startedAt: time.Now().UTC(), version: version}
}

// HandleHealth pings MongoDB and answers 200 or 503.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	health := fiber.Map{
		"status":    "healthy",
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	}

	if global.MongoDB_Session == nil {
		services["database"] = "not connected"
		health["status"] = "degraded"
	} else if err := database.Ping(ctx, global.MongoDB_Session); err != nil {
		services["database"] = "error"
		health["status"] = "degraded"
		health["database_error"] = err.Error()
	} else {
		services["database"] = "ok"
	}

	if health["status"] != "healthy" {
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Service is degraded",
			"data":    health,
			"status":  "error",
		})
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    health,
		"status":  "success",
	})
}
