package router

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolesGate(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.SendString(strings.Join(roles, ","))
	}
}

func TestReportPaths(t *testing.T) {
	app := fiber.New()
	require.NoError(t, apirouter.SetupRoutes(app, rolesGate, Register(nil)))

	for _, path := range []string{
		"/reports/sales-summary",
		"/reports/shift-summary",
		"/reports/dashboard",
		"/reports/sales-export",
		"/reports/sales",
		"/reports/shifts",
		"/shifts/reports/summary",
	} {
		t.Run("📊 "+path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1"+path, nil))
			require.NoError(t, err)
			raw, _ := io.ReadAll(resp.Body)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, "admin,gerente,auditor", string(raw))
		})
	}
}
