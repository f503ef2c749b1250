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

// rolesGate answers with the roles a route is gated on instead of running it.
func rolesGate(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(roles) == 0 {
			return c.SendString("*")
		}
		return c.SendString(strings.Join(roles, ","))
	}
}

func TestRegisterGates(t *testing.T) {
	app := fiber.New()
	require.NoError(t, apirouter.SetupRoutes(app, rolesGate, Register(&Services{})))

	gate := func(method, path string) (int, string) {
		resp, err := app.Test(httptest.NewRequest(method, "/api/v1"+path, nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	cases := []struct {
		name, method, path, roles string
	}{
		{"🧾 receipts are read by anyone", fiber.MethodGet, "/receipts", "*"},
		{"🧾 receipt create is admin only", fiber.MethodPost, "/receipts", "admin"},
		{"🧾 receipt patch is admin only", fiber.MethodPatch, "/receipts/r1", "admin"},
		{"🧾 receipt delete is admin only", fiber.MethodDelete, "/receipts/r1", "admin"},
		{"📊 totals by date under its older path", fiber.MethodGet, "/receipts/reports/totals-by-date", "*"},
		{"📊 totals by payment under its older path", fiber.MethodGet, "/receipts/reports/totals-by-payment", "*"},
		{"🕐 shift create for managers", fiber.MethodPost, "/shifts", "admin,gerente"},
		{"🕐 shift patch for managers", fiber.MethodPatch, "/shifts/s1", "admin,gerente"},
		{"🕐 shift delete is admin only", fiber.MethodDelete, "/shifts/s1", "admin"},
		{"🧮 recalculation for managers", fiber.MethodPost, "/shifts/s1/recalculate", "admin,gerente"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, roles := gate(tc.method, tc.path)
			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, tc.roles, roles)
		})
	}
}
