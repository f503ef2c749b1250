package basehdl

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	app := fiber.New()
	app.Get("/range", func(c fiber.Ctx) error {
		from, to, err := ParseDateRange(c, 0)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return c.SendString(from.Format(time.RFC3339Nano) + "|" + to.Format(time.RFC3339Nano) + "|" + StoreIDQuery(c))
	})
	get := func(query string) (int, string) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/range?"+query, nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	t.Run("🐍 snake case", func(t *testing.T) {
		status, body := get("start_date=2024-03-01&end_date=2024-03-02&store_id=st-1")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "2024-03-01T00:00:00Z|2024-03-02T23:59:59.999Z|st-1", body)
	})

	t.Run("🐫 camel case from older clients", func(t *testing.T) {
		status, body := get("startDate=2024-03-01&endDate=2024-03-02&storeId=st-2")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "2024-03-01T00:00:00Z|2024-03-02T23:59:59.999Z|st-2", body)
	})

	t.Run("❌ range is required", func(t *testing.T) {
		status, _ := get("")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}
