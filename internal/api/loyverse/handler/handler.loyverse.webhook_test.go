package loyversehdl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	loyversesvc "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/service"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// eventLog keeps events by id.
type eventLog map[string]loyversemodels.WebhookEvent

func (l eventLog) FindByEventID(_ context.Context, id string) (loyversemodels.WebhookEvent, error) {
	ev, ok := l[id]
	if !ok {
		return ev, common.ErrNotFound
	}
	return ev, nil
}

func (l eventLog) UpsertPending(_ context.Context, id, eventType string, payload []byte, _ posmodels.MetaData, now time.Time) error {
	ev := l[id]
	ev.EventID, ev.EventType, ev.Payload, ev.Status, ev.UpdatedAt = id, eventType, loyversemodels.RawJSON(payload), loyversemodels.EventPending, now
	l[id] = ev
	return nil
}

func (l eventLog) MarkOutcome(_ context.Context, id, status string, details map[string]interface{}, _ time.Time) error {
	ev := l[id]
	ev.Status, ev.ProcessingDetails = status, details
	l[id] = ev
	return nil
}

func (l eventLog) MarkFailed(_ context.Context, id, msg, _ string, _ time.Time) error {
	ev := l[id]
	ev.Status, ev.Error = loyversemodels.EventFailed, msg
	l[id] = ev
	return nil
}

func (l eventLog) List(_ context.Context, _ bson.M, page basemodels.PageQuery) (*basemodels.PaginateResult[loyversemodels.WebhookEvent], error) {
	items := []loyversemodels.WebhookEvent{}
	for _, ev := range l {
		items = append(items, ev)
	}
	return basemodels.NewPaginateResult(items, page.Page, page.Limit, int64(len(items))), nil
}

func newIngestApp(secret string, log eventLog) *fiber.App {
	svc := loyversesvc.NewWebhookService(loyversesvc.WebhookConfig{Secret: secret}, log, loyversesvc.Repositories{})
	h := NewWebhookHandler(svc, nil)
	app := fiber.New()
	app.Post("/webhook-events", h.HandleIngest)
	app.Get("/webhook-events/:eventId", h.HandleGetEvent)
	return app
}

func post(t *testing.T, app *fiber.App, body []byte, signature string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook-events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(loyversesvc.SignatureHeader, signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestHandleIngest(t *testing.T) {
	body := []byte(`{"id":"evt-1","type":"customer.created","data":{"customer":{"id":"c1"}}}`)

	t.Run("✍️ signed delivery of an unhandled type is skipped", func(t *testing.T) {
		log := eventLog{}
		app := newIngestApp("s3cret", log)

		status, out := post(t, app, body, loyversesvc.Sign("s3cret", body))
		assert.Equal(t, http.StatusOK, status)
		data := out["data"].(map[string]interface{})
		assert.Equal(t, true, data["success"])
		assert.Equal(t, loyversemodels.EventSkipped, log["evt-1"].Status)
	})

	t.Run("🚫 bad signature", func(t *testing.T) {
		log := eventLog{}
		app := newIngestApp("s3cret", log)

		status, out := post(t, app, body, "deadbeef")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, common.ErrCodeValidationSignature.Code, out["code"])
		assert.Empty(t, log)
	})

	t.Run("🔁 processed event is acknowledged", func(t *testing.T) {
		log := eventLog{"evt-1": {EventID: "evt-1", Status: loyversemodels.EventProcessed}}
		app := newIngestApp("", log)

		status, out := post(t, app, body, "")
		assert.Equal(t, http.StatusOK, status)
		data := out["data"].(map[string]interface{})
		assert.Equal(t, true, data["idempotent"])
	})

	t.Run("❓ missing id", func(t *testing.T) {
		app := newIngestApp("", eventLog{})
		status, _ := post(t, app, []byte(`{"type":"receipt.created"}`), "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestHandleGetEvent(t *testing.T) {
	app := newIngestApp("", eventLog{"evt-9": {EventID: "evt-9", Status: loyversemodels.EventFailed}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/webhook-events/evt-9", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/webhook-events/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
