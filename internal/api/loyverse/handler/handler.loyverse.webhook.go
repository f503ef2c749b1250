// Package loyversehdl exposes the Loyverse integration over HTTP.
package loyversehdl

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	loyversesvc "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/service"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"go.mongodb.org/mongo-driver/bson"
)

// WebhookHandler serves the ingest endpoint, the event log and upstream webhook management.
type WebhookHandler struct {
	Webhooks *loyversesvc.WebhookService
	Admin    *loyversesvc.WebhookAdminService
}

func NewWebhookHandler(webhooks *loyversesvc.WebhookService, admin *loyversesvc.WebhookAdminService) *WebhookHandler {
	return &WebhookHandler{Webhooks: webhooks, Admin: admin}
}

// HandleIngest receives a delivery. The signature is computed over the raw body.
func (h *WebhookHandler) HandleIngest(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		body := append([]byte(nil), c.Body()...)
		result, err := h.Webhooks.HandleWebhookEvent(logger.RequestContext(c), body, c.Get(loyversesvc.SignatureHeader))
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleListEvents pages the event log, filtered by status and event_type.
func (h *WebhookHandler) HandleListEvents(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		filter := bson.M{}
		if v := c.Query("status"); v != "" {
			filter["status"] = v
		}
		if v := c.Query("event_type"); v != "" {
			filter["event_type"] = v
		}
		if c.Query("start_date") != "" || c.Query("end_date") != "" {
			from, to, err := basehdl.ParseDateRange(c, 0)
			if err != nil {
				return basehdl.HandleResponse(c, nil, err)
			}
			filter["created_at"] = bson.M{"$gte": from, "$lte": to}
		}
		data, err := h.Webhooks.ListEvents(logger.RequestContext(c), filter, basehdl.ParsePageQuery(c))
		return basehdl.HandleResponse(c, data, err)
	})
}

func (h *WebhookHandler) HandleGetEvent(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		data, err := h.Webhooks.GetEvent(logger.RequestContext(c), c.Params("eventId"))
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleReplay reprocesses a stored event.
func (h *WebhookHandler) HandleReplay(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		eventID := c.Params("eventId")
		result, err := h.Webhooks.Replay(logger.RequestContext(c), eventID)
		logger.LogAction("webhook_replay", c, map[string]interface{}{"event_id": eventID, "ok": err == nil})
		return basehdl.HandleResponse(c, result, err)
	})
}

func (h *WebhookHandler) HandleListWebhooks(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		data, err := h.Admin.List(logger.RequestContext(c))
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleCreateWebhook registers the url for every requested event type.
func (h *WebhookHandler) HandleCreateWebhook(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input loyverse.CreateWebhookInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		created, err := h.Admin.Create(logger.RequestContext(c), input)
		logger.LogAction("webhook_create", c, map[string]interface{}{"url": input.URL, "types": input.EventTypes, "created": len(created)})
		var appErr *common.Error
		if len(created) > 0 && errors.As(err, &appErr) {
			err = common.NewError(appErr.Code, appErr.Message, appErr.StatusCode, map[string]any{
				"cause":   appErr.Details,
				"created": created,
			})
		}
		return basehdl.HandleResponse(c, created, err)
	})
}

func (h *WebhookHandler) HandleDeleteWebhook(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id := c.Params("id")
		err := h.Admin.Delete(logger.RequestContext(c), id)
		logger.LogAction("webhook_delete", c, map[string]interface{}{"webhook_id": id, "ok": err == nil})
		return basehdl.HandleResponse(c, fiber.Map{"deleted": err == nil, "id": id}, err)
	})
}
