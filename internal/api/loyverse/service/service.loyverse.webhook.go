// Package loyversesvc ingests Loyverse webhooks and pulls data from the Loyverse API
// into the POS mirror.
package loyversesvc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	loyversedto "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/dto"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)).
const SignatureHeader = "x-loyverse-signature"

// WebhookConfig configures the ingest pipeline. An empty Secret disables signature checks.
type WebhookConfig struct {
	Secret string
}

// WebhookResult is returned to the caller of the ingest endpoint.
type WebhookResult struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Idempotent bool                   `json:"idempotent,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// WebhookService runs the ingest pipeline: verify, record, dispatch, record the outcome.
type WebhookService struct {
	cfg    WebhookConfig
	events EventStore
	repos  Repositories
	now    func() time.Time
	log    *logrus.Entry
}

// NewWebhookService wires the pipeline.
func NewWebhookService(cfg WebhookConfig, events EventStore, repos Repositories) *WebhookService {
	return &WebhookService{
		cfg:    cfg,
		events: events,
		repos:  repos,
		now:    time.Now,
		log:    logger.WithModule("loyverse.webhook"),
	}
}

// Sign computes the signature Loyverse sends for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time. The header may carry a "sha256=" prefix.
func (s *WebhookService) VerifySignature(body []byte, signature string) error {
	if s.cfg.Secret == "" {
		return nil
	}
	got := strings.ToLower(strings.TrimSpace(signature))
	got = strings.TrimPrefix(got, "sha256=")
	if got == "" {
		return common.ErrInvalidSignature
	}
	if !hmac.Equal([]byte(got), []byte(Sign(s.cfg.Secret, body))) {
		return common.ErrInvalidSignature
	}
	return nil
}

// HandleWebhookEvent ingests one delivery. An already processed event id is acknowledged
// without touching the mirror again.
func (s *WebhookService) HandleWebhookEvent(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error) {
	if err := s.VerifySignature(rawBody, signature); err != nil {
		s.log.Warn("🔔 [LOYVERSE WEBHOOK] Rejected delivery with an invalid signature")
		return nil, err
	}

	payload, err := loyversedto.ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"event_id": payload.ID, "event_type": payload.Type})

	existing, err := s.events.FindByEventID(ctx, payload.ID)
	switch {
	case err == nil && existing.Status == loyversemodels.EventProcessed:
		log.Info("🔔 [LOYVERSE WEBHOOK] Duplicate delivery of a processed event")
		return &WebhookResult{Success: true, Message: "Webhook already processed", Idempotent: true}, nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	now := s.now()
	meta := posmodels.NewMetaData(posmodels.SourceLoyverse, nil, now)
	if err := s.events.UpsertPending(ctx, payload.ID, payload.Type, rawBody, meta, now); err != nil {
		return nil, err
	}

	return s.process(ctx, payload, log)
}

// Replay runs a stored event through dispatch again, whatever its status.
func (s *WebhookService) Replay(ctx context.Context, eventID string) (*WebhookResult, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	payload, err := loyversedto.ParseWebhookPayload([]byte(event.Payload))
	if err != nil {
		return nil, err
	}

	now := s.now()
	meta := posmodels.NewMetaData(posmodels.SourceLoyverse, nil, now)
	if err := s.events.UpsertPending(ctx, event.EventID, event.EventType, []byte(event.Payload), meta, now); err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"event_id": payload.ID, "event_type": payload.Type, "replay": true})
	log.Info("🔔 [LOYVERSE WEBHOOK] Replaying stored event")
	return s.process(ctx, payload, log)
}

// GetEvent loads one event by its upstream id.
func (s *WebhookService) GetEvent(ctx context.Context, eventID string) (loyversemodels.WebhookEvent, error) {
	event, err := s.events.FindByEventID(ctx, eventID)
	if errors.Is(err, common.ErrNotFound) {
		return event, common.NotFound("webhook_event", eventID)
	}
	return event, err
}

// ListEvents pages through the event log.
func (s *WebhookService) ListEvents(ctx context.Context, filter bson.M, page basemodels.PageQuery) (*basemodels.PaginateResult[loyversemodels.WebhookEvent], error) {
	return s.events.List(ctx, filter, page)
}

func (s *WebhookService) process(ctx context.Context, payload loyversedto.WebhookPayload, log *logrus.Entry) (*WebhookResult, error) {
	details, err := s.dispatch(ctx, payload)
	now := s.now()
	if err != nil {
		stack := string(debug.Stack())
		log.WithError(err).Error("🔔 [LOYVERSE WEBHOOK] Processing failed")
		if markErr := s.events.MarkFailed(ctx, payload.ID, err.Error(), stack, now); markErr != nil {
			log.WithError(markErr).Error("🔔 [LOYVERSE WEBHOOK] Cannot record the failure")
		}
		return nil, common.NewError(common.ErrCodeInternalServer, "Failed to process webhook", common.StatusInternalServerError, err.Error())
	}

	status := loyversemodels.EventProcessed
	if processed, ok := details["processed"].(bool); ok && !processed {
		status = loyversemodels.EventSkipped
	}
	if err := s.events.MarkOutcome(ctx, payload.ID, status, details, now); err != nil {
		return nil, err
	}
	log.WithField("status", status).Info("🔔 [LOYVERSE WEBHOOK] Event handled")
	return &WebhookResult{Success: true, Message: "Webhook processed successfully", Details: details}, nil
}

// dispatch transforms the event data and replaces the mirrored document.
func (s *WebhookService) dispatch(ctx context.Context, payload loyversedto.WebhookPayload) (map[string]interface{}, error) {
	ev, err := payload.Decode()
	if err != nil {
		return nil, err
	}
	now := s.now()

	switch e := ev.(type) {
	case loyversedto.ReceiptEvent:
		doc, err := TransformReceipt(e.Receipt, OriginWebhook, now)
		if err != nil {
			return nil, err
		}
		return upsert(ctx, s.repos.Receipts, "receipt", doc.LoyverseID, doc)
	case loyversedto.ShiftEvent:
		doc, err := TransformShift(e.Shift, now)
		if err != nil {
			return nil, err
		}
		return upsert(ctx, s.repos.Shifts, "shift", doc.LoyverseID, doc)
	case loyversedto.InventoryEvent:
		doc, err := TransformInventory(e.Change, now)
		if err != nil {
			return nil, err
		}
		return upsert(ctx, s.repos.Inventory, "inventory_movement", doc.LoyverseID, doc)
	case loyversedto.ItemEvent:
		doc, err := TransformItem(e.Item, now)
		if err != nil {
			return nil, err
		}
		return upsert(ctx, s.repos.Items, "item", doc.LoyverseID, doc)
	case loyversedto.EmployeeEvent:
		doc, err := TransformEmployee(e.Employee, now)
		if err != nil {
			return nil, err
		}
		return upsert(ctx, s.repos.Employees, "employee", doc.LoyverseID, doc)
	}
	return map[string]interface{}{
		"processed":  false,
		"reason":     "Unhandled event type",
		"event_type": ev.EventType(),
	}, nil
}

func upsert[M any](ctx context.Context, sink Sink[M], entity, loyverseID string, doc M) (map[string]interface{}, error) {
	if err := sink.ReplaceByLoyverseID(ctx, loyverseID, doc); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"processed":   true,
		"entity":      entity,
		"loyverse_id": loyverseID,
	}, nil
}
