package loyversesvc

import (
	"context"
	"errors"
	"testing"
	"time"

	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

const receiptBody = `{"id":"evt-1","type":"receipt.created","data":{
	"id":"r-1","receipt_number":"1-1001","store_id":"s-1","created_at":"2024-05-10T09:00:00Z",
	"closed_at":"2024-05-10T09:05:00Z","total_money":42.5,
	"payments":[{"type":"CASH","money_amount":42.5}],
	"line_items":[{"item_id":"i-1","item_name":"Coffee","quantity":2,"price":21.25,"total_money":42.5}]}}`

func newTestWebhookService(secret string) (*WebhookService, *memEvents, *memRepos) {
	events := newMemEvents()
	repos := newMemRepos()
	svc := NewWebhookService(WebhookConfig{Secret: secret}, events, repos.repositories())
	svc.now = func() time.Time { return fixedNow }
	return svc, events, repos
}

func TestHandleWebhookEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("✅ receipt is mirrored and the event processed", func(t *testing.T) {
		svc, events, repos := newTestWebhookService("")
		res, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Webhook processed successfully", res.Message)
		assert.Equal(t, "receipt", res.Details["entity"])

		ev := events.get("evt-1")
		assert.Equal(t, loyversemodels.EventProcessed, ev.Status)
		require.NotNil(t, ev.ProcessedAt)
		assert.Equal(t, "receipt.created", ev.EventType)

		receipt := repos.receipts.docs["r-1"]
		assert.Equal(t, "s-1", receipt.StoreID)
		assert.Equal(t, "42.5", receipt.Total.String())
		assert.Equal(t, "CASH", receipt.Payments[0].Method)
	})

	t.Run("🔁 second delivery is idempotent", func(t *testing.T) {
		svc, _, repos := newTestWebhookService("")
		_, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
		require.NoError(t, err)

		res, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
		require.NoError(t, err)
		assert.True(t, res.Idempotent)
		assert.Equal(t, "Webhook already processed", res.Message)
		assert.Equal(t, 1, repos.receipts.writes)
	})

	t.Run("🔐 bad signature touches nothing", func(t *testing.T) {
		svc, events, repos := newTestWebhookService("s3cret")
		for _, sig := range []string{"", "deadbeef", Sign("other", []byte(receiptBody))} {
			_, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), sig)
			assert.True(t, errors.Is(err, common.ErrInvalidSignature), sig)
		}
		assert.Zero(t, events.calls)
		assert.Zero(t, repos.receipts.writes)
	})

	t.Run("🔐 valid signature is accepted", func(t *testing.T) {
		svc, _, _ := newTestWebhookService("s3cret")
		_, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), Sign("s3cret", []byte(receiptBody)))
		require.NoError(t, err)
	})

	t.Run("🤷 unknown type is skipped", func(t *testing.T) {
		svc, events, _ := newTestWebhookService("")
		res, err := svc.HandleWebhookEvent(ctx, []byte(`{"id":"evt-9","type":"customer.deleted","data":{}}`), "")
		require.NoError(t, err)
		assert.Equal(t, false, res.Details["processed"])
		assert.Equal(t, "Unhandled event type", res.Details["reason"])
		assert.Equal(t, loyversemodels.EventSkipped, events.get("evt-9").Status)
	})

	t.Run("❌ missing id or type is rejected before persistence", func(t *testing.T) {
		svc, events, _ := newTestWebhookService("")
		_, err := svc.HandleWebhookEvent(ctx, []byte(`{"type":"receipt.created","data":{}}`), "")
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
		assert.Zero(t, events.calls)
	})

	t.Run("💥 failing transform marks the event failed", func(t *testing.T) {
		svc, events, _ := newTestWebhookService("")
		_, err := svc.HandleWebhookEvent(ctx, []byte(`{"id":"evt-2","type":"receipt.updated","data":{"id":"r-2"}}`), "")
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusInternalServerError, appErr.StatusCode)
		assert.Equal(t, "Failed to process webhook", appErr.Message)

		ev := events.get("evt-2")
		assert.Equal(t, loyversemodels.EventFailed, ev.Status)
		assert.Contains(t, ev.Error, "store_id")
		assert.NotEmpty(t, ev.ErrorStack)
		require.NotNil(t, ev.FailedAt)
	})

	t.Run("💥 failed event is retried on redelivery", func(t *testing.T) {
		svc, events, repos := newTestWebhookService("")
		repos.receipts.failOn["r-1"] = true
		_, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
		require.Error(t, err)
		assert.Equal(t, loyversemodels.EventFailed, events.get("evt-1").Status)

		delete(repos.receipts.failOn, "r-1")
		_, err = svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
		require.NoError(t, err)
		ev := events.get("evt-1")
		assert.Equal(t, loyversemodels.EventProcessed, ev.Status)
		assert.Empty(t, ev.Error)
	})
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	svc, events, repos := newTestWebhookService("")
	_, err := svc.HandleWebhookEvent(ctx, []byte(receiptBody), "")
	require.NoError(t, err)

	t.Run("🔁 processed event runs again", func(t *testing.T) {
		res, err := svc.Replay(ctx, "evt-1")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, repos.receipts.writes)
		assert.Equal(t, loyversemodels.EventProcessed, events.get("evt-1").Status)
	})

	t.Run("❓ unknown event", func(t *testing.T) {
		_, err := svc.Replay(ctx, "nope")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("📜 list by status", func(t *testing.T) {
		page, err := svc.ListEvents(ctx, bson.M{"status": loyversemodels.EventProcessed}, basemodels.PageQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
	})
}
