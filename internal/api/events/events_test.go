package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	LoyverseID string
	Name       string
}

func TestEmitDataChanged(t *testing.T) {
	Reset()
	defer Reset()

	var got []string
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { got = append(got, "first:"+e.Operation) })
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { panic("boom") })
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { got = append(got, "third:"+e.Operation) })

	t.Run("➡️ handlers run inline and in order", func(t *testing.T) {
		EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "pos_receipts", Operation: OpInsert})
		EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "pos_receipts", Operation: OpReplace})
		assert.Equal(t, []string{"first:insert", "third:insert", "first:replace", "third:replace"}, got)
	})
}

func TestGetStringField(t *testing.T) {
	assert.Equal(t, "r1", GetStringField(doc{LoyverseID: "r1"}, "LoyverseID"))
	assert.Equal(t, "r2", GetStringField(&doc{LoyverseID: "r2"}, "LoyverseID"))
	assert.Equal(t, "", GetStringField(map[string]string{"LoyverseID": "x"}, "LoyverseID"))
	assert.Equal(t, "", GetStringField(nil, "LoyverseID"))
}

type fakeChannel struct {
	mu    sync.Mutex
	gate  chan struct{} // when set, each publish waits for a token
	keys  []string
	last  amqp.Publishing
	exchg string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchg, f.last = exchange, msg
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func (f *fakeChannel) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func TestAMQPPublisher(t *testing.T) {
	t.Run("📨 message body and routing key", func(t *testing.T) {
		ch := &fakeChannel{}
		p := &AMQPPublisher{ch: ch, exchange: "loyverse.data"}

		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		msg := NewChangeMessage(DataChangeEvent{CollectionName: "pos_shifts", Operation: OpUpdate, Document: &doc{LoyverseID: "sh1"}}, now)
		require.NoError(t, p.Publish(context.Background(), msg))

		assert.Equal(t, "loyverse.data", ch.exchg)
		assert.Equal(t, []string{"pos_shifts.update"}, ch.keys)
		assert.Equal(t, "application/json", ch.last.ContentType)

		var body ChangeMessage
		require.NoError(t, json.Unmarshal(ch.last.Body, &body))
		assert.Equal(t, "sh1", body.LoyverseID)
		assert.Equal(t, now, body.OccurredAt)
	})

	t.Run("🔢 queued changes are published in order", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newPublisher(ch, "loyverse.data", 16)
		for _, op := range []string{OpInsert, OpReplace, OpUpdate, OpDelete} {
			p.Handle(context.Background(), DataChangeEvent{CollectionName: "pos_receipts", Operation: op, Document: &doc{LoyverseID: "r1"}})
		}
		require.NoError(t, p.Close())
		assert.Equal(t, []string{"pos_receipts.insert", "pos_receipts.replace", "pos_receipts.update", "pos_receipts.delete"}, ch.published())
	})

	t.Run("🚧 a stalled broker drops instead of blocking", func(t *testing.T) {
		ch := &fakeChannel{gate: make(chan struct{})}
		p := newPublisher(ch, "loyverse.data", 2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			// the worker holds one message, the queue two; the rest are dropped
			for i := 0; i < 50; i++ {
				p.Handle(context.Background(), DataChangeEvent{CollectionName: "pos_receipts", Operation: OpReplace})
			}
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Handle blocked on a stalled broker")
		}

		close(ch.gate)
		require.NoError(t, p.Close())
		n := len(ch.published())
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 3)
	})

	t.Run("🔒 handle after close is ignored", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newPublisher(ch, "loyverse.data", 1)
		require.NoError(t, p.Close())
		p.Handle(context.Background(), DataChangeEvent{CollectionName: "pos_items", Operation: OpInsert})
		assert.Empty(t, ch.published())
		assert.NoError(t, p.Close())
	})
}
