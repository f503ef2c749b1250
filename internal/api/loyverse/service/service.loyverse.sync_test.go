package loyversesvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncClient(t *testing.T, h http.HandlerFunc) *loyverse.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return loyverse.New(loyverse.Config{BaseURL: srv.URL, Token: "tok"})
}

// pagedStores serves three pages of stores, the second one repeating s-2.
func pagedStores(calls *int32) http.HandlerFunc {
	pages := map[string]string{
		"":   `{"stores":[{"id":"s-1","name":"Centro"},{"id":"s-2","name":"Norte"}],"cursor":"c2"}`,
		"c2": `{"stores":[{"id":"s-2","name":"Norte"},{"id":"s-3","name":"Sur"}],"cursor":"c3"}`,
		"c3": `{"stores":[{"id":"s-4","name":"Este"}],"cursor":null}`,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		body, ok := pages[r.URL.Query().Get("cursor")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(body))
	}
}

func TestRunSync(t *testing.T) {
	ctx := context.Background()

	t.Run("📄 three pages, three requests, union upserted once", func(t *testing.T) {
		var calls int32
		repos := newMemRepos()
		svc := NewSyncService(newSyncClient(t, pagedStores(&calls)), repos.repositories(), nil, SyncConfig{})

		res, err := svc.SyncStores(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
		assert.Equal(t, 5, res.Fetched)
		assert.Equal(t, 5, res.Synced)
		assert.Equal(t, []string{"s-1", "s-2", "s-3", "s-4"}, repos.stores.keys())
		assert.Equal(t, "Synced 5 stores", res.Message)
	})

	t.Run("🧱 a bad record does not stop the batch", func(t *testing.T) {
		repos := newMemRepos()
		repos.items.failOn["i-3"] = true
		client := newSyncClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[{"id":"i-1","item_name":"A"},{"item_name":"no id"},{"id":"i-3"},{"id":"i-4","variants":[{"default_price":3.5}]}]}`))
		})
		svc := NewSyncService(client, repos.repositories(), nil, SyncConfig{})

		res, err := svc.SyncItems(ctx)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 4, res.Fetched)
		assert.Equal(t, 2, res.Synced)
		assert.Equal(t, 2, res.Failed)
		assert.Equal(t, "3.5", repos.items.docs["i-4"].Price.String())
	})

	t.Run("📦 flushes in batches", func(t *testing.T) {
		var calls int32
		var flushedAt []int
		job := SyncJob[string]{
			Name: "stores", Path: "/stores", ListKey: "stores", BatchSize: 2,
			Transform: func(raw json.RawMessage) (string, error) { return string(raw), nil },
			Key:       func(d string) string { return d },
			Store: sinkFunc[string](func(context.Context, string, string) error {
				flushedAt = append(flushedAt, int(atomic.LoadInt32(&calls)))
				return nil
			}),
		}
		res, err := RunSync(ctx, newSyncClient(t, pagedStores(&calls)), job)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Synced)
		// two full batches after page 1 and 2, the remainder after page 3
		assert.Equal(t, []int{1, 1, 2, 2, 3}, flushedAt)
	})

	t.Run("❌ page failure aborts with an upstream error", func(t *testing.T) {
		client := newSyncClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"errors":[{"code":"RATE_LIMITED","details":"Too many requests"}]}`))
		})
		svc := NewSyncService(client, newMemRepos().repositories(), nil, SyncConfig{})
		_, err := svc.SyncEmployees(ctx)

		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.ErrCodeUpstream.Code, appErr.Code.Code)
		assert.Equal(t, common.StatusBadGateway, appErr.StatusCode)
		details := appErr.Details.(map[string]any)
		assert.Equal(t, http.StatusTooManyRequests, details["upstream_status"])
		assert.Equal(t, "Too many requests", details["upstream_message"])
	})

	t.Run("🗓️ receipts send the range and store", func(t *testing.T) {
		var seen []string
		client := newSyncClient(t, func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.RawQuery)
			assert.Equal(t, "2024-05-01T00:00:00.000Z", r.URL.Query().Get("created_at_min"))
			assert.Equal(t, "2024-05-02T23:59:59.999Z", r.URL.Query().Get("created_at_max"))
			assert.Equal(t, "s-1", r.URL.Query().Get("store_id"))
			_, _ = w.Write([]byte(`{"receipts":[{"id":"r-1","store_id":"s-1","created_at":"2024-05-01T10:00:00Z"}]}`))
		})
		repos := newMemRepos()
		svc := NewSyncService(client, repos.repositories(), nil, SyncConfig{PageDelay: time.Millisecond})

		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 5, 2, 23, 59, 59, 999e6, time.UTC)
		res, err := svc.SyncReceipts(ctx, SyncRange{StoreID: "s-1", From: from, To: to})
		require.NoError(t, err)
		assert.Len(t, seen, 1)
		assert.Equal(t, 1, res.Synced)
		assert.Contains(t, res.Message, "for store s-1")
		assert.Equal(t, "2024-05-01T10:00:00Z", repos.receipts.docs["r-1"].Meta.LastModifiedAt.Format(time.RFC3339))
	})

	t.Run("🧾 a receipt without store is skipped across pages", func(t *testing.T) {
		// 150 receipts over three pages; r-070 has no store_id
		pages := map[string]string{
			"":   receiptPage(0, 60, "p2"),
			"p2": receiptPage(60, 120, "p3"),
			"p3": receiptPage(120, 150, ""),
		}
		repos := newMemRepos()
		var writesAtRequest []int
		client := newSyncClient(t, func(w http.ResponseWriter, r *http.Request) {
			writesAtRequest = append(writesAtRequest, repos.receipts.count())
			_, _ = w.Write([]byte(pages[r.URL.Query().Get("cursor")]))
		})
		svc := NewSyncService(client, repos.repositories(), nil, SyncConfig{})

		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		res, err := svc.SyncReceipts(ctx, SyncRange{From: from, To: utility.EndOfDay(from)})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 150, res.Fetched)
		assert.Equal(t, 149, res.Synced)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, 149, repos.receipts.count())
		assert.NotContains(t, repos.receipts.keys(), "r-070")
		// the first batch of 100 (99 stored) is flushed once page 2 arrives
		assert.Equal(t, []int{0, 0, 99}, writesAtRequest)
	})

	t.Run("📅 a bare end date reaches the last millisecond", func(t *testing.T) {
		from, to, err := utility.ParseRange("2024-03-01", "2024-03-01")
		require.NoError(t, err)
		q := SyncRange{StoreID: "s-1", From: from, To: to}.query("opened_at_min", "opened_at_max")
		assert.Equal(t, "2024-03-01T00:00:00.000Z", q.Get("opened_at_min"))
		assert.Equal(t, "2024-03-01T23:59:59.999Z", q.Get("opened_at_max"))
		assert.Equal(t, "s-1", q.Get("store_id"))
	})

	t.Run("⏹️ cancellation interrupts the page delay", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		client := newSyncClient(t, func(w http.ResponseWriter, r *http.Request) {
			cancel()
			_, _ = w.Write([]byte(`{"shifts":[],"cursor":"more"}`))
		})
		svc := NewSyncService(client, newMemRepos().repositories(), nil, SyncConfig{PageDelay: time.Hour})
		_, err := svc.SyncShifts(ctx, SyncRange{From: time.Now().Add(-time.Hour), To: time.Now()})
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("🔒 busy lock is a conflict", func(t *testing.T) {
		svc := NewSyncService(nil, newMemRepos().repositories(), busyLocker{}, SyncConfig{})
		_, err := svc.SyncStores(ctx)
		assert.True(t, errors.Is(err, common.ErrSyncInProgress))
	})
}

// receiptPage renders receipts r-<from>..r-<to-1>; r-070 lacks its store_id.
func receiptPage(from, to int, cursor string) string {
	parts := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		store := `"store_id":"s-1",`
		if i == 70 {
			store = ""
		}
		parts = append(parts, fmt.Sprintf(`{"id":"r-%03d",%s"created_at":"2024-05-01T10:00:00Z"}`, i, store))
	}
	next := "null"
	if cursor != "" {
		next = `"` + cursor + `"`
	}
	return fmt.Sprintf(`{"receipts":[%s],"cursor":%s}`, strings.Join(parts, ","), next)
}

type sinkFunc[M any] func(ctx context.Context, id string, doc M) error

func (f sinkFunc[M]) ReplaceByLoyverseID(ctx context.Context, id string, doc M) error {
	return f(ctx, id, doc)
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, time.Duration, func(ctx context.Context) error) error {
	return common.ErrSyncInProgress
}

func TestUpstreamError(t *testing.T) {
	t.Run("🔑 missing token", func(t *testing.T) {
		err := upstreamError("sync stores", loyverse.ErrNoToken)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusServiceUnavailable, appErr.StatusCode)
	})

	t.Run("🌐 transport failure", func(t *testing.T) {
		err := upstreamError("sync stores", fmt.Errorf("dial tcp: refused"))
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadGateway, appErr.StatusCode)
	})
}
