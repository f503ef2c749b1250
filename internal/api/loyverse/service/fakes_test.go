package loyversesvc

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"go.mongodb.org/mongo-driver/bson"
)

// memSink keeps documents by loyverse_id and fails for the ids in failOn.
type memSink[M any] struct {
	mu     sync.Mutex
	docs   map[string]M
	writes int
	failOn map[string]bool
}

func newMemSink[M any]() *memSink[M] {
	return &memSink[M]{docs: map[string]M{}, failOn: map[string]bool{}}
}

func (s *memSink[M]) ReplaceByLoyverseID(_ context.Context, id string, doc M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[id] {
		return errors.New("write refused for " + id)
	}
	s.writes++
	s.docs[id] = doc
	return nil
}

func (s *memSink[M]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memSink[M]) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.docs))
	for k := range s.docs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type memRepos struct {
	stores    *memSink[posmodels.Store]
	employees *memSink[posmodels.Employee]
	items     *memSink[posmodels.Item]
	inventory *memSink[posmodels.InventoryMovement]
	receipts  *memSink[posmodels.Receipt]
	shifts    *memSink[posmodels.Shift]
}

func newMemRepos() *memRepos {
	return &memRepos{
		stores:    newMemSink[posmodels.Store](),
		employees: newMemSink[posmodels.Employee](),
		items:     newMemSink[posmodels.Item](),
		inventory: newMemSink[posmodels.InventoryMovement](),
		receipts:  newMemSink[posmodels.Receipt](),
		shifts:    newMemSink[posmodels.Shift](),
	}
}

func (m *memRepos) repositories() Repositories {
	return Repositories{
		Stores:    m.stores,
		Employees: m.employees,
		Items:     m.items,
		Inventory: m.inventory,
		Receipts:  m.receipts,
		Shifts:    m.shifts,
	}
}

// memEvents is an in-memory EventStore.
type memEvents struct {
	mu     sync.Mutex
	events map[string]loyversemodels.WebhookEvent
	calls  int
}

func newMemEvents() *memEvents {
	return &memEvents{events: map[string]loyversemodels.WebhookEvent{}}
}

func (m *memEvents) FindByEventID(_ context.Context, id string) (loyversemodels.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	ev, ok := m.events[id]
	if !ok {
		return ev, common.ErrNotFound
	}
	return ev, nil
}

func (m *memEvents) UpsertPending(_ context.Context, id, eventType string, payload []byte, meta posmodels.MetaData, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	ev, ok := m.events[id]
	if !ok {
		ev = loyversemodels.WebhookEvent{EventID: id, CreatedAt: now}
	}
	ev.EventType = eventType
	ev.Payload = loyversemodels.RawJSON(payload)
	ev.Status = loyversemodels.EventPending
	ev.Meta = meta
	ev.UpdatedAt = now
	m.events[id] = ev
	return nil
}

func (m *memEvents) MarkOutcome(_ context.Context, id, status string, details map[string]interface{}, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	ev, ok := m.events[id]
	if !ok {
		return common.NotFound("webhook_event", id)
	}
	ev.Status = status
	ev.ProcessingDetails = details
	ev.ProcessedAt = &now
	ev.Error, ev.ErrorStack, ev.FailedAt = "", "", nil
	m.events[id] = ev
	return nil
}

func (m *memEvents) MarkFailed(_ context.Context, id, message, stack string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	ev := m.events[id]
	ev.Status = loyversemodels.EventFailed
	ev.Error = message
	ev.ErrorStack = stack
	ev.FailedAt = &now
	m.events[id] = ev
	return nil
}

func (m *memEvents) List(_ context.Context, filter bson.M, page basemodels.PageQuery) (*basemodels.PaginateResult[loyversemodels.WebhookEvent], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []loyversemodels.WebhookEvent
	for _, ev := range m.events {
		if st, ok := filter["status"]; ok && st != ev.Status {
			continue
		}
		items = append(items, ev)
	}
	page = page.Normalize(20, 100)
	return basemodels.NewPaginateResult(items, page.Page, page.Limit, int64(len(items))), nil
}

func (m *memEvents) get(id string) loyversemodels.WebhookEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id]
}
