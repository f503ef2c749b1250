package loyversesvc

import (
	"context"
	"time"

	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	basesvc "github.com/oacc1974/Golmarcadmion/internal/api/base/service"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sink replaces a mirrored document by its loyverse_id. possvc.EntityService implements it.
type Sink[M any] interface {
	ReplaceByLoyverseID(ctx context.Context, loyverseID string, doc M) error
}

// Repositories are the sinks the webhook and sync pipelines write to.
type Repositories struct {
	Stores    Sink[posmodels.Store]
	Employees Sink[posmodels.Employee]
	Items     Sink[posmodels.Item]
	Inventory Sink[posmodels.InventoryMovement]
	Receipts  Sink[posmodels.Receipt]
	Shifts    Sink[posmodels.Shift]
}

// RepositoriesFrom adapts the POS services.
func RepositoriesFrom(stores *possvc.StoreService, employees *possvc.EmployeeService, items *possvc.ItemService,
	inventory *possvc.InventoryMovementService, receipts *possvc.ReceiptService, shifts *possvc.ShiftService) Repositories {
	return Repositories{
		Stores:    stores,
		Employees: employees,
		Items:     items,
		Inventory: inventory,
		Receipts:  receipts,
		Shifts:    shifts,
	}
}

// EventStore persists webhook events. FindByEventID returns an error matching
// common.ErrNotFound when the event is unknown.
type EventStore interface {
	FindByEventID(ctx context.Context, eventID string) (loyversemodels.WebhookEvent, error)
	UpsertPending(ctx context.Context, eventID, eventType string, payload []byte, meta posmodels.MetaData, now time.Time) error
	MarkOutcome(ctx context.Context, eventID, status string, details map[string]interface{}, now time.Time) error
	MarkFailed(ctx context.Context, eventID, message, stack string, now time.Time) error
	List(ctx context.Context, filter bson.M, page basemodels.PageQuery) (*basemodels.PaginateResult[loyversemodels.WebhookEvent], error)
}

// MongoEventStore is the EventStore over loyverse_webhook_events.
type MongoEventStore struct {
	*basesvc.BaseServiceMongoImpl[loyversemodels.WebhookEvent]
}

// NewMongoEventStore binds to the registered collection.
func NewMongoEventStore() (*MongoEventStore, error) {
	base, err := basesvc.NewBaseServiceFromRegistry[loyversemodels.WebhookEvent](global.MongoDB_ColNames.WebhookEvents)
	if err != nil {
		return nil, err
	}
	return &MongoEventStore{BaseServiceMongoImpl: base}, nil
}

func (s *MongoEventStore) FindByEventID(ctx context.Context, eventID string) (loyversemodels.WebhookEvent, error) {
	return s.FindOne(ctx, bson.M{"event_id": eventID}, nil)
}

// UpsertPending resets the event to pending. created_at is written on insert only.
func (s *MongoEventStore) UpsertPending(ctx context.Context, eventID, eventType string, payload []byte, meta posmodels.MetaData, now time.Time) error {
	_, err := s.Upsert(ctx, bson.M{"event_id": eventID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"event_type": eventType,
			"payload":    loyversemodels.RawJSON(payload),
			"status":     loyversemodels.EventPending,
			"updated_at": now,
			"meta":       meta,
		},
		SetOnInsert: map[string]interface{}{
			"created_at": now,
		},
	})
	return err
}

// MarkOutcome records a processed or skipped event and clears a previous failure.
func (s *MongoEventStore) MarkOutcome(ctx context.Context, eventID, status string, details map[string]interface{}, now time.Time) error {
	res, err := s.Collection().UpdateOne(ctx, bson.M{"event_id": eventID}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":             status,
			"processing_details": details,
			"processed_at":       now,
			"updated_at":         now,
		},
		Unset: map[string]interface{}{"error": "", "error_stack": "", "failed_at": ""},
	})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.NotFound("webhook_event", eventID)
	}
	return nil
}

func (s *MongoEventStore) MarkFailed(ctx context.Context, eventID, message, stack string, now time.Time) error {
	return s.UpdateOneFields(ctx, bson.M{"event_id": eventID}, bson.M{
		"status":      loyversemodels.EventFailed,
		"error":       message,
		"error_stack": stack,
		"failed_at":   now,
		"updated_at":  now,
	})
}

// List returns events newest first.
func (s *MongoEventStore) List(ctx context.Context, filter bson.M, page basemodels.PageQuery) (*basemodels.PaginateResult[loyversemodels.WebhookEvent], error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetProjection(bson.M{"error_stack": 0})
	return s.FindWithPagination(ctx, filter, page, opts)
}
