// Package loyversemodels holds the webhook event log of the Loyverse integration.
package loyversemodels

import (
	"encoding/json"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Webhook event statuses. An event moves from pending to exactly one of the others.
const (
	EventPending   = "pending"
	EventProcessed = "processed"
	EventSkipped   = "skipped"
	EventFailed    = "failed"
)

// EventTTLSeconds is how long an event is kept, counted from created_at.
const EventTTLSeconds = 30 * 24 * 3600

// RawJSON is a JSON document stored as a string and written back to JSON unquoted.
type RawJSON string

// MarshalJSON emits r as is when it holds valid JSON, otherwise as a quoted string.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	if json.Valid([]byte(r)) {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

// WebhookEvent is one delivery received from Loyverse, keyed by the upstream event id.
type WebhookEvent struct {
	ID                primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	EventID           string                 `json:"event_id" bson:"event_id" index:"unique"`
	EventType         string                 `json:"event_type" bson:"event_type" index:"single:1"`
	Payload           RawJSON                `json:"payload" bson:"payload"`
	Status            string                 `json:"status" bson:"status" index:"single:1"`
	ProcessingDetails map[string]interface{} `json:"processing_details,omitempty" bson:"processing_details,omitempty"`
	ProcessedAt       *time.Time             `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	Error             string                 `json:"error,omitempty" bson:"error,omitempty"`
	ErrorStack        string                 `json:"error_stack,omitempty" bson:"error_stack,omitempty"`
	FailedAt          *time.Time             `json:"failed_at,omitempty" bson:"failed_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at" bson:"created_at" index:"ttl:2592000"`
	UpdatedAt         time.Time              `json:"updated_at" bson:"updated_at"`
	Meta              posmodels.MetaData     `json:"meta" bson:"meta"`
}
