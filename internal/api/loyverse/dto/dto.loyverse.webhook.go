// Package loyversedto holds the request shapes of the Loyverse integration.
package loyversedto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
)

// Webhook event types the pipeline dispatches.
const (
	TypeReceiptCreated   = "receipt.created"
	TypeReceiptUpdated   = "receipt.updated"
	TypeShiftCreated     = "shift.created"
	TypeShiftUpdated     = "shift.updated"
	TypeInventoryUpdated = "inventory.updated"
	TypeItemCreated      = "item.created"
	TypeItemUpdated      = "item.updated"
	TypeEmployeeCreated  = "employee.created"
	TypeEmployeeUpdated  = "employee.updated"
)

// WebhookPayload is the body Loyverse posts for every event.
type WebhookPayload struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseWebhookPayload decodes body and checks that id and type are present.
func ParseWebhookPayload(body []byte) (WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return p, common.InvalidInput("Invalid webhook payload", err)
	}
	p.ID = strings.TrimSpace(p.ID)
	p.Type = strings.TrimSpace(p.Type)

	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return p, common.NewError(common.ErrCodeValidationInput, "Invalid webhook payload", common.StatusBadRequest,
			map[string]any{"missing": missing})
	}
	return p, nil
}

// Event is the decoded data of a webhook. The concrete type tells which entity it carries.
type Event interface {
	EventType() string
}

type ReceiptEvent struct {
	Type    string
	Receipt loyverse.Receipt
}

type ShiftEvent struct {
	Type  string
	Shift loyverse.Shift
}

type InventoryEvent struct {
	Type   string
	Change loyverse.InventoryChange
}

type ItemEvent struct {
	Type string
	Item loyverse.Item
}

type EmployeeEvent struct {
	Type     string
	Employee loyverse.Employee
}

// UnknownEvent is any type the pipeline does not handle. It is stored as skipped.
type UnknownEvent struct {
	Type string
}

func (e ReceiptEvent) EventType() string   { return e.Type }
func (e ShiftEvent) EventType() string     { return e.Type }
func (e InventoryEvent) EventType() string { return e.Type }
func (e ItemEvent) EventType() string      { return e.Type }
func (e EmployeeEvent) EventType() string  { return e.Type }
func (e UnknownEvent) EventType() string   { return e.Type }

// Decode unmarshals Data into the record matching Type.
func (p WebhookPayload) Decode() (Event, error) {
	switch p.Type {
	case TypeReceiptCreated, TypeReceiptUpdated:
		var r loyverse.Receipt
		if err := p.decodeData(&r); err != nil {
			return nil, err
		}
		return ReceiptEvent{Type: p.Type, Receipt: r}, nil
	case TypeShiftCreated, TypeShiftUpdated:
		var sh loyverse.Shift
		if err := p.decodeData(&sh); err != nil {
			return nil, err
		}
		return ShiftEvent{Type: p.Type, Shift: sh}, nil
	case TypeInventoryUpdated:
		var ch loyverse.InventoryChange
		if err := p.decodeData(&ch); err != nil {
			return nil, err
		}
		return InventoryEvent{Type: p.Type, Change: ch}, nil
	case TypeItemCreated, TypeItemUpdated:
		var it loyverse.Item
		if err := p.decodeData(&it); err != nil {
			return nil, err
		}
		return ItemEvent{Type: p.Type, Item: it}, nil
	case TypeEmployeeCreated, TypeEmployeeUpdated:
		var e loyverse.Employee
		if err := p.decodeData(&e); err != nil {
			return nil, err
		}
		return EmployeeEvent{Type: p.Type, Employee: e}, nil
	}
	return UnknownEvent{Type: p.Type}, nil
}

func (p WebhookPayload) decodeData(target interface{}) error {
	if len(p.Data) == 0 || string(p.Data) == "null" {
		return fmt.Errorf("%s event %s has no data", p.Type, p.ID)
	}
	if err := json.Unmarshal(p.Data, target); err != nil {
		return fmt.Errorf("decode %s data: %w", p.Type, err)
	}
	return nil
}
