package posdto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

type InventoryMovementCreateInput struct {
	LoyverseID     string          `json:"loyverse_id" validate:"omitempty,max=64"`
	StoreID        string          `json:"store_id" validate:"required,max=64"`
	ItemLoyverseID string          `json:"item_loyverse_id" validate:"required,max=64"`
	Type           string          `json:"type" validate:"omitempty,oneof=adjustment waste transfer_in transfer_out sale purchase"`
	Quantity       utility.Decimal `json:"quantity"`
	Cost           utility.Decimal `json:"cost"`
	OccurredAt     *time.Time      `json:"occurred_at"`
	Reason         string          `json:"reason" validate:"max=500,no_xss"`
}

func (in InventoryMovementCreateInput) ToModel() (posmodels.InventoryMovement, error) {
	kind := in.Type
	if kind == "" {
		kind = posmodels.MovementAdjustment
	}
	occurred := time.Now().UTC()
	if in.OccurredAt != nil {
		occurred = in.OccurredAt.UTC()
	}
	return posmodels.InventoryMovement{
		LoyverseID:     loyverseIDOrNew(in.LoyverseID),
		StoreID:        in.StoreID,
		ItemLoyverseID: in.ItemLoyverseID,
		Type:           kind,
		Quantity:       in.Quantity,
		Cost:           in.Cost,
		OccurredAt:     occurred,
		Reason:         in.Reason,
		Meta:           manualMeta(),
	}, nil
}

type InventoryMovementUpdateInput struct {
	Type       *string          `json:"type" validate:"omitempty,oneof=adjustment waste transfer_in transfer_out sale purchase"`
	Quantity   *utility.Decimal `json:"quantity"`
	Cost       *utility.Decimal `json:"cost"`
	OccurredAt *time.Time       `json:"occurred_at"`
	Reason     *string          `json:"reason" validate:"omitempty,max=500,no_xss"`
}

func (in InventoryMovementUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("type", in.Type)
	p.str("reason", in.Reason)
	if in.Quantity != nil {
		p["quantity"] = *in.Quantity
	}
	if in.Cost != nil {
		p["cost"] = *in.Cost
	}
	if in.OccurredAt != nil {
		p["occurred_at"] = in.OccurredAt.UTC()
	}
	return p.done()
}
