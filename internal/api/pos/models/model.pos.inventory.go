package posmodels

import (
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inventory movement types.
const (
	MovementAdjustment  = "adjustment"
	MovementWaste       = "waste"
	MovementTransferIn  = "transfer_in"
	MovementTransferOut = "transfer_out"
	MovementSale        = "sale"
	MovementPurchase    = "purchase"
)

// MovementTypes lists the accepted values of InventoryMovement.Type.
var MovementTypes = []string{MovementAdjustment, MovementWaste, MovementTransferIn, MovementTransferOut, MovementSale, MovementPurchase}

// InventoryMovement is one stock change of an item in a store.
type InventoryMovement struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID     string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	StoreID        string             `json:"store_id" bson:"store_id" index:"compound:store_item"`
	ItemLoyverseID string             `json:"item_loyverse_id" bson:"item_loyverse_id" index:"compound:store_item"`
	Type           string             `json:"type" bson:"type"`
	Quantity       utility.Decimal    `json:"quantity" bson:"quantity"`
	Cost           utility.Decimal    `json:"cost" bson:"cost"`
	OccurredAt     time.Time          `json:"occurred_at" bson:"occurred_at" index:"single:-1"`
	Reason         string             `json:"reason" bson:"reason"`
	Meta           MetaData           `json:"meta" bson:"meta"`
}
